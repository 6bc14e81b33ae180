package database_test

import (
	"context"
	"testing"

	"teacher_registry/internal/infra/database"
	"teacher_registry/internal/infra/database/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCloseDiscardsWrites(t *testing.T) {
	tdb := testutil.NewDatabase(t)
	ctx := context.Background()
	id := testID(0)

	s, err := database.BeginSession(ctx, tdb.DB)
	require.NoError(t, err)

	testutil.InsertTeacher(t, s.DB(), id, "session@example.com", 0)
	assert.Equal(t, int64(1), testutil.CountIDs(t, s.DB(), id))

	require.NoError(t, s.Close())
	assert.Equal(t, int64(0), testutil.CountIDs(t, tdb.DB, id))
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	tdb := testutil.NewDatabase(t)

	s, err := database.BeginSession(context.Background(), tdb.DB)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSessionRepositoryCommitStaysInSession(t *testing.T) {
	tdb := testutil.NewDatabase(t)
	ctx := context.Background()
	id := testID(1)

	s, err := database.BeginSession(ctx, tdb.DB)
	require.NoError(t, err)

	repo := database.NewGormTeacherRepository(s.DB())
	require.NoError(t, repo.Create(ctx, newTeacher(id, "nested@example.com", 1)))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "nested@example.com", got.Email)

	require.NoError(t, s.Close())
	assert.Equal(t, int64(0), testutil.CountIDs(t, tdb.DB, id))
}
