package app

import (
	"context"
	"testing"

	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeCheckLeavesNoRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	before, err := repo.Count(ctx)
	require.NoError(t, err)

	report, err := NewSmokeCheck(repo, quietLogger()).Run(ctx, 88888)
	require.NoError(t, err)
	assert.Equal(t, int64(88888), report.TeacherID)
	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = repo.GetByID(ctx, 88888)
	assert.ErrorIs(t, err, idb.ErrTeacherNotFound)
}

func TestSmokeCheckFailsOnOccupiedID(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, &teacher.Teacher{ID: 88889, Email: "real@example.com"})

	_, err := NewSmokeCheck(repo, quietLogger()).Run(context.Background(), 88889)
	require.Error(t, err)
	assert.ErrorIs(t, err, idb.ErrDuplicateTeacher)
	assert.Contains(t, err.Error(), "smoke insert")

	email, err := repo.EmailByID(context.Background(), 88889)
	require.NoError(t, err)
	assert.Equal(t, "real@example.com", email)
}
