package app

import (
	"context"
	"testing"

	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryServiceRejectsNonAdmin(t *testing.T) {
	svc := NewRegistryService(newTestRepo(t), testAdminID)
	ctx := context.Background()
	stranger := testAdminID + 1

	_, err := svc.AddTeacher(ctx, stranger, 1, "a@example.com", 0)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.GetTeacher(ctx, stranger, 1)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.ChangeEmail(ctx, stranger, 1, "b@example.com")
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.RemoveTeacher(ctx, stranger, 1)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.CountTeachers(ctx, stranger)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
	_, err = svc.ListGrouped(ctx, stranger, 10)
	assert.ErrorIs(t, err, ErrAdminNotAuthorized)
}

func TestAddTeacher(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewRegistryService(repo, testAdminID)
	ctx := context.Background()

	added, err := svc.AddTeacher(ctx, testAdminID, 70001, " new@example.com ", 12)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", added.Email)
	assert.Equal(t, int64(12), added.GroupID.Int64)

	_, err = svc.AddTeacher(ctx, testAdminID, 70001, "other@example.com", 0)
	assert.ErrorIs(t, err, ErrTeacherAlreadyExists)

	_, err = svc.AddTeacher(ctx, testAdminID, 70002, "broken", 0)
	assert.ErrorIs(t, err, teacher.ErrInvalidTeacher)

	noGroup, err := svc.AddTeacher(ctx, testAdminID, 70003, "solo@example.com", 0)
	require.NoError(t, err)
	assert.False(t, noGroup.GroupID.Valid)
}

func TestChangeEmail(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, &teacher.Teacher{ID: 70010, Email: "old@example.com"})
	svc := NewRegistryService(repo, testAdminID)
	ctx := context.Background()

	updated, err := svc.ChangeEmail(ctx, testAdminID, 70010, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	email, err := repo.EmailByID(ctx, 70010)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", email)

	_, err = svc.ChangeEmail(ctx, testAdminID, 70010, "NEW@example.com")
	assert.ErrorIs(t, err, ErrEmailUnchanged)

	_, err = svc.ChangeEmail(ctx, testAdminID, 70011, "x@example.com")
	assert.ErrorIs(t, err, idb.ErrTeacherNotFound)
}

func TestRemoveTeacher(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, &teacher.Teacher{ID: 70020, Email: "gone@example.com"})
	svc := NewRegistryService(repo, testAdminID)
	ctx := context.Background()

	removed, err := svc.RemoveTeacher(ctx, testAdminID, 70020)
	require.NoError(t, err)
	assert.Equal(t, "gone@example.com", removed.Email)

	_, err = svc.GetTeacher(ctx, testAdminID, 70020)
	assert.ErrorIs(t, err, idb.ErrTeacherNotFound)

	_, err = svc.RemoveTeacher(ctx, testAdminID, 70020)
	assert.ErrorIs(t, err, idb.ErrTeacherNotFound)
}

func TestCountAndListGrouped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	before, err := repo.Count(ctx)
	require.NoError(t, err)
	beforeGrouped, err := repo.CountWithGroup(ctx)
	require.NoError(t, err)

	seed(t, repo,
		&teacher.Teacher{ID: 70030, Email: "g1@example.com", GroupID: teacher.NewGroupID(1)},
		&teacher.Teacher{ID: 70031, Email: "g2@example.com", GroupID: teacher.NewGroupID(1)},
		&teacher.Teacher{ID: 70032, Email: "none@example.com"},
	)
	svc := NewRegistryService(repo, testAdminID)

	counts, err := svc.CountTeachers(ctx, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, before+3, counts.Total)
	assert.Equal(t, beforeGrouped+2, counts.Grouped)

	listed, err := svc.ListGrouped(ctx, testAdminID, 1)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListGrouped(ctx, testAdminID, 0)
	assert.ErrorIs(t, err, idb.ErrInvalidLimit)
}
