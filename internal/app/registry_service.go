package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"
)

// Custom application-level errors for the registry service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrTeacherAlreadyExists = fmt.Errorf("teacher with this ID already exists")
var ErrEmailUnchanged = fmt.Errorf("teacher already has this email")

// RegistryService is the admin-facing API over the teacher table.
type RegistryService struct {
	teacherRepo     teacher.Repository
	adminTelegramID int64
}

func NewRegistryService(tr teacher.Repository, adminID int64) *RegistryService {
	return &RegistryService{
		teacherRepo:     tr,
		adminTelegramID: adminID,
	}
}

func (s *RegistryService) authorize(performingAdminID int64) error {
	if performingAdminID != s.adminTelegramID {
		return ErrAdminNotAuthorized
	}
	return nil
}

// AddTeacher registers a new teacher. groupID 0 leaves the teacher without a group.
func (s *RegistryService) AddTeacher(ctx context.Context, performingAdminID, teacherID int64, email string, groupID int64) (*teacher.Teacher, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}

	newTeacher := &teacher.Teacher{
		ID:    teacherID,
		Email: strings.TrimSpace(email),
	}
	if groupID != 0 {
		newTeacher.GroupID = teacher.NewGroupID(groupID)
	}

	if err := s.teacherRepo.Create(ctx, newTeacher); err != nil {
		if errors.Is(err, idb.ErrDuplicateTeacher) {
			return nil, ErrTeacherAlreadyExists
		}
		if errors.Is(err, teacher.ErrInvalidTeacher) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create teacher in repository: %w", err)
	}
	return newTeacher, nil
}

// GetTeacher returns the teacher with the given ID.
func (s *RegistryService) GetTeacher(ctx context.Context, performingAdminID, teacherID int64) (*teacher.Teacher, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}
	t, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, idb.ErrTeacherNotFound) {
			return nil, idb.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return t, nil
}

// ChangeEmail replaces a teacher's email and returns the updated record.
func (s *RegistryService) ChangeEmail(ctx context.Context, performingAdminID, teacherID int64, email string) (*teacher.Teacher, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}

	target, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, idb.ErrTeacherNotFound) {
			return nil, idb.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher for email change: %w", err)
	}

	email = strings.TrimSpace(email)
	if strings.EqualFold(target.Email, email) {
		return target, ErrEmailUnchanged
	}

	target.Email = email
	if err := s.teacherRepo.Update(ctx, target); err != nil {
		if errors.Is(err, teacher.ErrInvalidTeacher) || errors.Is(err, idb.ErrTeacherNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update teacher email in repository: %w", err)
	}
	return target, nil
}

// RemoveTeacher deletes a teacher and returns the record as it was before deletion.
func (s *RegistryService) RemoveTeacher(ctx context.Context, performingAdminID, teacherID int64) (*teacher.Teacher, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}

	target, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, idb.ErrTeacherNotFound) {
			return nil, idb.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher for removal: %w", err)
	}

	if err := s.teacherRepo.Delete(ctx, teacherID); err != nil {
		if errors.Is(err, idb.ErrTeacherNotFound) {
			return nil, idb.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to delete teacher in repository: %w", err)
	}
	return target, nil
}

// TeacherCounts summarizes the table for the admin.
type TeacherCounts struct {
	Total   int64
	Grouped int64
}

func (s *RegistryService) CountTeachers(ctx context.Context, performingAdminID int64) (*TeacherCounts, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}
	total, err := s.teacherRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count teachers: %w", err)
	}
	grouped, err := s.teacherRepo.CountWithGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count grouped teachers: %w", err)
	}
	return &TeacherCounts{Total: total, Grouped: grouped}, nil
}

// ListGrouped returns at most limit teachers that belong to a group, ordered by ID.
func (s *RegistryService) ListGrouped(ctx context.Context, performingAdminID int64, limit int) ([]*teacher.Teacher, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}
	teachers, err := s.teacherRepo.ListWithGroup(ctx, limit)
	if err != nil {
		if errors.Is(err, idb.ErrInvalidLimit) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to list grouped teachers: %w", err)
	}
	return teachers, nil
}
