package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	smokeEmail   = "manual_test@example.com"
	smokeGroupID = 888
)

// SmokeReport describes a completed smoke run.
type SmokeReport struct {
	RunID     string
	TeacherID int64
	Duration  time.Duration
}

// SmokeCheck exercises the full lifecycle against the durable table:
// insert, read back, delete, confirm absence. Every step commits.
type SmokeCheck struct {
	teacherRepo teacher.Repository
	logger      *logrus.Entry
}

func NewSmokeCheck(tr teacher.Repository, logger *logrus.Entry) *SmokeCheck {
	return &SmokeCheck{teacherRepo: tr, logger: logger}
}

func (s *SmokeCheck) Run(ctx context.Context, teacherID int64) (*SmokeReport, error) {
	runID := uuid.NewString()
	started := time.Now()
	log := s.logger.WithFields(logrus.Fields{
		"run_id":     runID,
		"teacher_id": teacherID,
	})
	log.Info("Smoke check started")

	probe := &teacher.Teacher{
		ID:      teacherID,
		Email:   smokeEmail,
		GroupID: teacher.NewGroupID(smokeGroupID),
	}
	if err := s.teacherRepo.Create(ctx, probe); err != nil {
		log.WithError(err).Error("Smoke check insert failed")
		return nil, fmt.Errorf("smoke insert: %w", err)
	}
	log.Debug("Teacher inserted")

	got, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		s.cleanup(ctx, log, teacherID)
		return nil, fmt.Errorf("smoke read: %w", err)
	}
	if got.Email != smokeEmail || !got.GroupID.Valid || got.GroupID.Int64 != smokeGroupID {
		s.cleanup(ctx, log, teacherID)
		return nil, fmt.Errorf("smoke read: unexpected row email=%q group_id=%v", got.Email, got.GroupID)
	}
	log.Debug("Teacher read back")

	if err := s.teacherRepo.Delete(ctx, teacherID); err != nil {
		log.WithError(err).Error("Smoke check delete failed")
		return nil, fmt.Errorf("smoke delete: %w", err)
	}

	if _, err := s.teacherRepo.GetByID(ctx, teacherID); !errors.Is(err, idb.ErrTeacherNotFound) {
		if err == nil {
			err = errors.New("row still present after delete")
		}
		return nil, fmt.Errorf("smoke verify: %w", err)
	}

	report := &SmokeReport{RunID: runID, TeacherID: teacherID, Duration: time.Since(started)}
	log.WithField("duration", report.Duration).Info("Smoke check passed")
	return report, nil
}

// cleanup removes the probe row after a failed step so reruns are not blocked by a duplicate.
func (s *SmokeCheck) cleanup(ctx context.Context, log *logrus.Entry, teacherID int64) {
	if err := s.teacherRepo.Delete(ctx, teacherID); err != nil && !errors.Is(err, idb.ErrTeacherNotFound) {
		log.WithError(err).Warn("Failed to remove smoke check row")
	}
}
