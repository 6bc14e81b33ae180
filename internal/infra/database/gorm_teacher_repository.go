package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teacher_registry/internal/domain/teacher"

	"gorm.io/gorm"
)

// Literal SQL used to cross-check the mapping layer.
const (
	countWithGroupSQL = `SELECT COUNT(*) FROM teacher WHERE group_id IS NOT NULL`
	emailByIDSQL      = `SELECT email FROM teacher WHERE teacher_id = ?`
)

// createBatchSize bounds the number of rows per INSERT statement in CreateBatch.
const createBatchSize = 100

// GormTeacherRepository implements teacher.Repository on top of GORM.
// It works the same on a pooled handle and on a Session handle: writes commit in the
// first case and become savepoints of the enclosing transaction in the second.
type GormTeacherRepository struct {
	db *gorm.DB
}

var _ teacher.Repository = (*GormTeacherRepository)(nil)

func NewGormTeacherRepository(db *gorm.DB) *GormTeacherRepository {
	return &GormTeacherRepository{db: db}
}

func (r *GormTeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error {
	if err := t.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(t).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: teacher_id=%d", ErrDuplicateTeacher, t.ID)
		}
		return fmt.Errorf("error creating teacher: %w", err)
	}
	return nil
}

func (r *GormTeacherRepository) CreateBatch(ctx context.Context, teachers []*teacher.Teacher) error {
	if len(teachers) == 0 {
		return nil
	}
	for _, t := range teachers {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("teacher_id=%d: %w", t.ID, err)
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(teachers, createBatchSize).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("error in bulk create: %w", ErrDuplicateTeacher)
		}
		return fmt.Errorf("error in bulk create of %d teachers: %w", len(teachers), err)
	}
	return nil
}

func (r *GormTeacherRepository) GetByID(ctx context.Context, id int64) (*teacher.Teacher, error) {
	t := &teacher.Teacher{}
	err := r.db.WithContext(ctx).Where("teacher_id = ?", id).Take(t).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error getting teacher by ID: %w", err)
	}
	return t, nil
}

func (r *GormTeacherRepository) Update(ctx context.Context, t *teacher.Teacher) error {
	if err := t.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&teacher.Teacher{}).
			Where("teacher_id = ?", t.ID).
			Updates(map[string]interface{}{"email": t.Email, "group_id": t.GroupID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTeacherNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			return err
		}
		return fmt.Errorf("error updating teacher: %w", err)
	}
	return nil
}

func (r *GormTeacherRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("teacher_id = ?", id).Delete(&teacher.Teacher{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTeacherNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			return err
		}
		return fmt.Errorf("error deleting teacher: %w", err)
	}
	return nil
}

func (r *GormTeacherRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&teacher.Teacher{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting teachers: %w", err)
	}
	return count, nil
}

func (r *GormTeacherRepository) ListByIDs(ctx context.Context, ids []int64) ([]*teacher.Teacher, error) {
	teachers := make([]*teacher.Teacher, 0, len(ids))
	if len(ids) == 0 {
		return teachers, nil
	}
	err := r.db.WithContext(ctx).
		Where("teacher_id IN ?", ids).
		Order("teacher_id").
		Find(&teachers).Error
	if err != nil {
		return nil, fmt.Errorf("error listing teachers by IDs: %w", err)
	}
	return teachers, nil
}

func (r *GormTeacherRepository) ListWithGroup(ctx context.Context, limit int) ([]*teacher.Teacher, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	teachers := make([]*teacher.Teacher, 0)
	err := r.db.WithContext(ctx).
		Where("group_id IS NOT NULL").
		Order("teacher_id").
		Limit(limit).
		Find(&teachers).Error
	if err != nil {
		return nil, fmt.Errorf("error listing grouped teachers: %w", err)
	}
	return teachers, nil
}

func (r *GormTeacherRepository) CountWithGroup(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(countWithGroupSQL).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("error counting grouped teachers: %w", err)
	}
	return count, nil
}

func (r *GormTeacherRepository) EmailByID(ctx context.Context, id int64) (string, error) {
	var email sql.NullString
	err := r.db.WithContext(ctx).Raw(emailByIDSQL, id).Row().Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTeacherNotFound
		}
		return "", fmt.Errorf("error reading teacher email: %w", err)
	}
	return email.String, nil
}
