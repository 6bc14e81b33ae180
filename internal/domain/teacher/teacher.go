package teacher

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidTeacher is wrapped by every validation failure.
var ErrInvalidTeacher = errors.New("invalid teacher")

var validate = validator.New()

// Teacher represents a row of the 'teacher' table.
type Teacher struct {
	ID      int64         `gorm:"column:teacher_id;primaryKey;autoIncrement:false" validate:"gt=0"`
	Email   string        `gorm:"column:email;size:100" validate:"required,email,max=100"`
	GroupID sql.NullInt64 `gorm:"column:group_id"` // Not every teacher belongs to a group
}

// TableName pins the table name; GORM would pluralize it otherwise.
func (Teacher) TableName() string {
	return "teacher"
}

// Validate checks the fields that the table itself does not enforce.
func (t *Teacher) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTeacher, err)
	}
	return nil
}

// NewGroupID wraps a group identifier for assignment to Teacher.GroupID.
func NewGroupID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}
