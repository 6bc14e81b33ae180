package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Custom errors
var (
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrDuplicateTeacher = errors.New("teacher with this teacher_id already exists")
	ErrInvalidLimit     = errors.New("limit must be greater than zero")
)

// isDuplicateKey recognizes a unique violation from any of the supported drivers.
// GORM only translates errors for the drivers it knows, so lib/pq and raw SQLite errors are checked by hand.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNotFound reports whether err means the queried row does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
