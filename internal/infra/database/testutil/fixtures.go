package testutil

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

// TeacherTable is the table every helper in this file inspects.
const TeacherTable = "teacher"

// CountRows returns the number of rows in a table using literal SQL.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count).Error
	return count, err
}

// MustCountRows returns the number of rows in a table and fails the test on error.
func MustCountRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	return count
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t *testing.T, db *gorm.DB, table string, expected int64) {
	t.Helper()
	if count := MustCountRows(t, db, table); count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}

// EmailByID reads a teacher's email with literal SQL, bypassing the model mapping.
// found is false when no row has the id.
func EmailByID(t *testing.T, db *gorm.DB, id int64) (email string, found bool) {
	t.Helper()
	var v sql.NullString
	err := db.Raw("SELECT email FROM teacher WHERE teacher_id = ?", id).Row().Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		t.Fatalf("failed to read email of teacher %d: %v", id, err)
	}
	return v.String, true
}

// CountIDs returns how many of ids are present in the teacher table.
func CountIDs(t *testing.T, db *gorm.DB, ids ...int64) int64 {
	t.Helper()
	if len(ids) == 0 {
		return 0
	}
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM teacher WHERE teacher_id IN ?", ids).Scan(&count).Error; err != nil {
		t.Fatalf("failed to count teachers by id: %v", err)
	}
	return count
}

// InsertTeacher writes a row with literal SQL. A zero groupID stores NULL.
func InsertTeacher(t *testing.T, db *gorm.DB, id int64, email string, groupID int64) {
	t.Helper()
	group := sql.NullInt64{Int64: groupID, Valid: groupID != 0}
	if err := db.Exec("INSERT INTO teacher (teacher_id, email, group_id) VALUES (?, ?, ?)", id, email, group).Error; err != nil {
		t.Fatalf("failed to insert teacher %d: %v", id, err)
	}
}
