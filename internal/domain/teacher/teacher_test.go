package teacher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacher_TableName(t *testing.T) {
	assert.Equal(t, "teacher", Teacher{}.TableName())
}

func TestTeacher_Validate(t *testing.T) {
	tests := []struct {
		name    string
		teacher Teacher
		wantErr bool
	}{
		{"valid with group", Teacher{ID: 1, Email: "proof_1@example.com", GroupID: NewGroupID(999)}, false},
		{"valid without group", Teacher{ID: 2, Email: "nogroup@example.com"}, false},
		{"zero id", Teacher{ID: 0, Email: "zero@example.com"}, true},
		{"negative id", Teacher{ID: -5, Email: "neg@example.com"}, true},
		{"empty email", Teacher{ID: 3}, true},
		{"malformed email", Teacher{ID: 4, Email: "not-an-email"}, true},
		{"email too long", Teacher{ID: 5, Email: strings.Repeat("a", 90) + "@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.teacher.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTeacher)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewGroupID(t *testing.T) {
	g := NewGroupID(100)
	assert.True(t, g.Valid)
	assert.Equal(t, int64(100), g.Int64)
}
