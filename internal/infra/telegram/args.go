package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"teacher_registry/internal/domain/teacher"
)

const defaultListLimit = 20

var (
	errWrongArgCount = errors.New("wrong number of arguments")
	errBadTeacherID  = errors.New("teacher id must be a positive number")
	errBadGroupID    = errors.New("group id must be a positive number")
	errBadLimit      = errors.New("limit must be a positive number")
	errEmptyEmail    = errors.New("email must not be empty")
)

type addTeacherArgs struct {
	TeacherID int64
	Email     string
	GroupID   int64
}

// parseAddTeacherArgs parses "<id> <email> [group_id]".
func parseAddTeacherArgs(args []string) (addTeacherArgs, error) {
	if len(args) < 2 || len(args) > 3 {
		return addTeacherArgs{}, errWrongArgCount
	}
	id, err := parsePositiveID(args[0], errBadTeacherID)
	if err != nil {
		return addTeacherArgs{}, err
	}
	email := strings.TrimSpace(args[1])
	if email == "" {
		return addTeacherArgs{}, errEmptyEmail
	}
	parsed := addTeacherArgs{TeacherID: id, Email: email}
	if len(args) == 3 {
		if parsed.GroupID, err = parsePositiveID(args[2], errBadGroupID); err != nil {
			return addTeacherArgs{}, err
		}
	}
	return parsed, nil
}

// parseTeacherIDArg parses a single "<id>" argument.
func parseTeacherIDArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errWrongArgCount
	}
	return parsePositiveID(args[0], errBadTeacherID)
}

// parseSetEmailArgs parses "<id> <email>".
func parseSetEmailArgs(args []string) (int64, string, error) {
	if len(args) != 2 {
		return 0, "", errWrongArgCount
	}
	id, err := parsePositiveID(args[0], errBadTeacherID)
	if err != nil {
		return 0, "", err
	}
	email := strings.TrimSpace(args[1])
	if email == "" {
		return 0, "", errEmptyEmail
	}
	return id, email, nil
}

// parseLimitArg parses an optional "[limit]", falling back to defaultListLimit.
func parseLimitArg(args []string) (int, error) {
	switch len(args) {
	case 0:
		return defaultListLimit, nil
	case 1:
		limit, err := strconv.Atoi(args[0])
		if err != nil || limit <= 0 {
			return 0, errBadLimit
		}
		return limit, nil
	default:
		return 0, errWrongArgCount
	}
}

func parsePositiveID(s string, errBad error) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBad
	}
	return id, nil
}

// formatTeacher renders one teacher as a single reply line.
func formatTeacher(t *teacher.Teacher) string {
	group := "без группы"
	if t.GroupID.Valid {
		group = fmt.Sprintf("группа %d", t.GroupID.Int64)
	}
	return fmt.Sprintf("ID: %d, email: %s, %s", t.ID, t.Email, group)
}

// formatTeacherList renders the /list_grouped reply.
func formatTeacherList(teachers []*teacher.Teacher) string {
	if len(teachers) == 0 {
		return "Преподаватели с группой не найдены."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Преподаватели с группой (%d):\n", len(teachers))
	for _, t := range teachers {
		b.WriteString("- ")
		b.WriteString(formatTeacher(t))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
