package telegram

import (
	"context"
	"errors"
	"fmt"

	"teacher_registry/internal/app"
	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgNotAuthorized = "Ошибка: У вас нет прав для выполнения этой команды."

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, registry service, leak auditor, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, registry *app.RegistryService, auditor *app.LeakAuditor, adminTelegramID int64, baseLogger *logrus.Entry) {
	// adminOnly logs the command and stops non-admin senders before the handler runs.
	adminOnly := func(command string, next func(c telebot.Context, log *logrus.Entry) error) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			handlerLogger := baseLogger.WithFields(logrus.Fields{
				"handler":   command,
				"sender_id": c.Sender().ID,
			})
			handlerLogger.Info("Command received")

			if c.Sender().ID != adminTelegramID {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send(msgNotAuthorized)
			}
			return next(c, handlerLogger)
		}
	}

	b.Handle("/add_teacher", adminOnly("/add_teacher", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		// Expected format: /add_teacher <ID> <email> [group_id]
		args, err := parseAddTeacherArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid command format")
			return c.Send(argErrorText(err, "/add_teacher <ID> <email> [ID группы]"))
		}
		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"teacher_id": args.TeacherID,
			"group_id":   args.GroupID,
		})

		newTeacher, err := registry.AddTeacher(ctx, c.Sender().ID, args.TeacherID, args.Email, args.GroupID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(msgNotAuthorized)
			case errors.Is(err, app.ErrTeacherAlreadyExists):
				logWithError.Warn("Teacher already exists")
				return c.Send(fmt.Sprintf("Ошибка: Преподаватель с ID %d уже существует.", args.TeacherID))
			case errors.Is(err, teacher.ErrInvalidTeacher):
				logWithError.Warn("Invalid teacher data")
				return c.Send(fmt.Sprintf("Ошибка: Некорректные данные преподавателя: %s", err.Error()))
			default:
				logWithError.Error("Failed to add teacher")
				return c.Send(fmt.Sprintf("Произошла ошибка при добавлении преподавателя: %s", err.Error()))
			}
		}

		handlerLogger.Info("Teacher added successfully")
		return c.Send(fmt.Sprintf("Преподаватель успешно добавлен.\n%s", formatTeacher(newTeacher)))
	}))

	b.Handle("/teacher", adminOnly("/teacher", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		teacherID, err := parseTeacherIDArg(c.Args())
		if err != nil {
			return c.Send(argErrorText(err, "/teacher <ID>"))
		}

		found, err := registry.GetTeacher(ctx, c.Sender().ID, teacherID)
		if err != nil {
			if errors.Is(err, idb.ErrTeacherNotFound) {
				return c.Send(fmt.Sprintf("Преподаватель с ID %d не найден.", teacherID))
			}
			handlerLogger.WithError(err).Error("Failed to get teacher")
			return c.Send(fmt.Sprintf("Произошла ошибка при получении преподавателя: %s", err.Error()))
		}
		return c.Send(formatTeacher(found))
	}))

	b.Handle("/set_email", adminOnly("/set_email", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		teacherID, email, err := parseSetEmailArgs(c.Args())
		if err != nil {
			return c.Send(argErrorText(err, "/set_email <ID> <email>"))
		}
		handlerLogger = handlerLogger.WithField("teacher_id", teacherID)

		updated, err := registry.ChangeEmail(ctx, c.Sender().ID, teacherID, email)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, idb.ErrTeacherNotFound):
				logWithError.Warn("Teacher to update not found")
				return c.Send(fmt.Sprintf("Преподаватель с ID %d не найден.", teacherID))
			case errors.Is(err, app.ErrEmailUnchanged):
				return c.Send(fmt.Sprintf("У преподавателя с ID %d уже указан этот email.", teacherID))
			case errors.Is(err, teacher.ErrInvalidTeacher):
				logWithError.Warn("Invalid email")
				return c.Send(fmt.Sprintf("Ошибка: Некорректный email: %s", email))
			default:
				logWithError.Error("Failed to change teacher email")
				return c.Send(fmt.Sprintf("Произошла ошибка при изменении email: %s", err.Error()))
			}
		}

		handlerLogger.Info("Teacher email changed")
		return c.Send(fmt.Sprintf("Email обновлён.\n%s", formatTeacher(updated)))
	}))

	b.Handle("/remove_teacher", adminOnly("/remove_teacher", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		teacherID, err := parseTeacherIDArg(c.Args())
		if err != nil {
			return c.Send(argErrorText(err, "/remove_teacher <ID>"))
		}
		handlerLogger = handlerLogger.WithField("teacher_id", teacherID)

		removed, err := registry.RemoveTeacher(ctx, c.Sender().ID, teacherID)
		if err != nil {
			if errors.Is(err, idb.ErrTeacherNotFound) {
				handlerLogger.WithError(err).Warn("Teacher to remove not found")
				return c.Send(fmt.Sprintf("Преподаватель с ID %d не найден.", teacherID))
			}
			handlerLogger.WithError(err).Error("Failed to remove teacher")
			return c.Send(fmt.Sprintf("Произошла ошибка при удалении преподавателя: %s", err.Error()))
		}

		handlerLogger.Info("Teacher removed")
		return c.Send(fmt.Sprintf("Преподаватель удалён.\n%s", formatTeacher(removed)))
	}))

	b.Handle("/count_teachers", adminOnly("/count_teachers", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		counts, err := registry.CountTeachers(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to count teachers")
			return c.Send(fmt.Sprintf("Произошла ошибка при подсчёте преподавателей: %s", err.Error()))
		}
		return c.Send(fmt.Sprintf("Всего преподавателей: %d\nС группой: %d", counts.Total, counts.Grouped))
	}))

	b.Handle("/list_grouped", adminOnly("/list_grouped", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		limit, err := parseLimitArg(c.Args())
		if err != nil {
			return c.Send(argErrorText(err, "/list_grouped [лимит]"))
		}

		teachers, err := registry.ListGrouped(ctx, c.Sender().ID, limit)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list grouped teachers")
			return c.Send(fmt.Sprintf("Произошла ошибка при получении списка: %s", err.Error()))
		}
		return c.Send(formatTeacherList(teachers))
	}))

	b.Handle("/audit", adminOnly("/audit", func(c telebot.Context, handlerLogger *logrus.Entry) error {
		report, err := auditor.Audit(ctx)
		if err != nil {
			handlerLogger.WithError(err).Error("Audit failed")
			return c.Send(fmt.Sprintf("Произошла ошибка при проверке: %s", err.Error()))
		}
		if report.Clean() {
			return c.Send(fmt.Sprintf("Проверка пройдена: тестовые записи (%d) не найдены.", len(report.Checked)))
		}
		// The auditor has already alerted the admin chat.
		if report.Alerted {
			return nil
		}
		return c.Send(leakSummary(report))
	}))
}

func leakSummary(report *app.AuditReport) string {
	return fmt.Sprintf("Внимание: найдены тестовые записи: %v", report.Leaked)
}

// argErrorText turns a parse error into a Russian reply with the command usage.
func argErrorText(err error, usage string) string {
	switch {
	case errors.Is(err, errBadTeacherID):
		return "Ошибка: ID преподавателя должен быть положительным числом."
	case errors.Is(err, errBadGroupID):
		return "Ошибка: ID группы должен быть положительным числом."
	case errors.Is(err, errBadLimit):
		return "Ошибка: Лимит должен быть положительным числом."
	case errors.Is(err, errEmptyEmail):
		return "Ошибка: Email не может быть пустым."
	default:
		return fmt.Sprintf("Неверный формат команды. Используйте: %s", usage)
	}
}
