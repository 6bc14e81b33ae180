package telegram

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBotCommands registers /start and /help. Only the admin gets the command list.
func RegisterBotCommands(b *telebot.Bot, adminTelegramID int64, baseLogger *logrus.Entry) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		return c.Send(startText(senderID == adminTelegramID, c.Sender().FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID == adminTelegramID {
			return c.Send(adminHelpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}
		return c.Send("Доступных команд для вас нет. Обратитесь к администратору реестра преподавателей.")
	})
}

func startText(isAdmin bool, firstName string) string {
	if isAdmin {
		return "Привет, Администратор " + firstName + "! Реестр преподавателей готов к работе. Используйте /help для списка команд."
	}
	return "Привет! Это бот реестра преподавателей. Команды доступны только администратору."
}

func adminHelpText() string {
	var helpText strings.Builder
	helpText.WriteString("Доступные команды Администратора:\n\n")
	helpText.WriteString("`/add_teacher <ID> <email> [ID группы]`\n - Добавить преподавателя.\n\n")
	helpText.WriteString("`/teacher <ID>`\n - Показать преподавателя.\n\n")
	helpText.WriteString("`/set_email <ID> <email>`\n - Изменить email преподавателя.\n\n")
	helpText.WriteString("`/remove_teacher <ID>`\n - Удалить преподавателя.\n\n")
	helpText.WriteString("`/count_teachers`\n - Количество преподавателей, всего и с группой.\n\n")
	helpText.WriteString("`/list_grouped [лимит]`\n - Преподаватели с группой, не больше указанного количества.\n\n")
	helpText.WriteString("`/audit`\n - Проверить, не остались ли в таблице тестовые записи.\n\n")
	helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
	return helpText.String()
}
