package telegram

import "gopkg.in/telebot.v3"

// Client sends text messages to a Telegram chat.
// The registry uses it for admin replies and leak alerts without depending on the bot library directly.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
