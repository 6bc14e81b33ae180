package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"teacher_registry/internal/domain/teacher"
	idb "teacher_registry/internal/infra/database"
	"teacher_registry/internal/infra/database/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

const testAdminID int64 = 4242

type sentMessage struct {
	chatID int64
	text   string
}

// fakeTelegramClient records messages instead of calling the Bot API.
type fakeTelegramClient struct {
	sent []sentMessage
	err  error
}

func (f *fakeTelegramClient) SendMessage(recipientChatID int64, text string, _ *telebot.SendOptions) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: recipientChatID, text: text})
	return nil
}

var errSendFailed = errors.New("telegram unavailable")

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// newTestRepo returns a repository bound to a rollback-scoped session.
func newTestRepo(t *testing.T) teacher.Repository {
	t.Helper()
	tdb := testutil.NewDatabase(t)
	return idb.NewGormTeacherRepository(testutil.Session(t, tdb.DB))
}

func seed(t *testing.T, repo teacher.Repository, teachers ...*teacher.Teacher) {
	t.Helper()
	for _, tc := range teachers {
		require.NoError(t, repo.Create(context.Background(), tc))
	}
}
