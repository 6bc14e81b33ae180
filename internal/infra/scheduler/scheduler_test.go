package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"teacher_registry/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAuditor struct {
	calls       atomic.Int32
	err         error
	hadDeadline atomic.Bool
}

func (a *countingAuditor) Audit(ctx context.Context) (*app.AuditReport, error) {
	a.calls.Add(1)
	_, ok := ctx.Deadline()
	a.hadDeadline.Store(ok)
	if a.err != nil {
		return nil, a.err
	}
	return &app.AuditReport{CheckedAt: time.Now()}, nil
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewAuditScheduler(&countingAuditor{}, quietLogger(), "not a cron spec")
	assert.Error(t, s.Start())
}

func TestRunAuditUsesTimeout(t *testing.T) {
	auditor := &countingAuditor{}
	s := NewAuditScheduler(auditor, quietLogger(), "0 * * * *")

	s.runAudit()

	assert.Equal(t, int32(1), auditor.calls.Load())
	assert.True(t, auditor.hadDeadline.Load())
}

func TestRunAuditSurvivesError(t *testing.T) {
	auditor := &countingAuditor{err: errors.New("db down")}
	s := NewAuditScheduler(auditor, quietLogger(), "0 * * * *")

	assert.NotPanics(t, s.runAudit)
	assert.Equal(t, int32(1), auditor.calls.Load())
}

func TestStartStop(t *testing.T) {
	s := NewAuditScheduler(&countingAuditor{}, quietLogger(), "@every 1h")
	require.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 1)
	s.Stop()
}
