package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"teacher_registry/internal/domain/teacher"
	"teacher_registry/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// AuditReport lists the sentinel IDs found in the durable table.
type AuditReport struct {
	CheckedAt time.Time
	Checked   []int64
	Leaked    []int64
	Alerted   bool
}

// Clean reports whether no sentinel row was found.
func (r *AuditReport) Clean() bool {
	return len(r.Leaked) == 0
}

// LeakAuditor looks for rows that test runs should have rolled back.
type LeakAuditor struct {
	teacherRepo     teacher.Repository
	telegramClient  telegram.Client
	adminTelegramID int64
	sentinelIDs     []int64
	logger          *logrus.Entry
}

// NewLeakAuditor creates an auditor. client may be nil, in which case leaks are only logged.
func NewLeakAuditor(tr teacher.Repository, client telegram.Client, adminID int64, sentinelIDs []int64, logger *logrus.Entry) *LeakAuditor {
	return &LeakAuditor{
		teacherRepo:     tr,
		telegramClient:  client,
		adminTelegramID: adminID,
		sentinelIDs:     sentinelIDs,
		logger:          logger,
	}
}

func (a *LeakAuditor) Audit(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{CheckedAt: time.Now(), Checked: a.sentinelIDs}

	found, err := a.teacherRepo.ListByIDs(ctx, a.sentinelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sentinel teachers: %w", err)
	}
	for _, t := range found {
		report.Leaked = append(report.Leaked, t.ID)
	}

	if report.Clean() {
		a.logger.WithField("checked", len(a.sentinelIDs)).Debug("No leaked sentinel rows")
		return report, nil
	}

	a.logger.WithField("leaked_ids", report.Leaked).Error("Sentinel rows found in teacher table")

	if a.telegramClient == nil || a.adminTelegramID == 0 {
		return report, nil
	}
	if err := a.telegramClient.SendMessage(a.adminTelegramID, leakAlertText(report.Leaked), nil); err != nil {
		a.logger.WithError(err).Error("Failed to send leak alert to admin")
		return report, nil
	}
	report.Alerted = true
	return report, nil
}

func leakAlertText(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("Внимание: в таблице teacher найдены тестовые записи, которые должны были быть откачены: %s", strings.Join(parts, ", "))
}
