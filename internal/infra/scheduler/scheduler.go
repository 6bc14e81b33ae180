package scheduler

import (
	"context"
	"fmt"
	"time"

	"teacher_registry/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const auditJobTimeout = 1 * time.Minute

// Auditor is the job the scheduler runs. *app.LeakAuditor satisfies it.
type Auditor interface {
	Audit(ctx context.Context) (*app.AuditReport, error)
}

type AuditScheduler struct {
	cronEngine *cron.Cron
	auditor    Auditor
	logger     *logrus.Entry
	cronSpec   string
	timeout    time.Duration
}

func NewAuditScheduler(
	auditor Auditor,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 * * * *" (top of every hour)
) *AuditScheduler {
	return &AuditScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		auditor:    auditor,
		logger:     logger,
		cronSpec:   cronSpec,
		timeout:    auditJobTimeout,
	}
}

// Start registers the audit job and starts the cron engine.
func (s *AuditScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting audit scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runAudit); err != nil {
		return fmt.Errorf("could not add audit cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Audit scheduler started.")
	return nil
}

func (s *AuditScheduler) runAudit() {
	s.logger.Info("Cron job triggered for sentinel audit.")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report, err := s.auditor.Audit(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error during sentinel audit")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"leaked":  len(report.Leaked),
		"alerted": report.Alerted,
	}).Info("Sentinel audit finished")
}

// Stop stops the engine and waits for a running job to finish.
func (s *AuditScheduler) Stop() {
	s.logger.Info("Stopping audit scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Audit scheduler gracefully stopped.")
}
