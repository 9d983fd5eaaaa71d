package scheduler

import (
	"context"
	"fmt"
	"time"

	"proservis/internal/domain/recurrence"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DueProcessor sends the reminders for maintenance due on a given day.
type DueProcessor interface {
	ProcessDueMaintenance(ctx context.Context, day time.Time) error
}

type MaintenanceScheduler struct {
	cronEngine       *cron.Cron
	processor        DueProcessor
	logger           *logrus.Entry
	cronSpecDueCheck string
	jobTimeout       time.Duration
	now              func() time.Time
}

func NewMaintenanceScheduler(
	processor DueProcessor,
	logger *logrus.Entry,
	cronSpecDueCheck string, // e.g., "0 8 * * *" (8:00 AM daily)
) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.Local)), // Due dates are local calendar days
		processor:        processor,
		logger:           logger,
		cronSpecDueCheck: cronSpecDueCheck,
		jobTimeout:       5 * time.Minute,
		now:              time.Now,
	}
}

// Start registers the jobs and starts the cron engine.
func (s *MaintenanceScheduler) Start() error {
	s.logger.Info("Starting maintenance scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpecDueCheck, s.RunDueCheck); err != nil {
		return fmt.Errorf("could not add due maintenance cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDueCheck).Info("Maintenance scheduler started")
	return nil
}

// RunDueCheck processes the maintenance due today.
func (s *MaintenanceScheduler) RunDueCheck() {
	today := recurrence.DateOnly(s.now())
	logCtx := s.logger.WithField("day", recurrence.FormatDate(today))
	logCtx.Info("Cron job triggered for due maintenance")

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()
	if err := s.processor.ProcessDueMaintenance(ctx, today); err != nil {
		logCtx.WithError(err).Error("Error during due maintenance processing")
	}
}

func (s *MaintenanceScheduler) Stop() {
	s.logger.Info("Stopping maintenance scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Maintenance scheduler gracefully stopped")
}
