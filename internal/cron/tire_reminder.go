package cron

import (
	"context"
	"fmt"

	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/logger"
)

type dueReminderSender interface {
	SendDueReminders(ctx context.Context, daysAhead int) (int, error)
}

// TireReminderJob messages owners whose stored tire sets come due soon.
type TireReminderJob struct {
	tires     dueReminderSender
	logg      *logger.Logger
	daysAhead int
}

// NewTireReminderJob builds the daily tire hotel reminder job.
func NewTireReminderJob(tires dueReminderSender, logg *logger.Logger, cfg config.ReminderConfig) (*TireReminderJob, error) {
	if tires == nil {
		return nil, fmt.Errorf("tire hotel service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	daysAhead := cfg.DaysAhead
	if daysAhead <= 0 {
		daysAhead = 7
	}
	return &TireReminderJob{tires: tires, logg: logg, daysAhead: daysAhead}, nil
}

// Name implements Job.
func (j *TireReminderJob) Name() string {
	return "tirehotel_due_reminders"
}

// Run implements Job.
func (j *TireReminderJob) Run(ctx context.Context) error {
	sent, err := j.tires.SendDueReminders(ctx, j.daysAhead)
	if err != nil {
		return fmt.Errorf("send due reminders: %w", err)
	}
	ctx = j.logg.WithFields(ctx, map[string]any{"sent": sent, "days_ahead": j.daysAhead})
	j.logg.Info(ctx, "tire hotel reminders dispatched")
	return nil
}
