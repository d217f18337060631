// Package jobs runs the background schedules that are not tied to a request,
// currently the upcoming-gig reminder scan.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gigpro/internal/caching"
	"gigpro/internal/common"
	"gigpro/internal/repositories"
)

const (
	reminderScanInterval = time.Hour
	reminderLookahead    = 48 * time.Hour
	reminderMarkTTL      = 72 * time.Hour
)

// ReminderScheduler periodically scans for gigs with reminders enabled that
// start within the lookahead window and emits a notification for each. A
// Redis mark prevents the same gig from being announced on every scan.
//
// Invoice statuses are never touched here; overdue is derived at read time
// and has no background component.
type ReminderScheduler struct {
	scheduler gocron.Scheduler
	gigRepo   repositories.GigRepository
	cacheSvc  caching.CacheService
}

// NewReminderScheduler creates a new reminder scheduler.
func NewReminderScheduler(gigRepo repositories.GigRepository, cacheSvc caching.CacheService) (*ReminderScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	rs := &ReminderScheduler{
		scheduler: scheduler,
		gigRepo:   gigRepo,
		cacheSvc:  cacheSvc,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(reminderScanInterval),
		gocron.NewTask(rs.ScanOnce, context.Background()),
		gocron.WithName("gig-reminder-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("register reminder job: %w", err)
	}

	return rs, nil
}

// Start starts the scheduler.
func (rs *ReminderScheduler) Start() {
	log.Printf("Starting gig reminder scheduler (every %s)", reminderScanInterval)
	rs.scheduler.Start()
}

// Stop shuts the scheduler down.
func (rs *ReminderScheduler) Stop() error {
	return rs.scheduler.Shutdown()
}

// ScanOnce runs a single reminder pass. Exposed so tests and the scheduler
// share the same code path.
func (rs *ReminderScheduler) ScanOnce(ctx context.Context) error {
	now := time.Now().UTC()
	gigs, err := rs.gigRepo.ListRemindersDue(ctx, now, now.Add(reminderLookahead))
	if err != nil {
		log.Printf("reminder scan: %v", err)
		return err
	}

	sent := 0
	for _, gig := range gigs {
		key := "gig_reminder_sent:" + gig.ID.String()
		if _, err := rs.cacheSvc.GetString(ctx, key); err == nil {
			continue // already announced
		}

		log.Printf("REMINDER: gig %q on %s at %s (user %s)",
			gig.Title, gig.Date.Format("2006-01-02"), common.SafeString(gig.Location), gig.UserID)

		if err := rs.cacheSvc.SetString(ctx, key, now.Format(time.RFC3339), reminderMarkTTL); err != nil {
			log.Printf("reminder scan: failed to mark gig %s: %v", gig.ID, err)
		}
		sent++
	}

	if sent > 0 {
		log.Printf("reminder scan complete: %d reminders sent, %d gigs in window", sent, len(gigs))
	}
	return nil
}
