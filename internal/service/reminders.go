package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/leitner"
)

var ErrNotifierNotSet = errors.New("notifier not initialized")

// Telegram allows about 30 messages per second per bot.
const (
	reminderRate  = rate.Limit(25)
	reminderBurst = 5
)

// ReminderService sends a daily reminder to learners with due words.
type ReminderService struct {
	store     ProgressStore
	catalog   Catalog
	levelOpts leitner.LevelOptions
	clock     Clock
	spec      string
	notifier  ReminderNotifier
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewReminderService creates a new reminder service running on the cron spec.
func NewReminderService(
	store ProgressStore,
	catalog Catalog,
	levelOpts leitner.LevelOptions,
	clock Clock,
	spec string,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		store:     store,
		catalog:   catalog,
		levelOpts: levelOpts,
		clock:     clock,
		spec:      spec,
		limiter:   rate.NewLimiter(reminderRate, reminderBurst),
		logger:    logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the reminder schedule until ctx is done.
func (s *ReminderService) Start(ctx context.Context) error {
	loc := s.clock.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc(s.spec, func() {
		s.logger.Info("cron triggered: processing daily reminders")
		if _, err := s.SendDailyReminders(ctx); err != nil {
			s.logger.Error("failed to send daily reminders", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job %q: %w", s.spec, err)
	}

	c.Start()
	s.logger.Info("reminder service started", zap.String("schedule", s.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reminder service stopped")

	return nil
}

// SendDailyReminders notifies every learner who has due words and has not
// practiced today. It returns the number of reminders sent.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	const batchSize = 100

	if s.notifier == nil {
		return 0, ErrNotifierNotSet
	}

	learners, err := s.store.ListLearners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list learners: %w", err)
	}

	total := 0
	for start := 0; start < len(learners); start += batchSize {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		end := min(start+batchSize, len(learners))
		total += s.processBatch(ctx, learners[start:end])
	}

	s.logger.Info("reminders processed",
		zap.Int("learners", len(learners)),
		zap.Int("total_sent", total),
	)

	return total, nil
}

// processBatch processes a batch of learners concurrently.
func (s *ReminderService) processBatch(ctx context.Context, learners []entities.Learner) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for _, learner := range learners {
		wg.Add(1)
		sem <- struct{}{} // Acquire

		go func() {
			defer wg.Done()
			defer func() { <-sem }() // Release

			ok, err := s.processReminder(ctx, learner)
			if err != nil {
				s.logger.Error("failed to process reminder",
					zap.Int64("user_id", learner.UserID),
					zap.Error(err))
				return
			}
			if ok {
				sent.Add(1)
			}
		}()
	}

	wg.Wait()
	return int(sent.Load())
}

// processReminder reports whether a reminder was sent.
func (s *ReminderService) processReminder(ctx context.Context, learner entities.Learner) (bool, error) {
	payload, ok, err := s.BuildPayload(ctx, learner.UserID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}

	if err := s.notifier.SendReminder(learner.UserID, learner.ChatID, payload); err != nil {
		return false, fmt.Errorf("send notification: %w", err)
	}

	return true, nil
}

// BuildPayload collects the reminder content for a learner. It reports false
// when no reminder is needed: nothing is due or the learner already
// practiced today.
func (s *ReminderService) BuildPayload(ctx context.Context, userID int64) (entities.ReminderPayload, bool, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return entities.ReminderPayload{}, false, fmt.Errorf("load progress: %w", err)
	}

	today := s.clock.Today()
	if snap.Stats.LastPracticeDate == entities.FormatDate(today) {
		return entities.ReminderPayload{}, false, nil
	}

	level := leitner.DeriveLevel(snap.Words, s.catalog.Difficulty(), s.catalog.Items(), s.levelOpts)
	pool := s.catalog.ItemsInCategories(level.UnlockedCategoryIDs)
	stats := leitner.GetReviewStats(pool, snap.Words, today)

	if stats.TotalDue == 0 {
		return entities.ReminderPayload{}, false, nil
	}

	return entities.ReminderPayload{
		DueCount:     stats.TotalDue - stats.NewWords,
		NewCount:     stats.NewWords,
		OverdueCount: stats.OverdueCount,
		Streak:       snap.Stats.Streak,
	}, true, nil
}
