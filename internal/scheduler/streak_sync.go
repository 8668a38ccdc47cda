// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/littyapp/litty/internal/entities"
	"github.com/littyapp/litty/internal/remote"
)

// StreakFetcher reads the current reading streak from the habit backend.
type StreakFetcher interface {
	Streak(ctx context.Context) (*remote.Streak, error)
}

// StreakCache stores the last known streak locally so the dashboard can show
// something when the backend is unreachable.
type StreakCache interface {
	Set(key, value string) error
}

// StreakSyncScheduler periodically refreshes the cached reading streak.
type StreakSyncScheduler struct {
	fetcher StreakFetcher
	cache   StreakCache

	enabled  bool
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewStreakSyncScheduler creates a new scheduler instance.
func NewStreakSyncScheduler(fetcher StreakFetcher, cache StreakCache, enabled bool, schedule string) *StreakSyncScheduler {
	return &StreakSyncScheduler{
		fetcher:  fetcher,
		cache:    cache,
		enabled:  enabled,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if streak sync is enabled.
func (s *StreakSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Streak sync scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Streak sync scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sync to finish.
func (s *StreakSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Streak sync scheduler: stopped")
}

// RunNow triggers an immediate refresh.
func (s *StreakSyncScheduler) RunNow(ctx context.Context) error {
	return s.runSync(ctx)
}

// IsRunning returns whether the scheduler is active.
func (s *StreakSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next refresh will occur.
func (s *StreakSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync fetches the streak and caches it in local state. A fetch failure
// keeps the previous cached value.
func (s *StreakSyncScheduler) runSync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	streak, err := s.fetcher.Streak(ctx)
	if err != nil {
		log.Printf("Streak sync: fetch failed, keeping cached value: %v", err)
		return fmt.Errorf("fetch streak: %w", err)
	}

	payload, err := json.Marshal(streak)
	if err != nil {
		return fmt.Errorf("encode streak: %w", err)
	}

	if err := s.cache.Set(entities.KeyStreak, string(payload)); err != nil {
		log.Printf("Streak sync: cache write failed: %v", err)
		return fmt.Errorf("cache streak: %w", err)
	}

	log.Printf("Streak sync: refreshed (current %d, longest %d)", streak.CurrentStreak, streak.LongestStreak)
	return nil
}
