package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/littyapp/litty/internal/remote"
)

// ReadingReporter reports finished reading sessions to the habit backend.
type ReadingReporter interface {
	LogReading(ctx context.Context, entry remote.ReadingLog) error
}

// LogReadingTask reports one finished reading session. The backend uses
// these to advance streaks and challenge progress, so delivery is retried
// rather than dropped.
type LogReadingTask struct {
	ReadingSeconds int `json:"reading_seconds"`
	PageCount      int `json:"page_count"`
}

func (t LogReadingTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "log_reading",
		MaxAttempts: 5,
		Backoff:     30 * time.Second,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// LogReadingProcessor creates a processor that delivers reading logs.
func LogReadingProcessor(reporter ReadingReporter) backlite.QueueProcessor[LogReadingTask] {
	return func(ctx context.Context, task LogReadingTask) error {
		entry := remote.ReadingLog{
			ReadingSeconds: task.ReadingSeconds,
			PageCount:      task.PageCount,
		}
		if err := reporter.LogReading(ctx, entry); err != nil {
			return fmt.Errorf("log reading session: %w", err)
		}

		log.Printf("[TASK] Logged reading session: %ds over %d pages", task.ReadingSeconds, task.PageCount)
		return nil
	}
}

func NewLogReadingQueue(reporter ReadingReporter) backlite.Queue {
	return backlite.NewQueue(LogReadingProcessor(reporter))
}
