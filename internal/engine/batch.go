package engine

import (
	"context"
	"sync"
	"time"

	"github.com/mintwell/mintwell/internal/service"
)

// ProgressFunc is called after each user's run completes, successfully or
// not. It may be nil.
type ProgressFunc func(userID string, err error)

// RunBatch executes the pipeline for many users with bounded concurrency.
// Runs share no mutable state, so they only coordinate through the worker
// pool; one user's failure never stops the batch.
func (e *Engine) RunBatch(ctx context.Context, userIDs []string, windowDays, concurrency int, progress ProgressFunc) service.RunStats {
	if concurrency <= 0 {
		concurrency = 4
	}

	start := time.Now()
	var mu sync.Mutex
	stats := service.RunStats{}

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				result, err := e.Run(ctx, userID, windowDays)

				mu.Lock()
				if err != nil {
					stats.UsersFailed++
				} else {
					stats.UsersProcessed++
					stats.Blocked += result.Trace.BlockedCount()
					for _, r := range result.Results {
						if r.Allowed {
							stats.Recommendations++
						}
					}
				}
				mu.Unlock()

				if err != nil {
					e.logger.Error("pipeline run failed", "user_id", userID, "error", err)
				}
				if progress != nil {
					progress(userID, err)
				}
			}
		}()
	}

	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			stats.Duration = time.Since(start)
			return stats
		case jobs <- userID:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Duration = time.Since(start)
	return stats
}
