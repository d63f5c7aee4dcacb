package round

import (
	"context"
	"time"

	"github.com/mvp2008/jbusy/pkg/jstack"
	"github.com/mvp2008/jbusy/pkg/report"
)

// Scheduler repeats a round a fixed number of times, or forever when
// Updates <= 0, sleeping Delay between rounds. Each round gets a fresh
// dump cache; its temp artifacts are released on every exit path,
// including cancellation mid-round.
type Scheduler struct {
	Round   *Round
	Delay   time.Duration
	Updates int
}

// Run drives rounds until the count is exhausted or ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, p Params) error {
	for i := 1; ; i++ {
		if err := s.runOnce(ctx, i, p); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if s.Updates >= 1 && i >= s.Updates {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.Delay):
		}
	}
}

// runOnce executes a single round with a cache whose release is
// guaranteed by this scope.
func (s *Scheduler) runOnce(ctx context.Context, n int, p Params) error {
	cache, err := jstack.NewCache()
	if err != nil {
		return err
	}
	defer cache.Release()

	info := report.RoundInfo{Round: n, When: time.Now()}
	return s.Round.Run(ctx, cache, info, p)
}
