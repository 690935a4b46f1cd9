// Package sweep periodically re-derives every task's status so due dates
// crossing into the past are reflected without waiting for user activity.
package sweep

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/taskbuddy/modules/task"
)

// Config holds sweeper configuration.
type Config struct {
	Interval time.Duration
	PageSize int
}

// DefaultConfig returns the default sweeper configuration.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
		PageSize: 100,
	}
}

// Result summarizes one full pass over the task table.
type Result struct {
	Pages    int           `json:"pages"`
	Scanned  int           `json:"scanned"`
	Changed  int           `json:"changed"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Sweeper walks the task table in fixed-size pages on a timer. Overlapping
// passes are skipped: if a pass is still running when the next tick fires,
// the tick is dropped.
type Sweeper struct {
	config   Config
	taskPort task.TaskPort
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	sweeping bool
	lastRun  time.Time
	lastRes  Result
}

// NewSweeper creates a new sweeper.
func NewSweeper(cfg Config, taskPort task.TaskPort) *Sweeper {
	return &Sweeper{
		config:   cfg,
		taskPort: taskPort,
	}
}

// Start begins the periodic sweep loop.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(loopCtx)
	}()

	log.Printf("[sweep] Sweeper started (interval: %v, page size: %d)", s.config.Interval, s.config.PageSize)
	return nil
}

// Stop stops the sweep loop, waiting for an in-flight pass to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[sweep] Sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		log.Println("[sweep] Timeout waiting for sweeper to stop")
		return ctx.Err()
	}
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				log.Printf("[sweep] Pass aborted: %v", err)
			}
		}
	}
}

// RunOnce performs one full pass over the task table. If a pass is already
// in flight the call returns immediately with an empty result.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		log.Println("[sweep] Previous pass still running, skipping")
		return Result{}, nil
	}
	s.sweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	start := time.Now()
	var res Result
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pageRes, err := s.taskPort.RefreshPage(ctx, page, s.config.PageSize)
		if err != nil {
			// A page failure aborts the pass; already-refreshed pages keep
			// their results and the next tick retries the whole table.
			log.Printf("[sweep] Aborting pass, failed to refresh page %d: %v", page, err)
			break
		}

		res.Pages++
		res.Scanned += pageRes.Scanned
		res.Changed += pageRes.Changed
		res.Failed += pageRes.Failed
		if pageRes.Scanned < s.config.PageSize {
			break
		}
	}
	res.Duration = time.Since(start)

	s.mu.Lock()
	s.lastRun = start
	s.lastRes = res
	s.mu.Unlock()

	log.Printf("[sweep] Pass done: %d tasks scanned, %d changed, %d failed in %v",
		res.Scanned, res.Changed, res.Failed, res.Duration)
	return res, nil
}

// LastRun returns the start time and result of the most recent pass.
func (s *Sweeper) LastRun() (time.Time, Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastRes
}

// IsRunning returns true if the sweep loop is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
