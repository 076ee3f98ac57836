// Package scheduler runs periodic background jobs on a cron schedule
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
)

//go:generate moq -out mocks/warmer.go -pkg mocks -skip-ensure -fmt goimports . Warmer

// Warmer reloads content ahead of user requests
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// Scheduler warms the content source on schedule, and once right after start
type Scheduler struct {
	warmer  Warmer
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// New makes a scheduler for the standard cron spec, descriptors like @every 15m are accepted.
// timeout limits a single run, zero means one minute.
func New(warmer Warmer, spec string, timeout time.Duration) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	logger := cron.PrintfLogger(cronLogger{})
	return &Scheduler{
		warmer:  warmer,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
	}, nil
}

// Start runs the first warm-up in background and starts the schedule
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	if _, err := s.cron.AddFunc(s.spec, func() { s.warm(ctx) }); err != nil {
		return fmt.Errorf("add warm job: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.warm(ctx)
	}()

	s.cron.Start()
	lgr.Printf("[INFO] scheduler started, warm schedule %q", s.spec)
	return nil
}

// Stop cancels running jobs and waits for them to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) warm(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	st := time.Now()
	n, err := s.warmer.Warm(ctx)
	if err != nil {
		lgr.Printf("[WARN] warm-up failed: %v", err)
		return
	}
	lgr.Printf("[INFO] warmed %d entries in %v", n, time.Since(st).Round(time.Millisecond))
}

type cronLogger struct{}

func (cronLogger) Printf(format string, args ...any) { lgr.Printf("[DEBUG] cron: "+format, args...) }
