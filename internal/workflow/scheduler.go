package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/apptrackhq/ats/pkg/metrics"
	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"
)

// Ticker abstracts the periodic signal so tests can drive passes with
// a fake clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(interval time.Duration) Ticker

type jitterTicker struct {
	t *jitterbug.Ticker
}

func (j *jitterTicker) C() <-chan time.Time { return j.t.C }
func (j *jitterTicker) Stop()               { j.t.Stop() }

func newJitterTicker(interval time.Duration) Ticker {
	return &jitterTicker{t: jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 20})}
}

// Scheduler drives a processor on a periodic ticker through the shared
// dispatcher. Start and Stop are idempotent; Stop lets an in-flight
// pass complete.
type Scheduler struct {
	name       string
	processor  Processor
	dispatcher *Dispatcher
	interval   time.Duration
	delay      time.Duration
	newTicker  TickerFactory

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

type SchedulerOption func(*Scheduler)

// WithStartupDelay runs a first pass after d, before the periodic
// ticker starts.
func WithStartupDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.delay = d
	}
}

func WithTickerFactory(f TickerFactory) SchedulerOption {
	return func(s *Scheduler) {
		s.newTicker = f
	}
}

func NewScheduler(name string, p Processor, d *Dispatcher, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		name:       name,
		processor:  p,
		dispatcher: d,
		interval:   interval,
		newTicker:  newJitterTicker,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	zap.S().Named(s.name).Infow("scheduler started", "interval", s.interval, "startup_delay", s.delay)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
			s.pass()
		}
	}

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.pass()
		}
	}
}

// pass runs on a background context on purpose: stopping the scheduler
// cancels the timer, not an in-flight pass.
func (s *Scheduler) pass() {
	metrics.IncWorkflowPass(s.name)
	res, err := s.dispatcher.Run(context.Background(), s.processor)
	if err != nil {
		// the failed pass is skipped; the next tick re-attempts
		zap.S().Named(s.name).Errorw("processing pass failed", "error", err)
		return
	}
	if res.Processed == 0 && res.Skipped == 0 && res.Failed == 0 {
		zap.S().Named(s.name).Debug("no eligible applications")
		return
	}
	zap.S().Named(s.name).Infow("processing pass completed",
		"processed", res.Processed, "skipped", res.Skipped, "failed", res.Failed)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	<-done
	zap.S().Named(s.name).Info("scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Trigger runs one synchronous pass through the dispatcher,
// independent of the timer.
func (s *Scheduler) Trigger(ctx context.Context) (PassResult, error) {
	return s.dispatcher.Run(ctx, s.processor)
}
