package workflow_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/apptrackhq/ats/internal/workflow"
)

type fakeTicker struct {
	ch chan time.Time
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time, 1)}
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

func (f *fakeTicker) Tick() {
	f.ch <- time.Now()
}

// fakeProcessor counts passes and optionally fails them.
type fakeProcessor struct {
	mu     sync.Mutex
	passes int
	result workflow.PassResult
	err    error
}

func (p *fakeProcessor) Name() string { return "fake" }

func (p *fakeProcessor) RunPass(_ context.Context) (workflow.PassResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passes++
	return p.result, p.err
}

func (p *fakeProcessor) Passes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passes
}

var _ = Describe("scheduler", func() {
	var (
		ticker    *fakeTicker
		processor *fakeProcessor
		scheduler *workflow.Scheduler
	)

	BeforeEach(func() {
		ticker = newFakeTicker()
		processor = &fakeProcessor{result: workflow.PassResult{Processed: 1}}
		scheduler = workflow.NewScheduler("test", processor, workflow.NewDispatcher(), time.Hour,
			workflow.WithTickerFactory(func(time.Duration) workflow.Ticker { return ticker }))
	})

	AfterEach(func() {
		scheduler.Stop()
	})

	It("runs a pass on every tick", func() {
		scheduler.Start()
		Expect(scheduler.Running()).To(BeTrue())

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(1))

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(2))
	})

	It("does not run without a tick", func() {
		scheduler.Start()
		Consistently(processor.Passes, 100*time.Millisecond).Should(Equal(0))
	})

	It("is idempotent on start", func() {
		scheduler.Start()
		scheduler.Start()

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(1))
		Consistently(processor.Passes, 100*time.Millisecond).Should(Equal(1))
	})

	It("is idempotent on stop", func() {
		scheduler.Start()
		scheduler.Stop()
		scheduler.Stop()
		Expect(scheduler.Running()).To(BeFalse())
	})

	It("stops ticking after stop", func() {
		scheduler.Start()
		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(1))

		scheduler.Stop()
		Consistently(processor.Passes, 100*time.Millisecond).Should(Equal(1))
	})

	It("can be restarted", func() {
		scheduler.Start()
		scheduler.Stop()
		scheduler.Start()

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(1))
	})

	It("keeps ticking after a failed pass", func() {
		processor.err = errors.New("boom")
		scheduler.Start()

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(1))

		ticker.Tick()
		Eventually(processor.Passes).Should(Equal(2))
	})

	It("runs a first pass after the startup delay", func() {
		delayed := workflow.NewScheduler("delayed", processor, workflow.NewDispatcher(), time.Hour,
			workflow.WithStartupDelay(10*time.Millisecond),
			workflow.WithTickerFactory(func(time.Duration) workflow.Ticker { return ticker }))
		defer delayed.Stop()

		delayed.Start()
		Eventually(processor.Passes).Should(Equal(1))
	})

	It("triggers a synchronous pass without the timer", func() {
		res, err := scheduler.Trigger(context.TODO())
		Expect(err).To(BeNil())
		Expect(res.Processed).To(Equal(1))
		Expect(processor.Passes()).To(Equal(1))
	})
})

// overlapProcessor reports whether two passes ever ran concurrently.
type overlapProcessor struct {
	active   atomic.Int32
	overlaps atomic.Int32
	passes   atomic.Int32
}

func (p *overlapProcessor) Name() string { return "overlap" }

func (p *overlapProcessor) RunPass(_ context.Context) (workflow.PassResult, error) {
	if p.active.Add(1) > 1 {
		p.overlaps.Add(1)
	}
	time.Sleep(5 * time.Millisecond)
	p.active.Add(-1)
	p.passes.Add(1)
	return workflow.PassResult{}, nil
}

var _ = Describe("dispatcher", func() {
	It("serializes passes across schedulers", func() {
		dispatcher := workflow.NewDispatcher()
		processor := &overlapProcessor{}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := dispatcher.Run(context.TODO(), processor)
				Expect(err).To(BeNil())
			}()
		}
		wg.Wait()

		Expect(int(processor.passes.Load())).To(Equal(8))
		Expect(int(processor.overlaps.Load())).To(Equal(0))
	})
})
