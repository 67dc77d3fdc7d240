package workflow

import (
	"context"
	"sync"

	"github.com/apptrackhq/ats/internal/events"
)

// AuditEmitter receives the audit event for every allowed transition.
// Emission must never block or fail a transition that already
// persisted.
type AuditEmitter interface {
	EmitAudit(ctx context.Context, e events.AuditEvent)
}

// PassResult summarizes one processor pass.
type PassResult struct {
	Processed int
	Skipped   int
	Failed    int
}

// Processor runs one pass over its eligible applications.
type Processor interface {
	Name() string
	RunPass(ctx context.Context) (PassResult, error)
}

// Dispatcher serializes processor passes. The automation and mimic
// schedulers and the manual trigger share one dispatcher, so two
// passes can never interleave reads and writes on the same pending
// application. This replaces the last-writer-wins behavior of
// uncoordinated timers with single-writer dispatch.
type Dispatcher struct {
	mu sync.Mutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Run(ctx context.Context, p Processor) (PassResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return p.RunPass(ctx)
}
