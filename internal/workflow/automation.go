package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/apptrackhq/ats/internal/events"
	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/apptrackhq/ats/pkg/metrics"
	"go.uber.org/zap"
)

const AutomationProcessedBy = "bot"

// automationOutcomes is the flat-random outcome set. No stage concept:
// a pending technical application jumps straight to one of these.
var automationOutcomes = []model.Status{
	model.StatusReviewing,
	model.StatusShortlisted,
	model.StatusRejected,
	model.StatusAccepted,
}

func automationOutcome(r Rand) model.Status {
	idx := int(r.Float64() * float64(len(automationOutcomes)))
	if idx >= len(automationOutcomes) {
		idx = len(automationOutcomes) - 1
	}
	return automationOutcomes[idx]
}

// AutomationProcessor resolves pending technical applications with one
// uniform draw over the outcome set.
type AutomationProcessor struct {
	store   store.Store
	emitter AuditEmitter
	rand    Rand
}

func NewAutomationProcessor(s store.Store, emitter AuditEmitter, r Rand) *AutomationProcessor {
	return &AutomationProcessor{store: s, emitter: emitter, rand: r}
}

func (p *AutomationProcessor) Name() string {
	return "bot-automation"
}

func (p *AutomationProcessor) RunPass(ctx context.Context) (PassResult, error) {
	applications, err := p.store.Application().List(ctx,
		store.NewApplicationQueryFilter().
			ByStatus(model.StatusPending).
			ByJobCategory(model.RoleCategoryTechnical),
		store.NewApplicationQueryOptions().WithSortOrder(store.SortBySubmittedTime))
	if err != nil {
		return PassResult{}, err
	}

	var res PassResult
	for i := range applications {
		app := &applications[i]

		outcome := automationOutcome(p.rand)
		oldStatus := app.Status

		app.Status = outcome
		app.AppendNote(model.Note{
			Text:        fmt.Sprintf("Status changed from %s to %s by automated processing", oldStatus, outcome),
			AddedBy:     AutomationProcessedBy,
			AddedAt:     time.Now().UTC(),
			ProcessedBy: AutomationProcessedBy,
			ActionType:  events.ActionStatusChange,
		})

		if _, err := p.store.Application().Update(ctx, app); err != nil {
			zap.S().Named(p.Name()).Errorw("failed to persist status change",
				"application", app.ID, "old_status", oldStatus, "new_status", outcome, "error", err)
			res.Failed++
			continue
		}

		p.emitter.EmitAudit(ctx, events.AuditEvent{
			Actor:        AutomationProcessedBy,
			Action:       events.ActionStatusChange,
			ResourceType: events.ResourceTypeApplication,
			ResourceID:   app.ID.String(),
			Description:  fmt.Sprintf("status %s -> %s", oldStatus, outcome),
			Details: events.AuditDetails{
				OldStatus:    string(oldStatus),
				NewStatus:    string(outcome),
				ProcessedBy:  AutomationProcessedBy,
				RoleCategory: string(app.Job.RoleCategory),
				JobTitle:     app.Job.Title,
				Timestamp:    time.Now().UTC(),
			},
		})
		metrics.IncWorkflowTransition(p.Name(), string(outcome))
		res.Processed++
	}

	return res, nil
}
