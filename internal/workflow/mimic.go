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

const (
	// mimicSkipChance is the per-application chance to be left alone in
	// a pass, simulating non-uniform reviewer attention.
	mimicSkipChance = 0.3
	// mimicRejectionChance applies at every non-terminal stage.
	mimicRejectionChance = 0.2

	MimicProcessedBy = "bot-mimic"
)

// NextStage returns the status an application moves to from current.
// pending bootstraps to applied unconditionally; terminal statuses (or
// anything outside the stage list) yield ok=false. Otherwise a single
// uniform draw decides between rejection and the successor stage, with
// offer progressing to accepted.
func NextStage(current model.Status, r Rand) (model.Status, bool) {
	if current == model.StatusPending {
		return model.StatusApplied, true
	}

	idx := current.StageIndex()
	if idx < 0 {
		return "", false
	}

	if r.Float64() < mimicRejectionChance {
		return model.StatusRejected, true
	}
	if idx+1 < len(model.MimicStages) {
		return model.MimicStages[idx+1], true
	}
	return model.StatusAccepted, true
}

// activeMimicStatuses is the eligibility set: pending plus every
// non-terminal stage.
func activeMimicStatuses() []model.Status {
	return append([]model.Status{model.StatusPending}, model.MimicStages...)
}

// MimicProcessor advances technical-track applications through the
// staged workflow, one uniform draw per application per pass.
type MimicProcessor struct {
	store   store.Store
	emitter AuditEmitter
	rand    Rand
}

func NewMimicProcessor(s store.Store, emitter AuditEmitter, r Rand) *MimicProcessor {
	return &MimicProcessor{store: s, emitter: emitter, rand: r}
}

func (p *MimicProcessor) Name() string {
	return MimicProcessedBy
}

func (p *MimicProcessor) RunPass(ctx context.Context) (PassResult, error) {
	applications, err := p.store.Application().List(ctx,
		store.NewApplicationQueryFilter().
			ByStatuses(activeMimicStatuses()).
			ByJobCategory(model.RoleCategoryTechnical),
		store.NewApplicationQueryOptions().WithSortOrder(store.SortBySubmittedTime))
	if err != nil {
		return PassResult{}, err
	}

	var res PassResult
	for i := range applications {
		app := &applications[i]

		if p.rand.Float64() < mimicSkipChance {
			res.Skipped++
			continue
		}

		next, ok := NextStage(app.Status, p.rand)
		if !ok {
			continue
		}

		comment := stageComment(next, p.rand)
		oldStatus := app.Status

		app.Status = next
		stage := next
		app.WorkflowStage = &stage
		app.AppendNote(model.Note{
			Text:        comment,
			AddedBy:     MimicProcessedBy,
			AddedAt:     time.Now().UTC(),
			ProcessedBy: MimicProcessedBy,
			ActionType:  events.ActionBotMimicWorkflow,
		})

		if _, err := p.store.Application().Update(ctx, app); err != nil {
			zap.S().Named(p.Name()).Errorw("failed to persist stage transition",
				"application", app.ID, "old_stage", oldStatus, "new_stage", next, "error", err)
			res.Failed++
			continue
		}

		p.emitter.EmitAudit(ctx, events.AuditEvent{
			Actor:        MimicProcessedBy,
			Action:       events.ActionBotMimicWorkflow,
			ResourceType: events.ResourceTypeApplication,
			ResourceID:   app.ID.String(),
			Description:  fmt.Sprintf("workflow stage %s -> %s", oldStatus, next),
			Details: events.AuditDetails{
				OldStage:     string(oldStatus),
				NewStage:     string(next),
				ProcessedBy:  MimicProcessedBy,
				RoleCategory: string(app.Job.RoleCategory),
				JobTitle:     app.Job.Title,
				Timestamp:    time.Now().UTC(),
				Comment:      comment,
			},
		})
		metrics.IncWorkflowTransition(p.Name(), string(next))
		res.Processed++
	}

	return res, nil
}
