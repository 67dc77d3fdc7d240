package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apptrackhq/ats/internal/events"
	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/apptrackhq/ats/internal/workflow"
	"github.com/google/uuid"
)

type ApplicationService struct {
	store   store.Store
	emitter workflow.AuditEmitter
}

func NewApplicationService(s store.Store, emitter workflow.AuditEmitter) *ApplicationService {
	return &ApplicationService{store: s, emitter: emitter}
}

// SubmitForm is the payload for a new application.
type SubmitForm struct {
	JobID       uuid.UUID
	ApplicantID uuid.UUID
}

func (s *ApplicationService) SubmitApplication(ctx context.Context, form SubmitForm) (*model.Application, error) {
	if _, err := s.store.Job().Get(ctx, form.JobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(form.JobID)
		}
		return nil, err
	}

	application := model.Application{
		JobID:       form.JobID,
		ApplicantID: form.ApplicantID,
		Status:      model.StatusPending,
		Notes: model.Notes{{
			Text:    "Application submitted",
			AddedBy: string(model.RoleApplicant),
			AddedAt: time.Now().UTC(),
		}},
	}

	created, err := s.store.Application().Create(ctx, application)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrDuplicateApplication(form.ApplicantID, form.JobID)
		}
		return nil, err
	}
	return created, nil
}

// ApplicationFilter narrows ListApplications.
type ApplicationFilter struct {
	Statuses    []model.Status
	Category    model.RoleCategory
	ApplicantID uuid.UUID
}

func (s *ApplicationService) ListApplications(ctx context.Context, filter *ApplicationFilter) (model.ApplicationList, error) {
	storeFilter := store.NewApplicationQueryFilter()
	if filter != nil {
		if len(filter.Statuses) > 0 {
			storeFilter = storeFilter.ByStatuses(filter.Statuses)
		}
		if filter.Category != "" {
			storeFilter = storeFilter.ByJobCategory(filter.Category)
		}
		if filter.ApplicantID != uuid.Nil {
			storeFilter = storeFilter.ByApplicantID(filter.ApplicantID)
		}
	}

	return s.store.Application().List(ctx, storeFilter,
		store.NewApplicationQueryOptions().WithSortOrder(store.SortBySubmittedTime))
}

func (s *ApplicationService) GetApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, err := s.store.Application().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(id)
		}
		return nil, err
	}
	return application, nil
}

// UpdateStatus moves an application to the requested status on behalf
// of an actor, gated by the transition policy. Every allowed
// transition appends exactly one note and emits one audit event.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, actor model.Role, requested model.Status, comment string) (*model.Application, error) {
	application, err := s.store.Application().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(id)
		}
		return nil, err
	}

	decision := workflow.CanTransition(actor, application.Job.RoleCategory, application.Status, requested)
	if !decision.Allowed {
		return nil, NewErrPolicyDenied(decision.Reason)
	}

	oldStatus := application.Status
	noteText := comment
	if noteText == "" {
		noteText = fmt.Sprintf("Status changed from %s to %s", oldStatus, requested)
	}

	application.Status = requested
	application.AppendNote(model.Note{
		Text:        noteText,
		AddedBy:     string(actor),
		AddedAt:     time.Now().UTC(),
		ProcessedBy: string(actor),
		ActionType:  events.ActionStatusChange,
	})

	updated, err := s.store.Application().Update(ctx, application)
	if err != nil {
		return nil, err
	}

	s.emitter.EmitAudit(ctx, events.AuditEvent{
		Actor:        string(actor),
		Action:       events.ActionStatusChange,
		ResourceType: events.ResourceTypeApplication,
		ResourceID:   id.String(),
		Description:  fmt.Sprintf("status %s -> %s", oldStatus, requested),
		Details: events.AuditDetails{
			OldStatus:    string(oldStatus),
			NewStatus:    string(requested),
			ProcessedBy:  string(actor),
			RoleCategory: string(application.Job.RoleCategory),
			JobTitle:     application.Job.Title,
			Timestamp:    time.Now().UTC(),
			Comment:      comment,
		},
	})

	return updated, nil
}
