package service

import (
	"context"
	"errors"

	"github.com/apptrackhq/ats/internal/store"
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/google/uuid"
)

type JobService struct {
	store store.Store
}

func NewJobService(s store.Store) *JobService {
	return &JobService{store: s}
}

type JobCreateForm struct {
	Title        string
	Description  string
	RoleCategory string
}

func (s *JobService) CreateJob(ctx context.Context, form JobCreateForm) (*model.Job, error) {
	category := model.RoleCategory(form.RoleCategory)
	if !category.Known() {
		return nil, NewErrInvalidRoleCategory(form.RoleCategory)
	}

	return s.store.Job().Create(ctx, model.Job{
		Title:        form.Title,
		Description:  form.Description,
		RoleCategory: category,
	})
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) ListJobs(ctx context.Context, category model.RoleCategory) (model.JobList, error) {
	filter := store.NewJobQueryFilter()
	if category != "" {
		filter = filter.ByRoleCategory(category)
	}
	return s.store.Job().List(ctx, filter)
}

func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return s.store.Job().Delete(ctx, id)
}
