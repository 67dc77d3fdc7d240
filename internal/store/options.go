package store

import (
	"github.com/apptrackhq/ats/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SortOrder int

const (
	Unsorted SortOrder = iota
	SortByID
	SortBySubmittedTime
	SortByUpdatedTime
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type ApplicationQueryFilter BaseQuerier

func NewApplicationQueryFilter() *ApplicationQueryFilter {
	return &ApplicationQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ApplicationQueryFilter) ByStatuses(statuses []model.Status) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.status IN ?", statuses)
	})
	return qf
}

func (qf *ApplicationQueryFilter) ByStatus(status model.Status) *ApplicationQueryFilter {
	return qf.ByStatuses([]model.Status{status})
}

// ByJobCategory restricts applications to those whose job carries the
// given role category. This is a single indexed join, not a
// fetch-all-then-filter pass.
func (qf *ApplicationQueryFilter) ByJobCategory(category model.RoleCategory) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.role_category = ?", category)
	})
	return qf
}

func (qf *ApplicationQueryFilter) ByApplicantID(id uuid.UUID) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.applicant_id = ?", id)
	})
	return qf
}

func (qf *ApplicationQueryFilter) ByJobID(id uuid.UUID) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("applications.job_id = ?", id)
	})
	return qf
}

type ApplicationQueryOptions BaseQuerier

func NewApplicationQueryOptions() *ApplicationQueryOptions {
	return &ApplicationQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *ApplicationQueryOptions) WithSortOrder(sort SortOrder) *ApplicationQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByID:
			return tx.Order("applications.id")
		case SortBySubmittedTime:
			return tx.Order("applications.submitted_at")
		case SortByUpdatedTime:
			return tx.Order("applications.updated_at")
		default:
			return tx
		}
	})
	return o
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *JobQueryFilter) ByRoleCategory(category model.RoleCategory) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("role_category = ?", category)
	})
	return qf
}
