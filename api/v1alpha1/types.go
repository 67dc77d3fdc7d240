// Package v1alpha1 holds the wire types of the public API.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationCreate struct {
	JobID       uuid.UUID `json:"jobId" validate:"required"`
	ApplicantID uuid.UUID `json:"applicantId" validate:"required"`
}

type StatusUpdate struct {
	Status  string `json:"status" validate:"required,application_status"`
	Comment string `json:"comment,omitempty"`
}

type Note struct {
	Text        string    `json:"text"`
	AddedBy     string    `json:"addedBy"`
	AddedAt     time.Time `json:"addedAt"`
	ProcessedBy string    `json:"processedBy,omitempty"`
	ActionType  string    `json:"actionType,omitempty"`
}

type Application struct {
	ID            uuid.UUID `json:"id"`
	JobID         uuid.UUID `json:"jobId"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	ApplicantID   uuid.UUID `json:"applicantId"`
	Status        string    `json:"status"`
	WorkflowStage *string   `json:"workflowStage,omitempty"`
	Notes         []Note    `json:"notes"`
	SubmittedAt   time.Time `json:"submittedAt"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type ApplicationList []Application

type JobCreate struct {
	Title        string `json:"title" validate:"required,job_title"`
	Description  string `json:"description,omitempty"`
	RoleCategory string `json:"roleCategory" validate:"required,role_category"`
}

type Job struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	RoleCategory string    `json:"roleCategory"`
	CreatedAt    time.Time `json:"createdAt"`
}

type JobList []Job

type WorkflowStats struct {
	TotalTechnicalApplications int            `json:"totalTechnicalApplications"`
	StageDistribution          map[string]int `json:"stageDistribution"`
	IsRunning                  bool           `json:"isRunning"`
}

type TriggerReply struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

type Error struct {
	Message string `json:"message"`
}
