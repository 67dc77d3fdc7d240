package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the canonical workflow state of an application. The coarse
// statuses are written by admin actions and the automation processor;
// the stage-valued statuses are written by the mimic processor, which
// layers its fine-grained progression on top of the same column.
type Status string

const (
	StatusPending     Status = "pending"
	StatusReviewing   Status = "reviewing"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"

	StatusApplied   Status = "applied"
	StatusReviewed  Status = "reviewed"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
)

// MimicStages is the ordered progression used by the mimic processor.
// Order matters: each stage's successor is the next entry.
var MimicStages = []Status{StatusApplied, StatusReviewed, StatusInterview, StatusOffer}

// Terminal reports whether the status is absorbing. Terminal
// applications accept no further transitions from any actor.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Known reports whether the status is part of the closed status set.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusShortlisted, StatusRejected, StatusAccepted,
		StatusApplied, StatusReviewed, StatusInterview, StatusOffer:
		return true
	}
	return false
}

// StageIndex returns the position of s in MimicStages, or -1 when s is
// not a mimic stage.
func (s Status) StageIndex() int {
	for i, stage := range MimicStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Note is a single entry in an application's append-only note log.
type Note struct {
	Text        string    `json:"text"`
	AddedBy     string    `json:"addedBy"`
	AddedAt     time.Time `json:"addedAt"`
	ProcessedBy string    `json:"processedBy,omitempty"`
	ActionType  string    `json:"actionType,omitempty"`
}

// Notes is stored as a jsonb column. It only ever grows; existing
// entries are never mutated or removed.
type Notes []Note

func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		n = Notes{}
	}
	return json.Marshal(n)
}

func (n *Notes) Scan(value any) error {
	if value == nil {
		*n = Notes{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, n)
	case string:
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("unsupported notes column type %T", value)
	}
}

type Application struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	JobID         uuid.UUID `gorm:"uniqueIndex:applications_applicant_id_job_id;not null"`
	Job           Job       `gorm:"foreignKey:JobID"`
	ApplicantID   uuid.UUID `gorm:"uniqueIndex:applications_applicant_id_job_id;not null"`
	Status        Status    `gorm:"type:varchar(32);index;not null;default:pending"`
	WorkflowStage *Status   `gorm:"type:varchar(32)"`
	Notes         Notes     `gorm:"type:jsonb"`
	SubmittedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time
}

type ApplicationList []Application

// AppendNote appends a note to the application's log. Notes are
// append-only; this is the only supported mutation.
func (a *Application) AppendNote(n Note) {
	a.Notes = append(a.Notes, n)
}

func (a Application) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
