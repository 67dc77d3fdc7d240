package events

import "time"

const (
	ActionStatusChange     = "APPLICATION_STATUS_CHANGE"
	ActionBotMimicWorkflow = "BOT_MIMIC_WORKFLOW"

	ResourceTypeApplication = "application"

	AuditMessageKind = "ats.events.audit"
	defaultTopic     = "ats.events"
)

// AuditDetails carries the transition-specific payload. Status fields
// are set by the automation/admin paths, stage fields by the mimic
// path.
type AuditDetails struct {
	OldStatus    string    `json:"oldStatus,omitempty"`
	NewStatus    string    `json:"newStatus,omitempty"`
	OldStage     string    `json:"oldStage,omitempty"`
	NewStage     string    `json:"newStage,omitempty"`
	ProcessedBy  string    `json:"processedBy"`
	RoleCategory string    `json:"roleCategory"`
	JobTitle     string    `json:"jobTitle,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Comment      string    `json:"comment,omitempty"`
}

// AuditEvent is emitted once per allowed status transition.
type AuditEvent struct {
	Actor        string       `json:"actor"`
	Action       string       `json:"action"`
	ResourceType string       `json:"resourceType"`
	ResourceID   string       `json:"resourceId"`
	Description  string       `json:"description"`
	Details      AuditDetails `json:"details"`
}
