package schema

import "time"

// InstanceStatus tracks the lifecycle of a persisted submission. Transitions
// past submitted belong to an external approval workflow.
type InstanceStatus string

const (
	StatusDraft     InstanceStatus = "draft"
	StatusSubmitted InstanceStatus = "submitted"
	StatusApproved  InstanceStatus = "approved"
	StatusRejected  InstanceStatus = "rejected"
	StatusArchived  InstanceStatus = "archived"
)

// AuditEntry records one action taken against an instance.
type AuditEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"userId,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Instance is a concrete filled-in submission bound to one template. It is
// immutable once persisted except for status transitions applied externally.
// Draft saves and submits both create instances; they differ only in Status
// and the presence of SubmittedAt.
type Instance struct {
	ID          string         `json:"id"`
	TemplateID  string         `json:"templateId"`
	Data        FormData       `json:"data"`
	Status      InstanceStatus `json:"status"`
	Progress    int            `json:"progress"`
	CurrentStep int            `json:"currentStep"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty"`
	AuditTrail  []AuditEntry   `json:"auditTrail,omitempty"`
}
