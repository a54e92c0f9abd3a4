package models

import "time"

// Audit actions recorded for workflow endpoints.
const (
	AuditActionView    = "VIEW"
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionExport  = "EXPORT"
	AuditActionLogin   = "LOGIN"
	AuditActionUnknown = "UNKNOWN"
)

// Audit resources.
const (
	AuditResourceBachelor           = "BACHELOR"
	AuditResourceImageRequest       = "IMAGE_REQUEST"
	AuditResourceMissingInformation = "MISSING_INFORMATION"
	AuditResourceAuthentication     = "AUTHENTICATION"
)

// Audit outcomes.
const (
	AuditStatusSuccess = "SUCCESS"
	AuditStatusFailure = "FAILURE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorEmail *string   `db:"actor_email" json:"actorEmail,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resourceId,omitempty"`
	Status     string    `db:"status" json:"status"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ipAddress"`
	UserAgent  string    `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
