package models

import "time"

// AuditAction identifies an admin override action recorded in the audit trail.
type AuditAction string

const (
	AuditForceStatus     AuditAction = "force_status"
	AuditAdminCancel     AuditAction = "admin_cancel"
	AuditReassignCleaner AuditAction = "reassign_cleaner"
	AuditForceComplete   AuditAction = "force_complete"
)

// AuditEntry is one record in the append-only admin audit trail. Entries are
// never updated or deleted; the trail is the forensic source of truth for
// disputed overrides.
type AuditEntry struct {
	ID        string      `bson:"id" json:"id"`
	ActorID   string      `bson:"actor_id" json:"actor_id"`
	BookingID string      `bson:"booking_id" json:"booking_id"`
	Action    AuditAction `bson:"action" json:"action"`
	Reason    string      `bson:"reason" json:"reason"`
	Detail    string      `bson:"detail,omitempty" json:"detail,omitempty"` // e.g. old/new status, new cleaner id
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}
