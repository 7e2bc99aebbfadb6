package models

// AuditEvent is an immutable log entry recording a moderation action against
// a topic. Events are only ever appended, never mutated or deleted.
type AuditEvent struct {
	ID        string `json:"id,omitempty"`
	TID       string `json:"tid"`
	Type      string `json:"type"`
	UID       string `json:"uid"`
	Timestamp int64  `json:"timestamp"`

	// FromCID is set on "move" events and records the source category.
	FromCID string `json:"fromCid,omitempty"`
}

// Audit event types written by the moderation service.
const (
	EventDelete  = "delete"
	EventRestore = "restore"
	EventLock    = "lock"
	EventUnlock  = "unlock"
	EventPin     = "pin"
	EventUnpin   = "unpin"
	EventMove    = "move"
)
