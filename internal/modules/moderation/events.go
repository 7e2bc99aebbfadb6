package moderation

import "github.com/colefield/parley/internal/models"

// Bus topics for post-commit moderation notifications.
const (
	TopicDeleted   = "moderation.topic.deleted"
	TopicRestored  = "moderation.topic.restored"
	TopicPurged    = "moderation.topic.purged"
	TopicLocked    = "moderation.topic.locked"
	TopicUnlocked  = "moderation.topic.unlocked"
	TopicPinned    = "moderation.topic.pinned"
	TopicUnpinned  = "moderation.topic.unpinned"
	TopicPinExpiry = "moderation.topic.pin-expiry"
	TopicMoved     = "moderation.topic.moved"
)

// DeleteResult is returned by Delete and Restore.
type DeleteResult struct {
	TID      string               `json:"tid"`
	CID      string               `json:"cid"`
	IsDelete bool                 `json:"isDelete"`
	UID      string               `json:"uid"`
	User     *models.MiniUser     `json:"user"`
	Events   []*models.AuditEvent `json:"events"`
}

// PurgeResult is returned by Purge.
type PurgeResult struct {
	TID string `json:"tid"`
	CID string `json:"cid"`
	UID string `json:"uid"`
}

// LockResult is the updated topic snapshot returned by Lock and Unlock.
//
// IsLocked duplicates Topic.Locked and is kept for backward compatibility
// with older clients.
type LockResult struct {
	Topic    *models.Topic        `json:"topic"`
	Events   []*models.AuditEvent `json:"events"`
	IsLocked bool                 `json:"isLocked"`
}

// PinResult is the updated topic snapshot returned by Pin and Unpin.
//
// IsPinned duplicates Topic.Pinned and is kept for backward compatibility
// with older clients.
type PinResult struct {
	Topic    *models.Topic        `json:"topic"`
	Events   []*models.AuditEvent `json:"events"`
	IsPinned bool                 `json:"isPinned"`
}

// MoveResult is returned by Move and carried on the moved notification.
type MoveResult struct {
	TID     string `json:"tid"`
	FromCID string `json:"fromCid"`
	ToCID   string `json:"toCid"`
	UID     string `json:"uid"`
}
