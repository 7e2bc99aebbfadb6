package privileges

import (
	"context"
	"fmt"
	"slices"

	"github.com/colefield/parley/internal/models"
)

// SystemUID is the non-human acting-user identity used for automated
// actions such as the pin-expiry sweep.
const SystemUID = "system"

// UserReader is the slice of the user store the privilege checks need.
type UserReader interface {
	Get(ctx context.Context, uid string) (*models.User, error)
}

// Service evaluates moderation privileges. The moderation module treats it
// as a black box; all role knowledge lives here.
type Service struct {
	users UserReader
}

// New creates a privilege service backed by the given user reader.
func New(users UserReader) *Service {
	return &Service{users: users}
}

func (s *Service) user(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", uid, err)
	}
	return user, nil
}

// IsAdminOrMod reports whether the user is an administrator or a moderator
// of the given category.
func (s *Service) IsAdminOrMod(ctx context.Context, cid, uid string) (bool, error) {
	user, err := s.user(ctx, uid)
	if err != nil {
		return false, err
	}
	if user == nil || user.Banned {
		return false, nil
	}
	return user.Admin || slices.Contains(user.ModeratedCIDs, cid), nil
}

// IsAdminOrModOrSystem is IsAdminOrMod extended with the system actor,
// which may always act (it drives automatic unpins).
func (s *Service) IsAdminOrModOrSystem(ctx context.Context, cid, uid string) (bool, error) {
	if uid == SystemUID {
		return true, nil
	}
	return s.IsAdminOrMod(ctx, cid, uid)
}

// CanDelete reports whether the user may soft-delete or restore the topic.
// Admins and category moderators always can; the topic owner can unless the
// topic is locked.
func (s *Service) CanDelete(ctx context.Context, topic *models.Topic, uid string) (bool, error) {
	isAdminOrMod, err := s.IsAdminOrMod(ctx, topic.CID, uid)
	if err != nil {
		return false, err
	}
	if isAdminOrMod {
		return true, nil
	}
	if topic.UID != uid || topic.Locked {
		return false, nil
	}
	user, err := s.user(ctx, uid)
	if err != nil {
		return false, err
	}
	return user != nil && !user.Banned, nil
}

// CanPurge reports whether the user may irreversibly remove the topic.
// Purge is independent of the delete privilege and never granted to owners.
func (s *Service) CanPurge(ctx context.Context, topic *models.Topic, uid string) (bool, error) {
	return s.IsAdminOrMod(ctx, topic.CID, uid)
}
