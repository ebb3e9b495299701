package usecases

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/user"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
	UpdateName(ctx context.Context, user *user.User) error
}

// MessageTranslator renders catalog messages in a given language.
type MessageTranslator interface {
	Use(code string, fn func() error) error
	Translate(messageID string, data map[string]any) string
}

// GroupMembership adds new users to the default permission group.
type GroupMembership interface {
	AddUserToDefaultGroup(ctx context.Context, userID uint) (bool, error)
}
