package profile

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/user"
)

// Repository defines the interface for profile persistence
type Repository interface {
	// GetOrCreate returns the profile of u, creating it with the given
	// interface language when missing. created is true only for the call
	// that inserted the row; concurrent callers observe the same profile.
	GetOrCreate(ctx context.Context, u *user.User, language string) (p *Profile, created bool, err error)

	// GetByUserID retrieves a profile by owner, ErrProfileNotFound when missing
	GetByUserID(ctx context.Context, userID uint) (*Profile, error)

	// Update stores language, language sets, subscriptions and flags
	Update(ctx context.Context, p *Profile) error
}

// SubscriberFinder selects the profiles eligible for one notification
// category. trigger is the user whose action caused the event; an
// anonymous or nil trigger is never excluded since there is no profile to
// exclude. Returned profiles carry their user.
type SubscriberFinder interface {
	// SubscribedAnyTranslation: flag, project and language match; trigger excluded.
	SubscribedAnyTranslation(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*Profile, error)

	// SubscribedNewString: flag, project and language match.
	SubscribedNewString(ctx context.Context, projectID uint, language string) ([]*Profile, error)

	// SubscribedNewSuggestion: flag, project and language match; trigger
	// excluded only when authenticated.
	SubscribedNewSuggestion(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*Profile, error)

	// SubscribedNewContributor: flag, project and language match; trigger excluded.
	SubscribedNewContributor(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*Profile, error)

	// SubscribedNewComment: flag and project match; trigger excluded. An
	// empty language marks a source comment and matches every subscriber,
	// otherwise only profiles tracking language are returned.
	SubscribedNewComment(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*Profile, error)

	// SubscribedMergeFailure: flag and project match.
	SubscribedMergeFailure(ctx context.Context, projectID uint) ([]*Profile, error)
}
