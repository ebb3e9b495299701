package usecases

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
)

// Notifier sends the per-category notifications for one profile.
type Notifier interface {
	NotifyAnyTranslation(ctx context.Context, p *profile.Profile, unit, oldUnit *translation.Unit) error
	NotifyNewString(ctx context.Context, p *profile.Profile, tr *translation.Translation) error
	NotifyNewSuggestion(ctx context.Context, p *profile.Profile, tr *translation.Translation, suggestion *translation.Suggestion, unit *translation.Unit) error
	NotifyNewContributor(ctx context.Context, p *profile.Profile, tr *translation.Translation, contributor *user.User) error
	NotifyNewComment(ctx context.Context, p *profile.Profile, unit *translation.Unit, comment *translation.Comment) error
	NotifyMergeFailure(ctx context.Context, p *profile.Profile, sub *translation.SubProject, errorText, status string) error
	NotifyAdminsMergeFailure(ctx context.Context, sub *translation.SubProject, errorText, status string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*user.User, error)
}
