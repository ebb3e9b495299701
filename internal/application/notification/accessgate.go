package notification

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// AccessGate decides at send time whether a profile's user may still see
// the subject of a notification. Anything short of a clear yes is a no.
type AccessGate struct {
	access ProjectAccess
	logger logger.Interface
}

func NewAccessGate(access ProjectAccess, logger logger.Interface) *AccessGate {
	return &AccessGate{
		access: access,
		logger: logger,
	}
}

func (g *AccessGate) IsAuthorized(ctx context.Context, p *profile.Profile, subject translation.Subject) bool {
	if p == nil || subject == nil {
		return false
	}

	project := subject.ACLProject()
	if project == nil {
		g.logger.Warnw("notification subject has no project", "subject", subject.String())
		return false
	}

	ok, err := g.access.CanView(ctx, p.UserID(), project)
	if err != nil {
		g.logger.Errorw("failed to check project access",
			"user_id", p.UserID(),
			"project", project.Slug,
			"error", err,
		)
		return false
	}
	return ok
}
