package permission

import (
	"context"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/permission"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// ProjectACL answers whether a user may view a project. Projects without
// an access list are public; otherwise the user, directly or through a
// group, needs the view policy on the project. Grants and revocations
// made by other processes are picked up on every check.
type ProjectACL struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewProjectACL(enforcer permission.Enforcer, logger logger.Interface) *ProjectACL {
	return &ProjectACL{
		enforcer: enforcer,
		logger:   logger,
	}
}

func (a *ProjectACL) CanView(ctx context.Context, userID uint, project *translation.Project) (bool, error) {
	if project == nil {
		return false, fmt.Errorf("no project to check access against")
	}
	if !project.EnableACL {
		return true, nil
	}
	if userID == 0 {
		return false, nil
	}
	if err := a.enforcer.LoadPolicy(); err != nil {
		a.logger.Errorw("failed to refresh access policy", "project", project.Slug, "error", err)
		return false, err
	}
	return a.enforcer.Enforce(permission.UserSubject(userID), permission.ProjectObject(project.Slug), permission.ActionView)
}

func (a *ProjectACL) Grant(ctx context.Context, userID uint, slug string) error {
	if err := a.enforcer.AddPolicies([][]string{{
		permission.UserSubject(userID), permission.ProjectObject(slug), permission.ActionView,
	}}); err != nil {
		return err
	}
	a.logger.Infow("project access granted", "user_id", userID, "project", slug)
	return nil
}

func (a *ProjectACL) Revoke(ctx context.Context, userID uint, slug string) error {
	if err := a.enforcer.RemovePolicy(permission.UserSubject(userID), permission.ProjectObject(slug), permission.ActionView); err != nil {
		return err
	}
	a.logger.Infow("project access revoked", "user_id", userID, "project", slug)
	return nil
}
