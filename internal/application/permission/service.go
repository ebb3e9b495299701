package permission

import (
	"context"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/permission"
	"github.com/verbatim-inc/verbatim/internal/shared/constants"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

type UserLister interface {
	ListIDs(ctx context.Context) ([]uint, error)
}

type ProjectACL interface {
	Grant(ctx context.Context, userID uint, slug string) error
	Revoke(ctx context.Context, userID uint, slug string) error
}

// SetupResult reports what CreateGroups changed.
type SetupResult struct {
	Created []string
	Updated []string
}

// Service bootstraps permission groups and manages group membership and
// project access lists.
type Service struct {
	enforcer     permission.Enforcer
	acl          ProjectACL
	users        UserLister
	groups       []permission.Group
	defaultGroup string
	logger       logger.Interface
}

func NewService(
	enforcer permission.Enforcer,
	acl ProjectACL,
	users UserLister,
	groups []permission.Group,
	defaultGroup string,
	logger logger.Interface,
) *Service {
	return &Service{
		enforcer:     enforcer,
		acl:          acl,
		users:        users,
		groups:       groups,
		defaultGroup: defaultGroup,
		logger:       logger,
	}
}

// CreateGroups creates the standard groups that do not exist yet. With
// update, permissions of existing groups are brought in line as well.
// Permissions are only ever added.
func (s *Service) CreateGroups(ctx context.Context, update bool) (*SetupResult, error) {
	result := &SetupResult{}

	for _, group := range s.groups {
		exists, err := s.enforcer.HasSubject(permission.GroupSubject(group.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to look up group %s: %w", group.Name, err)
		}
		if exists && !update {
			continue
		}

		if err := s.enforcer.AddPolicies(group.Policies()); err != nil {
			s.logger.Errorw("failed to store group permissions", "group", group.Name, "error", err)
			return nil, fmt.Errorf("failed to store permissions of group %s: %w", group.Name, err)
		}

		if exists {
			result.Updated = append(result.Updated, group.Name)
		} else {
			result.Created = append(result.Created, group.Name)
		}
	}

	s.logger.Infow("permission groups set up",
		"created", result.Created,
		"updated", result.Updated,
	)
	return result, nil
}

// MoveUsers adds every existing user to the Users group.
func (s *Service) MoveUsers(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	group := permission.GroupSubject(constants.GroupUsers)
	for _, id := range ids {
		if err := s.enforcer.AddRoleForUser(permission.UserSubject(id), group); err != nil {
			s.logger.Errorw("failed to add user to group", "user_id", id, "group", constants.GroupUsers, "error", err)
			return 0, fmt.Errorf("failed to add user %d to %s: %w", id, constants.GroupUsers, err)
		}
	}

	s.logger.Infow("users moved to group", "group", constants.GroupUsers, "count", len(ids))
	return len(ids), nil
}

// AddUserToDefaultGroup puts a newly registered user into the configured
// default group. It reports false when that group has not been set up.
func (s *Service) AddUserToDefaultGroup(ctx context.Context, userID uint) (bool, error) {
	if s.defaultGroup == "" {
		return false, nil
	}

	group := permission.GroupSubject(s.defaultGroup)
	exists, err := s.enforcer.HasSubject(group)
	if err != nil {
		return false, fmt.Errorf("failed to look up group %s: %w", s.defaultGroup, err)
	}
	if !exists {
		s.logger.Warnw("default group does not exist, run groups setup", "group", s.defaultGroup, "user_id", userID)
		return false, nil
	}

	if err := s.enforcer.AddRoleForUser(permission.UserSubject(userID), group); err != nil {
		return false, fmt.Errorf("failed to add user %d to %s: %w", userID, s.defaultGroup, err)
	}
	return true, nil
}

// Groups returns the group names the user belongs to.
func (s *Service) Groups(ctx context.Context, userID uint) ([]string, error) {
	return s.enforcer.GetRolesForUser(permission.UserSubject(userID))
}

func (s *Service) GrantProjectAccess(ctx context.Context, userID uint, slug string) error {
	if userID == 0 || slug == "" {
		return fmt.Errorf("user and project are required")
	}
	return s.acl.Grant(ctx, userID, slug)
}

func (s *Service) RevokeProjectAccess(ctx context.Context, userID uint, slug string) error {
	if userID == 0 || slug == "" {
		return fmt.Errorf("user and project are required")
	}
	return s.acl.Revoke(ctx, userID, slug)
}
