package usecases

import (
	"context"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/shared/db"
	apperrors "github.com/verbatim-inc/verbatim/internal/shared/errors"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
	"github.com/verbatim-inc/verbatim/internal/shared/utils"
)

type RegisterUserRequest struct {
	UserID    uint   `json:"user_id" validate:"gt=0"`
	FirstName string `json:"first_name" validate:"max=30"`
	LastName  string `json:"last_name" validate:"max=30"`
	Language  string `json:"language" validate:"omitempty,langcode"`
}

type RegisterUserResult struct {
	User           *user.User
	Profile        *profile.Profile
	InDefaultGroup bool
}

// RegisterUserUseCase completes a registration: stores the name given on
// the form, creates the profile and puts the user in the default group.
type RegisterUserUseCase struct {
	users    UserRepository
	profiles profile.Repository
	groups   GroupMembership
	txMgr    *db.TransactionManager
	logger   logger.Interface
}

func NewRegisterUserUseCase(
	users UserRepository,
	profiles profile.Repository,
	groups GroupMembership,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		users:    users,
		profiles: profiles,
		groups:   groups,
		txMgr:    txMgr,
		logger:   logger,
	}
}

func (uc *RegisterUserUseCase) Execute(ctx context.Context, req RegisterUserRequest) (*RegisterUserResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	u, err := uc.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", req.UserID))
	}

	if err := u.SetName(req.FirstName, req.LastName); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	language := ""
	if canonical, ok := profile.CanonicalLanguage(req.Language); ok {
		language = canonical
	}

	result := &RegisterUserResult{User: u}
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.users.UpdateName(txCtx, u); err != nil {
			return err
		}
		p, _, err := uc.profiles.GetOrCreate(txCtx, u, language)
		if err != nil {
			return err
		}
		result.Profile = p
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to register user", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	// group membership lives in the policy store, outside the transaction
	added, err := uc.groups.AddUserToDefaultGroup(ctx, u.ID())
	if err != nil {
		uc.logger.Errorw("failed to add user to default group", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to add user to default group: %w", err)
	}
	result.InDefaultGroup = added

	uc.logger.Infow("user registered", "user_id", u.ID(), "default_group", added)
	return result, nil
}
