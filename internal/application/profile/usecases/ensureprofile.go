package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	apperrors "github.com/verbatim-inc/verbatim/internal/shared/errors"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

const messageProfileMigrated = "ProfileMigrated"

// EnsureProfileResult tells the login layer which language to activate and
// what, if anything, to tell the user.
type EnsureProfileResult struct {
	Profile  *profile.Profile
	Created  bool
	Language string
	Notice   string
}

// EnsureProfileUseCase runs at login. It creates the profile on first
// login, seeding the interface language from the request language.
type EnsureProfileUseCase struct {
	profiles   profile.Repository
	translator MessageTranslator
	logger     logger.Interface
}

func NewEnsureProfileUseCase(
	profiles profile.Repository,
	translator MessageTranslator,
	logger logger.Interface,
) *EnsureProfileUseCase {
	return &EnsureProfileUseCase{
		profiles:   profiles,
		translator: translator,
		logger:     logger,
	}
}

// Execute returns the profile of u. requestLanguage is only used for a new
// profile and is ignored when it is not a supported interface language.
func (uc *EnsureProfileUseCase) Execute(ctx context.Context, u *user.User, requestLanguage string) (*EnsureProfileResult, error) {
	if !u.IsAuthenticated() {
		return nil, apperrors.NewValidationError("a logged in user is required")
	}

	language := ""
	if canonical, ok := profile.CanonicalLanguage(requestLanguage); ok {
		language = canonical
	}

	p, created, err := uc.profiles.GetOrCreate(ctx, u, language)
	if err != nil {
		if errors.Is(err, profile.ErrUserRequired) {
			return nil, apperrors.NewValidationError(err.Error())
		}
		uc.logger.Errorw("failed to ensure profile", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	result := &EnsureProfileResult{
		Profile:  p,
		Created:  created,
		Language: p.Language(),
	}

	if created {
		_ = uc.translator.Use(result.Language, func() error {
			result.Notice = uc.translator.Translate(messageProfileMigrated, nil)
			return nil
		})
		uc.logger.Infow("profile created at login", "user_id", u.ID(), "language", result.Language)
	}

	return result, nil
}
