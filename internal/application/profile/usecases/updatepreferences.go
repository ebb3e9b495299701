package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	apperrors "github.com/verbatim-inc/verbatim/internal/shared/errors"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
	"github.com/verbatim-inc/verbatim/internal/shared/utils"
)

// UpdatePreferencesRequest replaces the preferences of a profile. An empty
// Language keeps the current interface language. Notifications lists the
// categories to opt into; all others are switched off.
type UpdatePreferencesRequest struct {
	UserID             uint     `json:"user_id" validate:"gt=0"`
	Language           string   `json:"language" validate:"omitempty,langcode"`
	Languages          []string `json:"languages" validate:"max=100,dive,langcode"`
	SecondaryLanguages []string `json:"secondary_languages" validate:"max=100,dive,langcode"`
	Subscriptions      []uint   `json:"subscriptions" validate:"max=1000,dive,gt=0"`
	Notifications      []string `json:"notifications" validate:"dive,oneof=any_translation new_string new_suggestion new_contributor new_comment merge_failure"`
}

type UpdatePreferencesUseCase struct {
	profiles profile.Repository
	logger   logger.Interface
}

func NewUpdatePreferencesUseCase(profiles profile.Repository, logger logger.Interface) *UpdatePreferencesUseCase {
	return &UpdatePreferencesUseCase{
		profiles: profiles,
		logger:   logger,
	}
}

func (uc *UpdatePreferencesUseCase) Execute(ctx context.Context, req UpdatePreferencesRequest) (*profile.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	p, err := uc.profiles.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("profile not found", fmt.Sprintf("%d", req.UserID))
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.Language != "" {
		if err := p.SetLanguage(req.Language); err != nil {
			return nil, apperrors.NewValidationError("unsupported interface language", req.Language)
		}
	}
	if err := p.SetLanguages(req.Languages); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := p.SetSecondaryLanguages(req.SecondaryLanguages); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := p.SetSubscriptions(req.Subscriptions); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	var flags profile.Flags
	for _, name := range req.Notifications {
		flags = flags.With(profile.Category(name), true)
	}
	p.SetFlags(flags)

	if err := uc.profiles.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to update preferences", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	uc.logger.Infow("preferences updated",
		"user_id", req.UserID,
		"languages", p.Languages(),
		"subscriptions", len(p.Subscriptions()),
	)
	return p, nil
}
