package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/models"
	"github.com/verbatim-inc/verbatim/internal/shared/db"
)

var flagColumns = map[profile.Category]string{
	profile.CategoryAnyTranslation: "subscribe_any_translation",
	profile.CategoryNewString:      "subscribe_new_string",
	profile.CategoryNewSuggestion:  "subscribe_new_suggestion",
	profile.CategoryNewContributor: "subscribe_new_contributor",
	profile.CategoryNewComment:     "subscribe_new_comment",
	profile.CategoryMergeFailure:   "subscribe_merge_failure",
}

func (r *ProfileRepository) SubscribedAnyTranslation(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*profile.Profile, error) {
	return r.subscribed(ctx, profile.CategoryAnyTranslation, projectID, tracking(language), excluding(trigger))
}

func (r *ProfileRepository) SubscribedNewString(ctx context.Context, projectID uint, language string) ([]*profile.Profile, error) {
	return r.subscribed(ctx, profile.CategoryNewString, projectID, tracking(language))
}

// SubscribedNewSuggestion keeps anonymous suggestions visible to everyone;
// excluding() is a no-op for unauthenticated triggers.
func (r *ProfileRepository) SubscribedNewSuggestion(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*profile.Profile, error) {
	return r.subscribed(ctx, profile.CategoryNewSuggestion, projectID, tracking(language), excluding(trigger))
}

func (r *ProfileRepository) SubscribedNewContributor(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*profile.Profile, error) {
	return r.subscribed(ctx, profile.CategoryNewContributor, projectID, tracking(language), excluding(trigger))
}

// SubscribedNewComment filters by language only for translation comments.
// Source comments (empty language) reach every subscriber of the project.
func (r *ProfileRepository) SubscribedNewComment(ctx context.Context, projectID uint, language string, trigger *user.User) ([]*profile.Profile, error) {
	scopes := []func(*gorm.DB) *gorm.DB{excluding(trigger)}
	if language != "" {
		scopes = append(scopes, tracking(language))
	}
	return r.subscribed(ctx, profile.CategoryNewComment, projectID, scopes...)
}

func (r *ProfileRepository) SubscribedMergeFailure(ctx context.Context, projectID uint) ([]*profile.Profile, error) {
	return r.subscribed(ctx, profile.CategoryMergeFailure, projectID)
}

// subscribed selects profiles with the category flag set that follow
// projectID, narrowed by scopes.
func (r *ProfileRepository) subscribed(ctx context.Context, category profile.Category, projectID uint, scopes ...func(*gorm.DB) *gorm.DB) ([]*profile.Profile, error) {
	column, ok := flagColumns[category]
	if !ok {
		return nil, fmt.Errorf("unknown notification category %q", category)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	followers := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.ProfileSubscriptionModel{}).
		Select("profile_id").
		Where("project_id = ?", projectID)

	var modelList []*models.ProfileModel
	err := withAssociations(tx).
		Where(column+" = ?", true).
		Where("id IN (?)", followers).
		Scopes(scopes...).
		Order("id").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to query subscribers",
			"category", category,
			"project_id", projectID,
			"error", err)
		return nil, fmt.Errorf("failed to query %s subscribers: %w", category, err)
	}

	profiles, err := r.mapper.ToEntities(modelList)
	if err != nil {
		r.logger.Errorw("failed to map subscriber profiles", "category", category, "error", err)
		return nil, fmt.Errorf("failed to map subscribers: %w", err)
	}
	return profiles, nil
}

// tracking keeps profiles that translate into language.
func tracking(language string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		translators := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.ProfileLanguageModel{}).
			Select("profile_id").
			Where("language_code = ?", language)
		return tx.Where("id IN (?)", translators)
	}
}

// excluding drops the profile of trigger. Anonymous and nil triggers own
// no profile, so nothing is excluded for them.
func excluding(trigger *user.User) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if !trigger.IsAuthenticated() {
			return tx
		}
		return tx.Where("user_id <> ?", trigger.ID())
	}
}
