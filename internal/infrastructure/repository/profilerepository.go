package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/mappers"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/models"
	"github.com/verbatim-inc/verbatim/internal/shared/db"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// ProfileRepository implements profile.Repository and profile.SubscriberFinder.
type ProfileRepository struct {
	db     *gorm.DB
	mapper mappers.ProfileMapper
	logger logger.Interface
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB, logger logger.Interface) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		mapper: mappers.NewProfileMapper(),
		logger: logger,
	}
}

// GetOrCreate inserts the profile row unless one exists for the user and
// then reads it back. The insert relies on the unique user_id index, so two
// concurrent first logins end up with one profile and one created=true.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, u *user.User, language string) (*profile.Profile, bool, error) {
	fresh, err := profile.NewProfile(u, language)
	if err != nil {
		return nil, false, err
	}

	model := r.mapper.ToModel(fresh)
	result := db.GetTxFromContext(ctx, r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to create profile", "user_id", u.ID(), "error", result.Error)
		return nil, false, fmt.Errorf("failed to create profile: %w", result.Error)
	}
	created := result.RowsAffected > 0

	p, err := r.GetByUserID(ctx, u.ID())
	if err != nil {
		return nil, false, err
	}

	if created {
		r.logger.Infow("profile created", "user_id", u.ID(), "profile_id", p.ID())
	}
	return p, created, nil
}

// GetByUserID retrieves the profile owned by userID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*profile.Profile, error) {
	var model models.ProfileModel

	err := withAssociations(db.GetTxFromContext(ctx, r.db)).
		Where("user_id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		r.logger.Errorw("failed to get profile by user ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map profile model to entity", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map profile: %w", err)
	}
	return entity, nil
}

// Update stores the preferences of p. Counters are owned by contribution
// tracking and left untouched.
func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	model := r.mapper.ToModel(p)

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		// RowsAffected counts changed rows on MySQL, so existence is checked
		// separately
		var count int64
		if err := tx.Model(&models.ProfileModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return profile.ErrProfileNotFound
		}

		result := tx.Model(&models.ProfileModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"language":                  model.Language,
				"subscribe_any_translation": model.SubscribeAnyTranslation,
				"subscribe_new_string":      model.SubscribeNewString,
				"subscribe_new_suggestion":  model.SubscribeNewSuggestion,
				"subscribe_new_contributor": model.SubscribeNewContributor,
				"subscribe_new_comment":     model.SubscribeNewComment,
				"subscribe_merge_failure":   model.SubscribeMergeFailure,
			})
		if result.Error != nil {
			return result.Error
		}

		languages := make([]models.ProfileLanguageModel, 0, len(p.Languages()))
		for _, code := range p.Languages() {
			languages = append(languages, models.ProfileLanguageModel{ProfileID: model.ID, LanguageCode: code})
		}
		if err := replaceRows(tx, model.ID, &models.ProfileLanguageModel{}, languages); err != nil {
			return err
		}

		secondary := make([]models.ProfileSecondaryLanguageModel, 0, len(p.SecondaryLanguages()))
		for _, code := range p.SecondaryLanguages() {
			secondary = append(secondary, models.ProfileSecondaryLanguageModel{ProfileID: model.ID, LanguageCode: code})
		}
		if err := replaceRows(tx, model.ID, &models.ProfileSecondaryLanguageModel{}, secondary); err != nil {
			return err
		}

		subscriptions := make([]models.ProfileSubscriptionModel, 0, len(p.Subscriptions()))
		for _, projectID := range p.Subscriptions() {
			subscriptions = append(subscriptions, models.ProfileSubscriptionModel{ProfileID: model.ID, ProjectID: projectID})
		}
		return replaceRows(tx, model.ID, &models.ProfileSubscriptionModel{}, subscriptions)
	})
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return err
		}
		r.logger.Errorw("failed to update profile", "id", model.ID, "error", err)
		return fmt.Errorf("failed to update profile: %w", err)
	}

	r.logger.Infow("profile updated successfully", "id", model.ID)
	return nil
}

// replaceRows swaps the join rows of one profile for rows.
func replaceRows[T any](tx *gorm.DB, profileID uint, table any, rows []T) error {
	if err := tx.Where("profile_id = ?", profileID).Delete(table).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func withAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("User").
		Preload("Languages").
		Preload("SecondaryLanguages").
		Preload("Subscriptions")
}
