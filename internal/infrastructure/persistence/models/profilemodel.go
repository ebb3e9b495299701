package models

import (
	"time"

	"github.com/verbatim-inc/verbatim/internal/shared/constants"
)

// ProfileModel represents the database persistence model for user profiles.
// The unique index on user_id is what makes get-or-create safe under
// concurrent first logins.
type ProfileModel struct {
	ID                      uint   `gorm:"primarykey"`
	UserID                  uint   `gorm:"uniqueIndex;not null"`
	Language                string `gorm:"not null;default:'';size:10"`
	Suggested               int    `gorm:"not null;default:0;index"`
	Translated              int    `gorm:"not null;default:0;index"`
	SubscribeAnyTranslation bool   `gorm:"not null;default:false"`
	SubscribeNewString      bool   `gorm:"not null;default:false"`
	SubscribeNewSuggestion  bool   `gorm:"not null;default:false"`
	SubscribeNewContributor bool   `gorm:"not null;default:false"`
	SubscribeNewComment     bool   `gorm:"not null;default:false"`
	SubscribeMergeFailure   bool   `gorm:"not null;default:false"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	User               UserModel                       `gorm:"foreignKey:UserID"`
	Languages          []ProfileLanguageModel          `gorm:"foreignKey:ProfileID"`
	SecondaryLanguages []ProfileSecondaryLanguageModel `gorm:"foreignKey:ProfileID"`
	Subscriptions      []ProfileSubscriptionModel      `gorm:"foreignKey:ProfileID"`
}

// TableName specifies the table name for GORM
func (ProfileModel) TableName() string {
	return constants.TableProfiles
}

// ProfileLanguageModel links a profile to a language it translates into.
type ProfileLanguageModel struct {
	ProfileID    uint   `gorm:"primaryKey;autoIncrement:false"`
	LanguageCode string `gorm:"primaryKey;size:20;index:idx_profile_languages_code"`
}

func (ProfileLanguageModel) TableName() string {
	return constants.TableProfileLanguages
}

// ProfileSecondaryLanguageModel links a profile to a secondary language.
type ProfileSecondaryLanguageModel struct {
	ProfileID    uint   `gorm:"primaryKey;autoIncrement:false"`
	LanguageCode string `gorm:"primaryKey;size:20"`
}

func (ProfileSecondaryLanguageModel) TableName() string {
	return constants.TableProfileSecondaryLanguages
}

// ProfileSubscriptionModel links a profile to a followed project.
type ProfileSubscriptionModel struct {
	ProfileID uint `gorm:"primaryKey;autoIncrement:false"`
	ProjectID uint `gorm:"primaryKey;autoIncrement:false;index:idx_profile_subscriptions_project"`
}

func (ProfileSubscriptionModel) TableName() string {
	return constants.TableProfileSubscriptions
}

// All returns every model owned by this module, in dependency order.
func All() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&ProfileLanguageModel{},
		&ProfileSecondaryLanguageModel{},
		&ProfileSubscriptionModel{},
	}
}
