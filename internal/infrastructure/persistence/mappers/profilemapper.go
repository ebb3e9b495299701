package mappers

import (
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/models"
	"github.com/verbatim-inc/verbatim/internal/shared/mapper"
)

// ProfileMapper handles the conversion between profile entities and persistence models.
// Models passed to ToEntity must have User, Languages, SecondaryLanguages and
// Subscriptions preloaded.
type ProfileMapper interface {
	ToEntity(model *models.ProfileModel) (*profile.Profile, error)
	ToModel(entity *profile.Profile) *models.ProfileModel
	ToEntities(models []*models.ProfileModel) ([]*profile.Profile, error)
}

type ProfileMapperImpl struct {
	users UserMapper
}

func NewProfileMapper() ProfileMapper {
	return &ProfileMapperImpl{users: NewUserMapper()}
}

func (m *ProfileMapperImpl) ToEntity(model *models.ProfileModel) (*profile.Profile, error) {
	if model == nil {
		return nil, nil
	}

	owner, err := m.users.ToEntity(&model.User)
	if err != nil {
		return nil, fmt.Errorf("failed to map profile owner: %w", err)
	}

	languages := mapper.MapSlice(model.Languages, func(l models.ProfileLanguageModel) string { return l.LanguageCode })
	secondary := mapper.MapSlice(model.SecondaryLanguages, func(l models.ProfileSecondaryLanguageModel) string { return l.LanguageCode })
	subscriptions := mapper.MapSlice(model.Subscriptions, func(s models.ProfileSubscriptionModel) uint { return s.ProjectID })

	entity, err := profile.ReconstructProfile(
		model.ID,
		owner,
		model.Language,
		languages,
		secondary,
		subscriptions,
		profile.Flags{
			AnyTranslation: model.SubscribeAnyTranslation,
			NewString:      model.SubscribeNewString,
			NewSuggestion:  model.SubscribeNewSuggestion,
			NewContributor: model.SubscribeNewContributor,
			NewComment:     model.SubscribeNewComment,
			MergeFailure:   model.SubscribeMergeFailure,
		},
		model.Suggested,
		model.Translated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct profile entity: %w", err)
	}

	return entity, nil
}

// ToModel converts the scalar columns of a profile. Join rows are written
// separately by the repository.
func (m *ProfileMapperImpl) ToModel(entity *profile.Profile) *models.ProfileModel {
	if entity == nil {
		return nil
	}

	flags := entity.Flags()
	return &models.ProfileModel{
		ID:                      entity.ID(),
		UserID:                  entity.UserID(),
		Language:                entity.Language(),
		Suggested:               entity.Suggested(),
		Translated:              entity.Translated(),
		SubscribeAnyTranslation: flags.AnyTranslation,
		SubscribeNewString:      flags.NewString,
		SubscribeNewSuggestion:  flags.NewSuggestion,
		SubscribeNewContributor: flags.NewContributor,
		SubscribeNewComment:     flags.NewComment,
		SubscribeMergeFailure:   flags.MergeFailure,
	}
}

func (m *ProfileMapperImpl) ToEntities(modelList []*models.ProfileModel) ([]*profile.Profile, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ProfileModel) uint { return model.ID })
}
