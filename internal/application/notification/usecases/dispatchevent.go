package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	apperrors "github.com/verbatim-inc/verbatim/internal/shared/errors"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// DispatchEventUseCase fans a translation event out to every matching
// subscriber. A failed delivery does not stop the others; all failures
// are returned together.
type DispatchEventUseCase struct {
	finder                     profile.SubscriberFinder
	users                      UserRepository
	notifier                   Notifier
	notifyAdminsOnMergeFailure bool
	logger                     logger.Interface
}

func NewDispatchEventUseCase(
	finder profile.SubscriberFinder,
	users UserRepository,
	notifier Notifier,
	notifyAdminsOnMergeFailure bool,
	logger logger.Interface,
) *DispatchEventUseCase {
	return &DispatchEventUseCase{
		finder:                     finder,
		users:                      users,
		notifier:                   notifier,
		notifyAdminsOnMergeFailure: notifyAdminsOnMergeFailure,
		logger:                     logger,
	}
}

func (uc *DispatchEventUseCase) Execute(ctx context.Context, event *notification.Event) error {
	if event == nil {
		return apperrors.NewValidationError("event is required")
	}
	if err := event.Validate(); err != nil {
		return apperrors.NewValidationError("invalid event", err.Error())
	}

	uc.logger.Infow("dispatching translation event",
		"event_id", event.ID,
		"kind", event.Kind,
		"project_id", event.ProjectID(),
	)

	trigger, err := uc.trigger(ctx, event)
	if err != nil {
		return err
	}

	projectID := event.ProjectID()

	switch event.Kind {
	case notification.EventTranslationChanged:
		tr := event.Unit.Translation
		profiles, err := uc.finder.SubscribedAnyTranslation(ctx, projectID, languageCode(tr.Language), trigger)
		if err != nil {
			return uc.matchFailed(event, err)
		}
		return uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyAnyTranslation(ctx, p, event.Unit, event.OldUnit)
		})

	case notification.EventNewString:
		profiles, err := uc.finder.SubscribedNewString(ctx, projectID, languageCode(event.Translation.Language))
		if err != nil {
			return uc.matchFailed(event, err)
		}
		return uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyNewString(ctx, p, event.Translation)
		})

	case notification.EventNewSuggestion:
		profiles, err := uc.finder.SubscribedNewSuggestion(ctx, projectID, languageCode(event.Translation.Language), trigger)
		if err != nil {
			return uc.matchFailed(event, err)
		}
		return uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyNewSuggestion(ctx, p, event.Translation, event.Suggestion, event.Unit)
		})

	case notification.EventNewContributor:
		profiles, err := uc.finder.SubscribedNewContributor(ctx, projectID, languageCode(event.Translation.Language), trigger)
		if err != nil {
			return uc.matchFailed(event, err)
		}
		return uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyNewContributor(ctx, p, event.Translation, trigger)
		})

	case notification.EventNewComment:
		profiles, err := uc.finder.SubscribedNewComment(ctx, projectID, languageCode(event.Comment.Language), trigger)
		if err != nil {
			return uc.matchFailed(event, err)
		}
		return uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyNewComment(ctx, p, event.Unit, event.Comment)
		})

	case notification.EventMergeFailure:
		profiles, err := uc.finder.SubscribedMergeFailure(ctx, projectID)
		if err != nil {
			return uc.matchFailed(event, err)
		}
		deliverErr := uc.deliver(event, profiles, func(p *profile.Profile) error {
			return uc.notifier.NotifyMergeFailure(ctx, p, event.SubProject, event.Error, event.Status)
		})
		if !uc.notifyAdminsOnMergeFailure {
			return deliverErr
		}
		if err := uc.notifier.NotifyAdminsMergeFailure(ctx, event.SubProject, event.Error, event.Status); err != nil {
			uc.logger.Errorw("failed to notify admins about merge failure",
				"event_id", event.ID,
				"subproject", event.SubProject.String(),
				"error", err,
			)
			return errors.Join(deliverErr, fmt.Errorf("admins: %w", err))
		}
		return deliverErr
	}

	return apperrors.NewValidationError("unsupported event kind", string(event.Kind))
}

// trigger resolves the acting user. Anonymous actions have no user; a
// user that no longer exists is still excluded by ID.
func (uc *DispatchEventUseCase) trigger(ctx context.Context, event *notification.Event) (*user.User, error) {
	if event.TriggerUserID == 0 {
		return user.Anonymous(), nil
	}

	u, err := uc.users.GetByID(ctx, event.TriggerUserID)
	if err != nil {
		uc.logger.Errorw("failed to load triggering user", "user_id", event.TriggerUserID, "error", err)
		return nil, fmt.Errorf("failed to load user %d: %w", event.TriggerUserID, err)
	}
	if u != nil {
		return u, nil
	}

	if event.Kind == notification.EventNewContributor {
		return nil, apperrors.NewNotFoundError("user not found", fmt.Sprintf("%d", event.TriggerUserID))
	}

	uc.logger.Warnw("triggering user not found", "user_id", event.TriggerUserID, "event_id", event.ID)
	return user.ReconstructUser(event.TriggerUserID, "", "", "", "", false)
}

func (uc *DispatchEventUseCase) deliver(event *notification.Event, profiles []*profile.Profile, send func(p *profile.Profile) error) error {
	var errs []error
	for _, p := range profiles {
		if err := send(p); err != nil {
			uc.logger.Errorw("failed to notify subscriber",
				"event_id", event.ID,
				"kind", event.Kind,
				"user_id", p.UserID(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("user %d: %w", p.UserID(), err))
		}
	}

	uc.logger.Infow("translation event dispatched",
		"event_id", event.ID,
		"kind", event.Kind,
		"subscribers", len(profiles),
		"failed", len(errs),
	)
	return errors.Join(errs...)
}

func (uc *DispatchEventUseCase) matchFailed(event *notification.Event, err error) error {
	uc.logger.Errorw("failed to find subscribers", "event_id", event.ID, "kind", event.Kind, "error", err)
	return fmt.Errorf("failed to find subscribers for %s: %w", event.Kind, err)
}

func languageCode(l *translation.Language) string {
	if l == nil {
		return ""
	}
	return l.Code
}
