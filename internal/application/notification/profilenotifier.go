package notification

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
)

// ProfileNotifier maps each notification category to its template and
// context. Every method is a no-op when the profile's user can no longer
// see the subject.
type ProfileNotifier struct {
	sender *Sender
}

func NewProfileNotifier(sender *Sender) *ProfileNotifier {
	return &ProfileNotifier{sender: sender}
}

// NotifyAnyTranslation reports a saved translation. An edit of an already
// translated unit is a change, anything else a new translation.
func (n *ProfileNotifier) NotifyAnyTranslation(ctx context.Context, p *profile.Profile, unit, oldUnit *translation.Unit) error {
	if unit == nil || unit.Translation == nil {
		return notification.ErrMissingSubject
	}
	template := notification.TemplateNewTranslation
	if oldUnit != nil && oldUnit.Translated {
		template = notification.TemplateChangedTranslation
	}
	return n.sender.NotifyUser(ctx, p, template, unit.Translation, map[string]any{
		"unit":    unit,
		"oldunit": oldUnit,
	})
}

func (n *ProfileNotifier) NotifyNewString(ctx context.Context, p *profile.Profile, tr *translation.Translation) error {
	if tr == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyUser(ctx, p, notification.TemplateNewString, tr, nil)
}

func (n *ProfileNotifier) NotifyNewSuggestion(ctx context.Context, p *profile.Profile, tr *translation.Translation, suggestion *translation.Suggestion, unit *translation.Unit) error {
	if tr == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyUser(ctx, p, notification.TemplateNewSuggestion, tr, map[string]any{
		"suggestion": suggestion,
		"unit":       unit,
	})
}

func (n *ProfileNotifier) NotifyNewContributor(ctx context.Context, p *profile.Profile, tr *translation.Translation, contributor *user.User) error {
	if tr == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyUser(ctx, p, notification.TemplateNewContributor, tr, map[string]any{
		"user": contributor,
	})
}

func (n *ProfileNotifier) NotifyNewComment(ctx context.Context, p *profile.Profile, unit *translation.Unit, comment *translation.Comment) error {
	if unit == nil || unit.Translation == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyUser(ctx, p, notification.TemplateNewComment, unit.Translation, map[string]any{
		"unit":       unit,
		"comment":    comment,
		"subproject": unit.Translation.SubProject,
	})
}

// NotifyMergeFailure is gated on the subproject's parent project.
func (n *ProfileNotifier) NotifyMergeFailure(ctx context.Context, p *profile.Profile, sub *translation.SubProject, errorText, status string) error {
	if sub == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyUser(ctx, p, notification.TemplateMergeFailure, sub, mergeFailureContext(sub, errorText, status))
}

// NotifyAdminsMergeFailure sends the merge failure report to the site
// administrators.
func (n *ProfileNotifier) NotifyAdminsMergeFailure(ctx context.Context, sub *translation.SubProject, errorText, status string) error {
	if sub == nil {
		return notification.ErrMissingSubject
	}
	return n.sender.NotifyAdmins(ctx, notification.TemplateMergeFailure, sub, mergeFailureContext(sub, errorText, status))
}

func mergeFailureContext(sub *translation.SubProject, errorText, status string) map[string]any {
	return map[string]any{
		"subproject": sub,
		"error":      errorText,
		"status":     status,
	}
}
