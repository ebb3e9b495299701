package notification

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/constants"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// Sender renders and dispatches a single notification: gate first, then
// render in the recipient's language, then send.
type Sender struct {
	gate       *AccessGate
	renderer   Renderer
	dispatcher *Dispatcher
	logger     logger.Interface
}

func NewSender(gate *AccessGate, renderer Renderer, dispatcher *Dispatcher, logger logger.Interface) *Sender {
	return &Sender{
		gate:       gate,
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// NotifyUser mails p about subject. A user who may not see the subject,
// or has no address, is skipped without error.
func (s *Sender) NotifyUser(ctx context.Context, p *profile.Profile, template string, subject translation.Subject, data map[string]any) error {
	if p == nil {
		return profile.ErrProfileNotFound
	}
	if !s.gate.IsAuthorized(ctx, p, subject) {
		s.logger.Debugw("notification skipped, access denied",
			"template", template,
			"user_id", p.UserID(),
		)
		return nil
	}
	if p.Email() == "" {
		s.logger.Warnw("notification skipped, user has no email",
			"template", template,
			"user_id", p.UserID(),
		)
		return nil
	}

	req := &notification.Request{
		Language: p.Language(),
		To:       p.Email(),
		Template: template,
		Subject:  subject,
		Context:  data,
	}
	return s.send(ctx, req)
}

// NotifyAdmins mails the site administrators in the default language.
func (s *Sender) NotifyAdmins(ctx context.Context, template string, subject translation.Subject, data map[string]any) error {
	return s.send(ctx, &notification.Request{
		To:       constants.RecipientAdmins,
		Template: template,
		Subject:  subject,
		Context:  data,
	})
}

func (s *Sender) send(ctx context.Context, req *notification.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	rendered, err := s.renderer.Render(ctx, req.Language, req.Template, req.Subject, req.Context)
	if err != nil {
		return err
	}
	return s.dispatcher.Dispatch(ctx, req, rendered)
}
