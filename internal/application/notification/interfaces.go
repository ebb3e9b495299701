package notification

import (
	"context"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
)

// MailTransport delivers rendered mail.
type MailTransport interface {
	Send(ctx context.Context, mail *notification.Mail) error
	MailAdmins(ctx context.Context, mail *notification.Mail) error
}

// Renderer renders a mail template family in a given language.
type Renderer interface {
	Render(ctx context.Context, language, name string, subject translation.Subject, data map[string]any) (*notification.Rendered, error)
}

// ProjectAccess answers project visibility questions for the access gate.
type ProjectAccess interface {
	CanView(ctx context.Context, userID uint, project *translation.Project) (bool, error)
}
