package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
)

// Dispatcher turns a rendered notification into mail and hands it to the
// transport. Sends are synchronous and transport errors are returned.
type Dispatcher struct {
	transport     MailTransport
	subjectPrefix string
	logger        logger.Interface
}

func NewDispatcher(transport MailTransport, subjectPrefix string, logger logger.Interface) *Dispatcher {
	return &Dispatcher{
		transport:     transport,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}
}

// Dispatch sends rendered to req.To. The admin sentinel goes out as an
// admin broadcast, which applies its own prefix and sender.
func (d *Dispatcher) Dispatch(ctx context.Context, req *notification.Request, rendered *notification.Rendered) error {
	if err := req.Validate(); err != nil {
		return err
	}

	mail := &notification.Mail{
		From:     req.From,
		Subject:  singleLine(rendered.Subject),
		Body:     rendered.Body,
		HTMLBody: rendered.HTMLBody,
		Headers:  notification.StampHeaders(req.Headers),
	}

	d.logger.Infow("sending notification",
		"template", req.Template,
		"subject", req.Subject.String(),
		"to", req.To,
	)

	if req.IsForAdmins() {
		if err := d.transport.MailAdmins(ctx, mail); err != nil {
			return fmt.Errorf("failed to send %s to admins: %w", req.Template, err)
		}
		return nil
	}

	mail.To = []string{req.To}
	mail.Subject = d.subjectPrefix + mail.Subject
	if err := d.transport.Send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send %s to %s: %w", req.Template, req.To, err)
	}
	return nil
}

// singleLine trims the subject and folds any line breaks, which are not
// allowed in a header.
func singleLine(subject string) string {
	return strings.Join(strings.Fields(subject), " ")
}
