// Package notification defines the ephemeral values that flow through the
// notification pipeline: the request for one recipient and the rendered
// mail handed to the transport.
package notification

import (
	"errors"
	"maps"
	"strings"

	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/constants"
	"github.com/verbatim-inc/verbatim/internal/shared/version"
)

// Template names. Each resolves to mail/<name>_subject.txt, mail/<name>.txt
// and mail/<name>.html.
const (
	TemplateChangedTranslation = "changed_translation"
	TemplateNewTranslation     = "new_translation"
	TemplateNewString          = "new_string"
	TemplateNewSuggestion      = "new_suggestion"
	TemplateNewContributor     = "new_contributor"
	TemplateNewComment         = "new_comment"
	TemplateMergeFailure       = "merge_failure"
)

var (
	ErrMissingRecipient = errors.New("notification recipient is required")
	ErrMissingTemplate  = errors.New("notification template is required")
	ErrMissingSubject   = errors.New("notification subject entity is required")
)

// Request is a single notification for one recipient. It is built per
// dispatch and discarded after sending.
type Request struct {
	// Language is the locale the mail is rendered in.
	Language string
	// To is an address or RecipientAdmins.
	To       string
	Template string
	Subject  translation.Subject
	Context  map[string]any
	Headers  map[string]string
	// From overrides the configured sender when set.
	From string
}

// IsForAdmins reports whether the request targets the site administrators.
func (r *Request) IsForAdmins() bool {
	return r.To == constants.RecipientAdmins
}

func (r *Request) Validate() error {
	if strings.TrimSpace(r.To) == "" {
		return ErrMissingRecipient
	}
	if r.Template == "" {
		return ErrMissingTemplate
	}
	if r.Subject == nil {
		return ErrMissingSubject
	}
	return nil
}

// Rendered is a notification rendered in one language, before addressing.
type Rendered struct {
	Subject  string
	Body     string
	HTMLBody string
}

// Mail is a rendered message ready for the transport. Body is the primary
// text/plain part and HTMLBody the text/html alternative.
type Mail struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
	Headers  map[string]string
}

// StampHeaders returns a copy of headers with the automated-mail markers
// set. The markers always win over caller supplied values.
func StampHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+4)
	maps.Copy(out, headers)
	out[constants.HeaderAutoSubmitted] = "auto-generated"
	out[constants.HeaderAutoGenerated] = "yes"
	out[constants.HeaderPrecedence] = "bulk"
	out[constants.HeaderMailer] = version.Mailer()
	return out
}
