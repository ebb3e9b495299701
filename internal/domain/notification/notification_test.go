package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/shared/version"
)

func TestStampHeaders(t *testing.T) {
	in := map[string]string{
		"X-Mailer":   "Custom 0.1",
		"Precedence": "list",
		"X-Tracking": "keep-me",
	}

	out := StampHeaders(in)

	assert.Equal(t, version.Mailer(), out["X-Mailer"])
	assert.Equal(t, "bulk", out["Precedence"])
	assert.Equal(t, "auto-generated", out["Auto-Submitted"])
	assert.Equal(t, "yes", out["X-AutoGenerated"])
	assert.Equal(t, "keep-me", out["X-Tracking"])
	assert.Equal(t, "Custom 0.1", in["X-Mailer"], "input is not modified")

	assert.Len(t, StampHeaders(nil), 4)
}

func TestRequest_Validate(t *testing.T) {
	subject := &translation.Project{Slug: "hello"}

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{name: "valid", req: Request{To: "a@example.org", Template: TemplateNewString, Subject: subject}},
		{name: "admins", req: Request{To: "ADMINS", Template: TemplateMergeFailure, Subject: subject}},
		{name: "no recipient", req: Request{Template: TemplateNewString, Subject: subject}, want: ErrMissingRecipient},
		{name: "no template", req: Request{To: "a@example.org", Subject: subject}, want: ErrMissingTemplate},
		{name: "no subject", req: Request{To: "a@example.org", Template: TemplateNewString}, want: ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.True(t, (&Request{To: "ADMINS"}).IsForAdmins())
	assert.False(t, (&Request{To: "admins@example.org"}).IsForAdmins())
}
