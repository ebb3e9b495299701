package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appnotification "github.com/verbatim-inc/verbatim/internal/application/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/i18n"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/permission"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/persistence/models"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/repository"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/template"
	"github.com/verbatim-inc/verbatim/internal/shared/config"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
	"github.com/verbatim-inc/verbatim/internal/shared/services/markdown"
)

type captureTransport struct {
	sent []*notification.Mail
}

func (c *captureTransport) Send(ctx context.Context, mail *notification.Mail) error {
	c.sent = append(c.sent, mail)
	return nil
}

func (c *captureTransport) MailAdmins(ctx context.Context, mail *notification.Mail) error {
	c.sent = append(c.sent, mail)
	return nil
}

type pipeline struct {
	ctx       context.Context
	users     *repository.UserRepository
	profiles  *repository.ProfileRepository
	acl       *permission.ProjectACL
	transport *captureTransport
	uc        *DispatchEventUseCase
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := logger.NewDiscard()

	enforcer, err := permission.NewEnforcer(db, log)
	require.NoError(t, err)
	locale, err := i18n.NewService("en", []string{"cs", "de"}, log)
	require.NoError(t, err)

	p := &pipeline{
		ctx:       context.Background(),
		users:     repository.NewUserRepository(db, log),
		profiles:  repository.NewProfileRepository(db, log),
		acl:       permission.NewProjectACL(enforcer, log),
		transport: &captureTransport{},
	}

	renderer := template.NewRenderer(
		template.NewMailTemplateLoader("", log),
		locale,
		markdown.NewMarkdownService(),
		config.SiteConfig{Domain: "translate.example.org", Scheme: "https"},
		log,
	)
	sender := appnotification.NewSender(
		appnotification.NewAccessGate(p.acl, log),
		renderer,
		appnotification.NewDispatcher(p.transport, "[Verbatim] ", log),
		log,
	)
	p.uc = NewDispatchEventUseCase(p.profiles, p.users, appnotification.NewProfileNotifier(sender), false, log)
	return p
}

func (p *pipeline) subscriber(t *testing.T, name, language string, tracks []string, projects []uint, flags profile.Flags) *profile.Profile {
	t.Helper()
	u, err := user.NewUser(name, name+"@example.org")
	require.NoError(t, err)
	require.NoError(t, p.users.Create(p.ctx, u))

	prof, _, err := p.profiles.GetOrCreate(p.ctx, u, language)
	require.NoError(t, err)
	require.NoError(t, prof.SetLanguages(tracks))
	require.NoError(t, prof.SetSubscriptions(projects))
	prof.SetFlags(flags)
	require.NoError(t, p.profiles.Update(p.ctx, prof))
	return prof
}

func newStringEvent(project *translation.Project) *notification.Event {
	sub := &translation.SubProject{ID: 2, Slug: "master", Name: "Master", Project: project}
	return &notification.Event{
		Kind: notification.EventNewString,
		Translation: &translation.Translation{
			ID:         3,
			SubProject: sub,
			Language:   &translation.Language{Code: "cs", Name: "Czech"},
		},
	}
}

func TestDispatchEvent_NewStringEndToEnd(t *testing.T) {
	p := newPipeline(t)
	project := &translation.Project{ID: 10, Slug: "hello", Name: "Hello"}

	p.subscriber(t, "petr", "cs", []string{"cs"}, []uint{10}, profile.Flags{NewString: true})
	p.subscriber(t, "hans", "de", []string{"de"}, []uint{10}, profile.Flags{NewString: true})
	p.subscriber(t, "quiet", "cs", []string{"cs"}, []uint{10}, profile.Flags{NewSuggestion: true})
	p.subscriber(t, "elsewhere", "cs", []string{"cs"}, []uint{11}, profile.Flags{NewString: true})

	require.NoError(t, p.uc.Execute(p.ctx, newStringEvent(project)))

	require.Len(t, p.transport.sent, 1)
	mail := p.transport.sent[0]
	assert.Equal(t, []string{"petr@example.org"}, mail.To)
	assert.Equal(t, "[Verbatim] Nový řetězec k překladu v Hello/Master - Czech", mail.Subject)
	assert.Contains(t, mail.Body, "https://translate.example.org/projects/hello/master/cs/")
	assert.Contains(t, mail.HTMLBody, "Dobrý den,")
}

func TestDispatchEvent_ProjectACLEndToEnd(t *testing.T) {
	p := newPipeline(t)
	project := &translation.Project{ID: 10, Slug: "secret", Name: "Secret", EnableACL: true}

	prof := p.subscriber(t, "petr", "en", []string{"cs"}, []uint{10}, profile.Flags{NewString: true})

	require.NoError(t, p.uc.Execute(p.ctx, newStringEvent(project)))
	assert.Empty(t, p.transport.sent, "no access, no mail")

	require.NoError(t, p.acl.Grant(p.ctx, prof.UserID(), "secret"))
	require.NoError(t, p.uc.Execute(p.ctx, newStringEvent(project)))

	require.Len(t, p.transport.sent, 1)
	assert.Equal(t, "[Verbatim] New string to translate in Secret/Master - Czech", p.transport.sent[0].Subject)
}
