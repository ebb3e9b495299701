package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	appnotification "github.com/verbatim-inc/verbatim/internal/application/notification"
	notificationUsecases "github.com/verbatim-inc/verbatim/internal/application/notification/usecases"
	apppermission "github.com/verbatim-inc/verbatim/internal/application/permission"
	profileUsecases "github.com/verbatim-inc/verbatim/internal/application/profile/usecases"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/config"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/database"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/email"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/i18n"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/migration"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/permission"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/repository"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/template"
	"github.com/verbatim-inc/verbatim/internal/shared/db"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
	"github.com/verbatim-inc/verbatim/internal/shared/services/markdown"
)

// Options are the flags shared by every command.
type Options struct {
	Env        string
	ConfigPath string
}

// BindFlags registers the shared flags on cmd.
func (o *Options) BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

func (o *Options) environment() string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return o.Env
}

// App holds the process-wide dependencies a command needs.
type App struct {
	Env    string
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB

	users    *repository.UserRepository
	profiles *repository.ProfileRepository
	enforcer *permission.Enforcer
	locale   *i18n.Service
}

// Init loads configuration, sets up logging and opens the database.
func Init(opts *Options) (*App, error) {
	env := opts.environment()

	cfg, err := config.Load(env, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log := logger.NewLogger()
	gormDB := database.Get()

	return &App{
		Env:      env,
		Config:   cfg,
		Logger:   log,
		DB:       gormDB,
		users:    repository.NewUserRepository(gormDB, log),
		profiles: repository.NewProfileRepository(gormDB, log),
	}, nil
}

func (a *App) Close() {
	if err := database.Close(); err != nil {
		a.Logger.Warnw("failed to close database", "error", err)
	}
	_ = logger.Sync()
}

// Migrate brings the schema up to date using the strategy for this
// environment.
func (a *App) Migrate() error {
	return migration.NewManager(a.Env, a.DB, a.Logger).Migrate(a.DB)
}

func (a *App) Users() *repository.UserRepository {
	return a.users
}

func (a *App) Profiles() *repository.ProfileRepository {
	return a.profiles
}

func (a *App) Enforcer() (*permission.Enforcer, error) {
	if a.enforcer != nil {
		return a.enforcer, nil
	}
	enforcer, err := permission.NewEnforcer(a.DB, a.Logger.Named("casbin"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize permission enforcer: %w", err)
	}
	a.enforcer = enforcer
	return enforcer, nil
}

func (a *App) Locale() (*i18n.Service, error) {
	if a.locale != nil {
		return a.locale, nil
	}
	locale, err := i18n.NewService(a.Config.Notification.DefaultLanguage, a.Config.Notification.Languages, a.Logger.Named("i18n"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize locales: %w", err)
	}
	a.locale = locale
	return locale, nil
}

func (a *App) PermissionService() (*apppermission.Service, error) {
	enforcer, err := a.Enforcer()
	if err != nil {
		return nil, err
	}
	groups, err := permission.DefaultGroups()
	if err != nil {
		return nil, err
	}
	return apppermission.NewService(
		enforcer,
		permission.NewProjectACL(enforcer, a.Logger),
		a.users,
		groups,
		a.Config.Permission.DefaultGroup,
		a.Logger.Named("permission"),
	), nil
}

func (a *App) RegisterUserUseCase() (*profileUsecases.RegisterUserUseCase, error) {
	permissions, err := a.PermissionService()
	if err != nil {
		return nil, err
	}
	return profileUsecases.NewRegisterUserUseCase(
		a.users,
		a.profiles,
		permissions,
		db.NewTransactionManager(a.DB),
		a.Logger.Named("profile"),
	), nil
}

func (a *App) EnsureProfileUseCase() (*profileUsecases.EnsureProfileUseCase, error) {
	locale, err := a.Locale()
	if err != nil {
		return nil, err
	}
	return profileUsecases.NewEnsureProfileUseCase(a.profiles, locale, a.Logger.Named("profile")), nil
}

func (a *App) UpdatePreferencesUseCase() *profileUsecases.UpdatePreferencesUseCase {
	return profileUsecases.NewUpdatePreferencesUseCase(a.profiles, a.Logger.Named("profile"))
}

// DispatchEventUseCase assembles the notification pipeline: subscriber
// matching, access checks, localized rendering and SMTP delivery.
func (a *App) DispatchEventUseCase() (*notificationUsecases.DispatchEventUseCase, error) {
	enforcer, err := a.Enforcer()
	if err != nil {
		return nil, err
	}
	locale, err := a.Locale()
	if err != nil {
		return nil, err
	}

	log := a.Logger.Named("notification")
	renderer := template.NewRenderer(
		template.NewMailTemplateLoader(a.Config.Notification.TemplatesPath, log),
		locale,
		markdown.NewMarkdownService(),
		a.Config.Site,
		log,
	)
	sender := appnotification.NewSender(
		appnotification.NewAccessGate(permission.NewProjectACL(enforcer, log), log),
		renderer,
		appnotification.NewDispatcher(email.NewSMTPTransport(a.Config.Email, log), a.Config.Email.SubjectPrefix, log),
		log,
	)

	return notificationUsecases.NewDispatchEventUseCase(
		a.profiles,
		a.users,
		appnotification.NewProfileNotifier(sender),
		a.Config.Notification.NotifyAdminsOnMergeFailure,
		log,
	), nil
}

// Redis connects to Redis and checks the connection.
func (a *App) Redis(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.GetAddr(),
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Logger.Infow("redis connection established", "address", a.Config.Redis.GetAddr())
	return client, nil
}
