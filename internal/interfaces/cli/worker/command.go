package worker

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/pubsub"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
	"github.com/verbatim-inc/verbatim/internal/shared/version"
)

func NewCommand() *cobra.Command {
	opts := &bootstrap.Options{}
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start the notification worker",
		Long:  `Subscribe to translation events and send notification mails to matching subscribers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts, autoMigrate)
		},
	}

	opts.BindFlags(cmd)
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

// Run processes translation events until SIGINT or SIGTERM.
func Run(ctx context.Context, opts *bootstrap.Options, autoMigrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.Init(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	log := app.Logger.Named("worker")
	log.Infow("starting notification worker",
		"environment", app.Env,
		"version", version.Version,
		"auto_migrate", autoMigrate,
	)

	if autoMigrate {
		if err := app.Migrate(); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	dispatch, err := app.DispatchEventUseCase()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := app.Redis(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	bus := pubsub.NewRedisTranslationEventBus(client, log)

	// Subscribe returns after in-flight deliveries finish, before the
	// deferred Redis and database closes run
	err = bus.Subscribe(ctx, func(ctx context.Context, event *notification.Event) {
		if err := dispatch.Execute(ctx, event); err != nil {
			log.Errorw("failed to dispatch translation event",
				"event_id", event.ID,
				"kind", event.Kind,
				"error", err,
			)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Infow("notification worker stopped")
	return nil
}
