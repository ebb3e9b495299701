package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/infrastructure/migration"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	opts := &bootstrap.Options{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, and inspect the current version.`,
	}
	opts.BindFlags(cmd)

	cmd.AddCommand(
		newUpCommand(opts),
		newDownCommand(opts),
		newStatusCommand(opts),
	)

	return cmd
}

func newUpCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations. MySQL databases in test and production use the versioned scripts; other setups are auto-migrated from the models.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Logger.Infow("running up migrations", "environment", app.Env)
			if err := app.Migrate(); err != nil {
				return err
			}

			app.Logger.Infow("migrations completed successfully")
			return nil
		},
	}
}

func newDownCommand(opts *bootstrap.Options) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of versioned migrations. Requires a MySQL database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("steps must be at least 1")
			}

			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Logger.Infow("running down migrations", "environment", app.Env, "steps", steps)

			if err := migration.NewGooseStrategy(app.Logger).MigrateDown(app.DB, steps); err != nil {
				return fmt.Errorf("down migration failed: %w", err)
			}

			app.Logger.Infow("down migration completed successfully")
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and the state of every versioned migration. Requires a MySQL database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			strategy := migration.NewGooseStrategy(app.Logger)

			version, err := strategy.GetVersion(app.DB)
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nMigration Status:\n")
			fmt.Fprintf(out, "  Environment:     %s\n", app.Env)
			fmt.Fprintf(out, "  Current Version: %d\n", version)

			if err := strategy.Status(app.DB); err != nil {
				return fmt.Errorf("failed to get detailed status: %w", err)
			}
			return nil
		},
	}
}
