package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/events"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/groups"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/migrate"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/users"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/worker"
	"github.com/verbatim-inc/verbatim/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "verbatim",
		Short:   "Verbatim - translation notifications",
		Long:    `Verbatim manages translator profiles and subscriptions and mails localized notifications about translation activity.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(
		worker.NewCommand(),
		migrate.NewCommand(),
		groups.NewCommand(),
		users.NewCommand(),
		events.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
