package events

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/pubsub"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	opts := &bootstrap.Options{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Translation event tools",
		Long:  `Publish translation events to the notification workers or dispatch them in-process.`,
	}
	opts.BindFlags(cmd)

	cmd.AddCommand(
		newPublishCommand(opts),
		newDispatchCommand(opts),
	)

	return cmd
}

func newPublishCommand(opts *bootstrap.Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a translation event to Redis",
		Long:  `Read a JSON encoded translation event and publish it for the notification workers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := readEvent(cmd, file)
			if err != nil {
				return err
			}

			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			client, err := app.Redis(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			bus := pubsub.NewRedisTranslationEventBus(client, app.Logger)
			if err := bus.Publish(ctx, event); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Published %s event %s\n", event.Kind, event.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Event file, - reads standard input")

	return cmd
}

func newDispatchCommand(opts *bootstrap.Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send notifications for a translation event",
		Long:  `Read a JSON encoded translation event and notify its subscribers without going through Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := readEvent(cmd, file)
			if err != nil {
				return err
			}

			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			dispatch, err := app.DispatchEventUseCase()
			if err != nil {
				return err
			}
			return dispatch.Execute(cmd.Context(), event)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Event file, - reads standard input")

	return cmd
}

func readEvent(cmd *cobra.Command, file string) (*notification.Event, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	return pubsub.DecodeEvent(data)
}
