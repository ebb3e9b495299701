package groups

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	opts := &bootstrap.Options{}

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Permission group management",
		Long:  `Set up the default permission groups, manage group membership and project access lists.`,
	}
	opts.BindFlags(cmd)

	cmd.AddCommand(
		newSetupCommand(opts),
		newShowCommand(opts),
		newGrantCommand(opts),
		newRevokeCommand(opts),
	)

	return cmd
}

func newSetupCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		update bool
		move   bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the default permission groups",
		Long: `Create the default permission groups that do not exist yet.
With --update, permissions of existing groups are extended to the defaults.
With --move, every existing user is added to the Users group.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			service, err := app.PermissionService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			result, err := service.CreateGroups(ctx, update)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created groups: %s\n", joinOrNone(result.Created))
			if update {
				fmt.Fprintf(out, "Updated groups: %s\n", joinOrNone(result.Updated))
			}

			if move {
				moved, err := service.MoveUsers(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Users added to default group: %d\n", moved)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&update, "update", false, "Extend permissions of existing groups")
	cmd.Flags().BoolVar(&move, "move", false, "Add all existing users to the Users group")

	return cmd
}

func newShowCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "List the groups of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}

			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			service, err := app.PermissionService()
			if err != nil {
				return err
			}

			groups, err := service.Groups(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Groups: %s\n", joinOrNone(groups))
			return nil
		},
	}
}

func newGrantCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "grant <user-id> <project-slug>",
		Short: "Add a user to the access list of a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccess(cmd, opts, args, func(ctx context.Context, app *bootstrap.App, userID uint, slug string) error {
				service, err := app.PermissionService()
				if err != nil {
					return err
				}
				return service.GrantProjectAccess(ctx, userID, slug)
			})
		},
	}
}

func newRevokeCommand(opts *bootstrap.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user-id> <project-slug>",
		Short: "Remove a user from the access list of a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return changeAccess(cmd, opts, args, func(ctx context.Context, app *bootstrap.App, userID uint, slug string) error {
				service, err := app.PermissionService()
				if err != nil {
					return err
				}
				return service.RevokeProjectAccess(ctx, userID, slug)
			})
		},
	}
}

func changeAccess(
	cmd *cobra.Command,
	opts *bootstrap.Options,
	args []string,
	fn func(ctx context.Context, app *bootstrap.App, userID uint, slug string) error,
) error {
	userID, err := parseUserID(args[0])
	if err != nil {
		return err
	}

	app, err := bootstrap.Init(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(cmd.Context(), app, userID, args[1])
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return uint(id), nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
