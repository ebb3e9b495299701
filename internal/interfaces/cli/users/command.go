package users

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verbatim-inc/verbatim/internal/application/profile/usecases"
	"github.com/verbatim-inc/verbatim/internal/domain/profile"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/interfaces/cli/bootstrap"
)

func NewCommand() *cobra.Command {
	opts := &bootstrap.Options{}

	cmd := &cobra.Command{
		Use:   "users",
		Short: "User and profile management",
		Long:  `Register users, create missing profiles and edit notification preferences.`,
	}
	opts.BindFlags(cmd)

	cmd.AddCommand(
		newAddCommand(opts),
		newProfileCommand(opts),
		newPreferencesCommand(opts),
	)

	return cmd
}

func newAddCommand(opts *bootstrap.Options) *cobra.Command {
	var (
		username  string
		email     string
		firstName string
		lastName  string
		language  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new user",
		Long:  `Create a user account, store its name, create its profile and add it to the default group.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			u, err := user.NewUser(username, email)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.Users().Create(ctx, u); err != nil {
				return err
			}

			register, err := app.RegisterUserUseCase()
			if err != nil {
				return err
			}
			result, err := register.Execute(ctx, usecases.RegisterUserRequest{
				UserID:    u.ID(),
				FirstName: firstName,
				LastName:  lastName,
				Language:  language,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %s (id %d)\n", result.User.DisplayName(), result.User.ID())
			if !result.InDefaultGroup {
				fmt.Fprintln(out, "Default group does not exist yet, run \"groups setup\"")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&email, "email", "", "E-mail address (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&language, "language", "", "Interface language")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newProfileCommand(opts *bootstrap.Options) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Show the profile of a user, creating it when missing",
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

			ctx := cmd.Context()
			u, err := app.Users().GetByID(ctx, userID)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("user %d not found", userID)
			}

			ensure, err := app.EnsureProfileUseCase()
			if err != nil {
				return err
			}
			result, err := ensure.Execute(ctx, u, language)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Notice != "" {
				fmt.Fprintln(out, result.Notice)
			}
			printProfile(out, result.Profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Interface language for a newly created profile")

	return cmd
}

func newPreferencesCommand(opts *bootstrap.Options) *cobra.Command {
	var req usecases.UpdatePreferencesRequest

	cmd := &cobra.Command{
		Use:   "preferences <user-id>",
		Short: "Replace the notification preferences of a user",
		Long: `Replace languages, project subscriptions and notification categories of a profile.
Categories not listed with --notify are switched off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			req.UserID = userID

			app, err := bootstrap.Init(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.UpdatePreferencesUseCase().Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Language, "language", "", "Interface language (empty keeps the current one)")
	cmd.Flags().StringSliceVar(&req.Languages, "languages", nil, "Translated languages")
	cmd.Flags().StringSliceVar(&req.SecondaryLanguages, "secondary-languages", nil, "Secondary languages")
	cmd.Flags().UintSliceVar(&req.Subscriptions, "subscriptions", nil, "Subscribed project IDs")
	cmd.Flags().StringSliceVar(&req.Notifications, "notify", nil, "Notification categories to opt into")

	return cmd
}

func printProfile(out io.Writer, p *profile.Profile) {
	var categories []string
	for _, c := range profile.AllCategories() {
		if p.Wants(c) {
			categories = append(categories, c.String())
		}
	}

	subscriptions := make([]string, 0, len(p.Subscriptions()))
	for _, id := range p.Subscriptions() {
		subscriptions = append(subscriptions, strconv.FormatUint(uint64(id), 10))
	}

	fmt.Fprintf(out, "Profile:             %s\n", p.DisplayName())
	fmt.Fprintf(out, "  Language:          %s\n", orNone(p.Language()))
	fmt.Fprintf(out, "  Languages:         %s\n", orNone(strings.Join(p.Languages(), ", ")))
	fmt.Fprintf(out, "  Secondary:         %s\n", orNone(strings.Join(p.SecondaryLanguages(), ", ")))
	fmt.Fprintf(out, "  Subscriptions:     %s\n", orNone(strings.Join(subscriptions, ", ")))
	fmt.Fprintf(out, "  Notifications:     %s\n", orNone(strings.Join(categories, ", ")))
}

func parseUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return uint(id), nil
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
