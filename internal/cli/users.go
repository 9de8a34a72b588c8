package cli

import (
	"strconv"

	"taskdash/internal/api"
	"taskdash/internal/format"
	"taskdash/internal/model"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and create users",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersShowCmd(app))
	cmd.AddCommand(newUsersCreateCmd(app))
	return cmd
}

func newUsersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return api.ValidationError{Field: "user-id", Reason: "must be an integer"}
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			user, err := client.User(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, user)
		},
	}
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users (API order)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			users, err := client.Users(cmd.Context())
			if err != nil {
				return err
			}
			if tableWanted(app) {
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{strconv.Itoa(u.ID), u.Username, u.Email})
				}
				return format.WriteTable(cmd.OutOrStdout(), []string{"ID", "USERNAME", "EMAIL"}, rows)
			}
			return writeOut(cmd, app, users)
		},
	}
}

func newUsersCreateCmd(app *App) *cobra.Command {
	var draft model.UserDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			user, err := client.CreateUser(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, user)
		},
	}
	cmd.Flags().StringVar(&draft.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&draft.Username, "username", "", "Username")
	cmd.Flags().StringVar(&draft.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
