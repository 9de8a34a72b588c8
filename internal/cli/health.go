package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the task API is reachable and healthy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			h, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeOut(cmd, app, h); err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("api reports status %q", h.Status)
			}
			return nil
		},
	}
}
