package cli

import (
	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/viewstate"

	"github.com/spf13/cobra"
)

// statsReport combines the locally derived snapshot counts with the
// server-side completed count so the two can be cross-checked.
type statsReport struct {
	model.Stats
	ServerCompleted int  `json:"server_completed"`
	UserID          *int `json:"user_id,omitempty"`
}

func newStatsCmd(app *App) *cobra.Command {
	var userID int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts (total, completed, pending)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			tasks, err := client.Tasks(ctx, api.TaskQuery{UserID: userID})
			if err != nil {
				return err
			}
			server, err := client.CompletedStats(ctx, userID)
			if err != nil {
				return err
			}

			return writeOut(cmd, app, statsReport{
				Stats:           viewstate.ComputeStats(tasks),
				ServerCompleted: server.CompletedTasks,
				UserID:          server.UserID,
			})
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "Only count tasks owned by this user id")
	return cmd
}
