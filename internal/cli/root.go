package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"taskdash/internal/api"
	"taskdash/internal/format"
	"taskdash/internal/store"
	"taskdash/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL  string
	Format  string
	Pretty  bool
	Timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdash",
		Short:        "Task-management dashboard (TUI + scriptable CLI) for the task API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  taskdash

  # Scriptable commands
  taskdash tasks list --user 1 --priority high
  taskdash tasks complete 42
  taskdash stats --user 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("TASKDASH_API_URL", ""), "Task API base URL (e.g. http://localhost:8000)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKDASH_FORMAT", "json"), "Output format (json|table)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 15*time.Second, "Per-request timeout")

	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newHealthCmd(app))

	return cmd
}

func (a *App) client() (*api.Client, error) {
	return api.New(api.Config{
		BaseURL:    a.APIURL,
		HTTPClient: &http.Client{Timeout: a.Timeout},
	})
}

func runTUI(app *App) error {
	client, err := app.client()
	if err != nil {
		return err
	}

	// The cache is best effort: run without it rather than fail the dashboard.
	var cache *store.Cache
	if path, err := store.DefaultPath(); err == nil {
		if c, err := store.Open(context.Background(), path); err == nil {
			cache = c
			defer cache.Close()
		} else {
			log.Printf("local cache unavailable: %v", err)
		}
	} else {
		log.Printf("local cache unavailable: %v", err)
	}

	return tui.Run(client, cache)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.Pretty)
}

func tableWanted(app *App) bool {
	return app.Format == "table"
}
