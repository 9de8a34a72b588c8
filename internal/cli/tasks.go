package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskdash/internal/api"
	"taskdash/internal/duefmt"
	"taskdash/internal/format"
	"taskdash/internal/model"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and mutate tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksCompleteCmd(app, true))
	cmd.AddCommand(newTasksCompleteCmd(app, false))
	cmd.AddCommand(newTasksPriorityCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var userID int
	var priority string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally scoped to a user and/or priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := api.TaskQuery{UserID: userID}
			if priority != "" {
				f, err := model.ParseFilter(priority)
				if err != nil {
					return err
				}
				q.Filter = f
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			tasks, err := client.Tasks(cmd.Context(), q)
			if err != nil {
				return err
			}
			if tableWanted(app) {
				now := time.Now()
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					rows = append(rows, []string{
						strconv.Itoa(t.ID),
						doneMark(t.Completed),
						string(t.Priority),
						t.Title,
						duefmt.Label(t.DueDate, now),
					})
				}
				return format.WriteTable(cmd.OutOrStdout(), []string{"ID", "DONE", "PRIORITY", "TITLE", "DUE"}, rows)
			}
			return writeOut(cmd, app, tasks)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "Only tasks owned by this user id")
	cmd.Flags().StringVar(&priority, "priority", "", "Only tasks with this priority (high|medium|low)")
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var userID int
	var draft model.TaskDraft
	var priority string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(draft.Title) == "" {
				return api.ValidationError{Field: "title", Reason: "must not be empty"}
			}
			if priority != "" {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return err
				}
				draft.Priority = p
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			task, err := client.CreateTask(cmd.Context(), userID, draft)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "Owner user id")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "", "Task priority (high|medium|low)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksCompleteCmd(app *App, done bool) *cobra.Command {
	use, short := "complete <task-id>", "Mark a task completed"
	if !done {
		use, short = "reopen <task-id>", "Mark a completed task pending again"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return api.ValidationError{Field: "task-id", Reason: "must be an integer"}
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			completed := done
			task, err := client.UpdateTask(cmd.Context(), id, model.TaskPatch{Completed: &completed})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
}

func newTasksPriorityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <task-id> <high|medium|low>",
		Short: "Change a task's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return api.ValidationError{Field: "task-id", Reason: "must be an integer"}
			}
			p, err := model.ParsePriority(args[1])
			if err != nil {
				return err
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			task, err := client.UpdateTask(cmd.Context(), id, model.TaskPatch{Priority: &p})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, task)
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return api.ValidationError{Field: "task-id", Reason: "must be an integer"}
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete task %d? [y/N] ", id)
				r := bufio.NewReader(cmd.InOrStdin())
				line, _ := r.ReadString('\n')
				if s := strings.ToLower(strings.TrimSpace(line)); s != "y" && s != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			client, err := app.client()
			if err != nil {
				return err
			}
			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func doneMark(completed bool) string {
	if completed {
		return "x"
	}
	return "-"
}
