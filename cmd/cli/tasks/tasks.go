package tasks

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fmoreau/taskdeck/cmd/cli/client"
	"github.com/fmoreau/taskdeck/cmd/cli/output"
)

// InitTasks registers task-related CLI commands on the root command.
func InitTasks(rootCmd *cobra.Command) {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks",
	}

	tasksCmd.AddCommand(
		listTasksCmd(),
		createTaskCmd(),
		getTaskCmd(),
		doneTaskCmd(),
		rmTaskCmd(),
	)

	rootCmd.AddCommand(tasksCmd)
}

type taskView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func statusOf(t taskView) string {
	if t.Completed {
		return "done"
	}
	return "open"
}

func listTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Tasks []taskView `json:"tasks"`
			}
			if err := client.Do(http.MethodGet, "/tasks", nil, &out, true); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Tasks))
			for _, t := range out.Tasks {
				rows = append(rows, []interface{}{
					t.ID, t.Title, statusOf(t), t.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable([]string{"ID", "Title", "Status", "Created"}, rows)
			return nil
		},
	}
}

func createTaskCmd() *cobra.Command {
	var title, description string
	var completed bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string   `json:"message"`
				Task    taskView `json:"task"`
			}
			payload := map[string]any{
				"title":       title,
				"description": description,
				"completed":   completed,
			}
			if err := client.Do(http.MethodPost, "/tasks", payload, &out, true); err != nil {
				return err
			}
			fmt.Printf("%s (id %s)\n", out.Message, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().BoolVar(&completed, "completed", false, "mark as already completed")
	cmd.MarkFlagRequired("title")

	return cmd
}

func getTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Task taskView `json:"task"`
			}
			if err := client.Do(http.MethodGet, "/tasks/"+args[0], nil, &out, true); err != nil {
				return err
			}

			t := out.Task
			fmt.Printf("%s [%s]\n", t.Title, statusOf(t))
			if t.Description != "" {
				fmt.Println(t.Description)
			}
			fmt.Printf("created %s, updated %s\n",
				t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func doneTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string   `json:"message"`
				Task    taskView `json:"task"`
			}
			payload := map[string]any{"completed": true}
			if err := client.Do(http.MethodPut, "/tasks/"+args[0], payload, &out, true); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", out.Message, out.Task.Title)
			return nil
		},
	}
}

func rmTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Message string `json:"message"`
			}
			if err := client.Do(http.MethodDelete, "/tasks/"+args[0], nil, &out, true); err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}
}
