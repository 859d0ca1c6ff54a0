package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/motivatr/pkg/client"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

func init() {
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)

	taskListCmd.Flags().String("status", "", "filter by column (ideas, todo, inprogress, completed)")
	taskAddCmd.Flags().String("status", client.StatusIdeas, "board column for the new task")
	taskAddCmd.Flags().String("priority", "", "priority (low, medium, high)")
	taskAddCmd.Flags().String("due", "", "due date, RFC3339 or YYYY-MM-DD")
	taskAddCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		tasks, err := api().ListTasks(cmd.Context(), userEmail)
		if err != nil {
			return err
		}

		statusFilter, _ := cmd.Flags().GetString("status")

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
		for _, t := range tasks {
			if statusFilter != "" && t.Status != statusFilter {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				shortID(t.ID), t.Status, t.Priority, formatDue(t.DueDate), t.Title)
		}
		return w.Flush()
	},
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Long: `Create a task on your board.

Examples:
  motivatr task add "write report" --due 2026-09-01 --priority high
  motivatr task add "someday idea"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		tags, _ := cmd.Flags().GetStringSlice("tags")

		t := &client.Task{
			Title:      strings.Join(args, " "),
			Status:     status,
			Priority:   priority,
			Tags:       tags,
			OwnerEmail: userEmail,
		}

		if due, _ := cmd.Flags().GetString("due"); due != "" {
			parsed, err := parseDue(due)
			if err != nil {
				return err
			}
			t.DueDate = &parsed
		}

		created, err := api().CreateTask(cmd.Context(), t)
		if err != nil {
			return err
		}
		fmt.Printf("created %s: %s\n", shortID(created.ID), created.Title)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(cmd, args[0])
		if err != nil {
			return err
		}
		moved, err := api().MoveTask(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("moved %s to %s\n", shortID(moved.ID), moved.Status)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(cmd, args[0])
		if err != nil {
			return err
		}
		done, err := api().CompleteTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("completed %s: %s\n", shortID(done.ID), done.Title)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(cmd, args[0])
		if err != nil {
			return err
		}
		if err := api().DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", shortID(id))
		return nil
	},
}

// resolveID expands a short ID prefix to the full task ID, listing the user's
// tasks when needed.
func resolveID(cmd *cobra.Command, prefix string) (string, error) {
	if len(prefix) >= 36 {
		return prefix, nil
	}
	if err := requireUser(); err != nil {
		return "", err
	}

	tasks, err := api().ListTasks(cmd.Context(), userEmail)
	if err != nil {
		return "", err
	}

	var match string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("task ID prefix %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no task with ID prefix %q", prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseDue(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse due date %q (want RFC3339 or YYYY-MM-DD)", s)
	}
	// Due dates without a time land at end of day, not midnight.
	return t.Add(23*time.Hour + 59*time.Minute), nil
}
