package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprintforge/sprintforge/internal/engine"
	"github.com/sprintforge/sprintforge/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskFlags struct {
	name        string
	taskType    string
	description string
	priority    string
	storyPoint  int
	stage       string
	tags        []string
	assignTo    string
	sprintID    int
	status      string
}

func addTaskDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&taskFlags.name, "name", "", "task name")
	cmd.Flags().StringVar(&taskFlags.taskType, "type", "", "task type (Story or Bug)")
	cmd.Flags().StringVar(&taskFlags.description, "description", "", "task description")
	cmd.Flags().StringVar(&taskFlags.priority, "priority", "", "priority (Low, Medium, Important, Urgent)")
	cmd.Flags().IntVar(&taskFlags.storyPoint, "points", 0, "story point estimate (1-10)")
	cmd.Flags().StringVar(&taskFlags.stage, "stage", "", "stage (Planning, Development, Testing, Implementation)")
	cmd.Flags().StringSliceVar(&taskFlags.tags, "tags", nil, "tags ("+strings.Join(models.Tags, ", ")+")")
	cmd.Flags().StringVar(&taskFlags.assignTo, "assign", "", "assignee username")
	cmd.Flags().IntVar(&taskFlags.sprintID, "sprint", 0, "sprint ID (0 keeps the task in the backlog)")
	cmd.Flags().StringVar(&taskFlags.status, "status", "", "workflow status (sprint tasks only)")
}

func taskDraftFromFlags() engine.TaskDraft {
	draft := engine.TaskDraft{
		Name:        taskFlags.name,
		Type:        models.TaskType(taskFlags.taskType),
		Description: taskFlags.description,
		Priority:    models.Priority(taskFlags.priority),
		StoryPoint:  taskFlags.storyPoint,
		Stage:       models.Stage(taskFlags.stage),
		Tags:        taskFlags.tags,
		AssignTo:    taskFlags.assignTo,
		Status:      models.TaskStatus(taskFlags.status),
	}
	if taskFlags.sprintID > 0 {
		id := taskFlags.sprintID
		draft.SprintID = &id
	}
	return draft
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := eng.CreateTask(taskDraftFromFlags())
		if err != nil {
			return err
		}
		fmt.Printf("Created task #%d %q\n", task.ID, task.Name)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task (all fields are replaced with the flag values)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := eng.EditTask(id, taskDraftFromFlags())
		if err != nil {
			return err
		}
		fmt.Printf("Task #%d %q saved\n", task.ID, task.Name)
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a sprint task's workflow status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := eng.SetTaskStatus(id, models.TaskStatus(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Task #%d %q is now %s\n", task.ID, task.Name, task.Status)
		return nil
	},
}

var contributionDate string

var taskLogCmd = &cobra.Command{
	Use:   "log <id> <minutes>",
	Short: "Log contributed time against a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration %q", args[1])
		}
		date := time.Now()
		if contributionDate != "" {
			date, err = parseDate(contributionDate)
			if err != nil {
				return err
			}
		}

		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := eng.AddContribution(id, date, minutes)
		if err != nil {
			return err
		}
		fmt.Printf("Logged %d minute(s) on #%d %q for %s\n", minutes, task.ID, task.Name, task.AssignTo)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}
		if !deleteConfirmed {
			return fmt.Errorf("deleting a task discards its history and contributions; re-run with --yes")
		}

		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()
		return eng.DeleteTask(id)
	},
}

var (
	listSort   string
	listFilter []string
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backlog tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		tasks := eng.ListBacklogTasks(engine.SortOption(listSort), listFilter)
		if len(tasks) == 0 {
			fmt.Println("No tasks in the backlog.")
			return nil
		}
		for _, t := range tasks {
			fmt.Printf("#%-3d %-30s %-10s %2dpt  %-6s %s\n",
				t.ID, t.Name, t.Priority, t.StoryPoint, t.Type, strings.Join(t.Tags, ","))
		}
		return nil
	},
}

var taskHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a task's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		task, err := eng.Task(id)
		if err != nil {
			return err
		}
		for _, entry := range task.History {
			line := fmt.Sprintf("%s  %s", entry.Timestamp.Format("2006-01-02 15:04"), entry.Action)
			if entry.AssignTo != "" {
				line += "  (" + entry.AssignTo + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

// parseDate accepts YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func init() {
	addTaskDraftFlags(taskAddCmd)
	addTaskDraftFlags(taskEditCmd)
	taskLogCmd.Flags().StringVar(&contributionDate, "date", "", "contribution date (YYYY-MM-DD, default today)")
	taskDeleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "confirm the deletion")
	taskListCmd.Flags().StringVar(&listSort, "sort", string(engine.SortNewestFirst), "sort order")
	taskListCmd.Flags().StringSliceVar(&listFilter, "tags", nil, "only show tasks carrying every given tag")

	taskCmd.AddCommand(taskAddCmd, taskEditCmd, taskStatusCmd, taskLogCmd,
		taskDeleteCmd, taskListCmd, taskHistoryCmd)
	rootCmd.AddCommand(taskCmd)
}
