package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprintforge/sprintforge/internal/engine"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints",
}

var sprintFlags struct {
	name         string
	start        string
	end          string
	productOwner string
	scrumMaster  string
	developers   []string
}

func addSprintDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sprintFlags.name, "name", "", "sprint name (default Sprint <n>)")
	cmd.Flags().StringVar(&sprintFlags.start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sprintFlags.end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sprintFlags.productOwner, "po", "", "product owner username")
	cmd.Flags().StringVar(&sprintFlags.scrumMaster, "sm", "", "scrum master username")
	cmd.Flags().StringSliceVar(&sprintFlags.developers, "devs", nil, "developer usernames")
}

func sprintDraftFromFlags() (engine.SprintDraft, error) {
	draft := engine.SprintDraft{
		Name:         sprintFlags.name,
		ProductOwner: sprintFlags.productOwner,
		ScrumMaster:  sprintFlags.scrumMaster,
		Developers:   sprintFlags.developers,
	}
	if sprintFlags.start != "" {
		start, err := parseDate(sprintFlags.start)
		if err != nil {
			return draft, err
		}
		draft.StartDate = start
	}
	if sprintFlags.end != "" {
		end, err := parseDate(sprintFlags.end)
		if err != nil {
			return draft, err
		}
		draft.EndDate = end
	}
	return draft, nil
}

var sprintAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a sprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := sprintDraftFromFlags()
		if err != nil {
			return err
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		sprint, err := eng.CreateSprint(draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created sprint #%d %q (%s to %s, %s)\n", sprint.ID, sprint.Name,
			sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"), sprint.Status)
		return nil
	},
}

var sprintEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a sprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sprint ID %q", args[0])
		}
		draft, err := sprintDraftFromFlags()
		if err != nil {
			return err
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		sprint, err := eng.EditSprint(id, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Sprint #%d %q saved (%s)\n", sprint.ID, sprint.Name, sprint.Status)
		return nil
	},
}

var sprintDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a sprint and return its open tasks to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sprint ID %q", args[0])
		}
		if !deleteConfirmed {
			return fmt.Errorf("deleting a sprint returns its open tasks to the backlog; re-run with --yes")
		}

		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()
		return eng.DeleteSprint(id)
	},
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		sprints := eng.Sprints()
		if len(sprints) == 0 {
			fmt.Println("No sprints yet.")
			return nil
		}
		for _, sp := range sprints {
			total, completed, err := eng.SprintSummary(sp.ID)
			if err != nil {
				return err
			}
			fmt.Printf("#%-3d %-20s %s to %s  %-9s  %d/%d points\n",
				sp.ID, sp.Name,
				sp.StartDate.Format("2006-01-02"), sp.EndDate.Format("2006-01-02"),
				sp.Status, completed, total)
		}
		return nil
	},
}

var sprintShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a sprint's team and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sprint ID %q", args[0])
		}
		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		sprint, err := eng.Sprint(id)
		if err != nil {
			return err
		}
		tasks, err := eng.ListSprintTasks(id)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", sprint.Name, sprint.Status)
		fmt.Printf("%s to %s, %d day(s)\n",
			sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"), sprint.Duration)
		fmt.Printf("PO: %s  SM: %s  Developers: %s\n",
			sprint.ProductOwner, sprint.ScrumMaster, strings.Join(sprint.Developers, ", "))
		fmt.Println()
		for _, t := range tasks {
			fmt.Printf("#%-3d %-30s %-12s %2dpt  %s\n",
				t.ID, t.Name, t.Status, t.StoryPoint, t.AssignTo)
		}
		return nil
	},
}

func init() {
	addSprintDraftFlags(sprintAddCmd)
	addSprintDraftFlags(sprintEditCmd)
	sprintDeleteCmd.Flags().BoolVar(&deleteConfirmed, "yes", false, "confirm the deletion")

	sprintCmd.AddCommand(sprintAddCmd, sprintEditCmd, sprintDeleteCmd,
		sprintListCmd, sprintShowCmd)
	rootCmd.AddCommand(sprintCmd)
}
