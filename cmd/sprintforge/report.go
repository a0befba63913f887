package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sprintforge/sprintforge/internal/analytics"
	"github.com/sprintforge/sprintforge/pkg/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Statistics reports",
}

var burndownCmd = &cobra.Command{
	Use:   "burndown <sprint-id>",
	Short: "Print a sprint's burndown table",
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

		points := analytics.Burndown(sprint, tasks)
		fmt.Printf("Burndown for %s (%s to %s)\n\n", sprint.Name,
			sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02"))
		fmt.Printf("%-12s %8s %8s\n", "Day", "Ideal", "Actual")
		for _, p := range points {
			line := fmt.Sprintf("%-12s %8.1f %8.1f", p.Date.Format("2006-01-02"), p.Ideal, p.Actual)
			// Ahead of or on the ideal line prints green, behind prints red.
			if p.Actual > p.Ideal {
				color.Red(line)
			} else {
				color.Green(line)
			}
		}
		return nil
	},
}

var (
	contribStart string
	contribEnd   string
	contribUser  string
)

var contributionsCmd = &cobra.Command{
	Use:   "contributions",
	Short: "Print average contribution hours per member over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if contribStart == "" || contribEnd == "" {
			return fmt.Errorf("--start and --end are required")
		}
		start, err := parseDate(contribStart)
		if err != nil {
			return err
		}
		end, err := parseDate(contribEnd)
		if err != nil {
			return err
		}

		eng, _, cleanup, err := openEngine()
		if err != nil {
			return err
		}
		defer cleanup()

		tasks := eng.Tasks()

		if contribUser != "" {
			return printMemberChart(tasks, contribUser, start, end)
		}

		rows, err := analytics.AverageContributions(tasks, eng.Users(), start, end)
		if err != nil {
			return err
		}
		fmt.Printf("Average hours per day, %s to %s\n\n", contribStart, contribEnd)
		for _, row := range rows {
			line := fmt.Sprintf("%-20s %6.2f h/day", row.Username, row.AverageHours)
			switch {
			case row.AverageHours >= 8:
				color.Red(line)
			case row.AverageHours >= 4:
				color.Yellow(line)
			default:
				color.Green(line)
			}
		}
		return nil
	},
}

// printMemberChart renders one member's daily hours as a bar chart, clipped
// to the requested range.
func printMemberChart(tasks []*models.Task, username string, start, end time.Time) error {
	days := analytics.MemberContributionChart(tasks, username)
	startDay := start.Format("2006-01-02")
	endDay := end.Format("2006-01-02")

	fmt.Printf("Daily hours for %s, %s to %s\n\n", username, startDay, endDay)
	printed := 0
	for _, day := range days {
		if day.Date < startDay || day.Date > endDay {
			continue
		}
		bar := strings.Repeat("█", int(day.Hours*2))
		line := fmt.Sprintf("%s %6.2f h  %s", day.Date, day.Hours, bar)
		if day.Hours >= 8 {
			color.Red(line)
		} else {
			color.Cyan(line)
		}
		printed++
	}
	if printed == 0 {
		fmt.Println("No contributions in range.")
	}
	return nil
}

func init() {
	contributionsCmd.Flags().StringVar(&contribStart, "start", "", "range start (YYYY-MM-DD)")
	contributionsCmd.Flags().StringVar(&contribEnd, "end", "", "range end (YYYY-MM-DD)")
	contributionsCmd.Flags().StringVar(&contribUser, "user", "", "show one member's daily chart instead of the averages")

	reportCmd.AddCommand(burndownCmd, contributionsCmd)
	rootCmd.AddCommand(reportCmd)
}
