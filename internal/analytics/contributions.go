package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// DailyHours is one bar of a member's contribution chart.
type DailyHours struct {
	// Date is the calendar day, formatted 2006-01-02.
	Date string
	// Hours is the member's logged time that day.
	Hours float64
}

// MemberContributionChart groups a member's contribution minutes by calendar
// day across all tasks, converts them to hours, and returns the days in
// ascending order.
func MemberContributionChart(tasks []*models.Task, username string) []DailyHours {
	byDate := make(map[string]float64)
	for _, task := range tasks {
		for _, c := range task.Contributions {
			if c.User != username {
				continue
			}
			day := models.DateOnly(c.Date).Format("2006-01-02")
			byDate[day] += float64(c.Duration) / 60
		}
	}

	out := make([]DailyHours, 0, len(byDate))
	for day, hours := range byDate {
		out = append(out, DailyHours{Date: day, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MemberAverage is one row of the average-contributions table.
type MemberAverage struct {
	Username string
	// AverageHours is the member's logged hours in range divided by the
	// total days in range, worked or not. Zero when nothing was logged.
	AverageHours float64
}

// AverageContributions computes, for every user, the average hours per day
// logged inside [start, end] inclusive. The divisor is the span of the range
// itself, not the days the user actually worked, so a quiet member trends
// toward zero rather than disappearing from the table.
func AverageContributions(tasks []*models.Task, users []models.User, start, end time.Time) ([]MemberAverage, error) {
	startDay := models.DateOnly(start)
	endDay := models.DateOnly(end)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("end date %s is before start date %s",
			endDay.Format("2006-01-02"), startDay.Format("2006-01-02"))
	}
	totalDays := models.DaysBetween(startDay, endDay) + 1

	totals := make(map[string]float64)
	for _, task := range tasks {
		for _, c := range task.Contributions {
			day := models.DateOnly(c.Date)
			if day.Before(startDay) || day.After(endDay) {
				continue
			}
			totals[c.User] += float64(c.Duration) / 60
		}
	}

	out := make([]MemberAverage, 0, len(users))
	for _, u := range users {
		out = append(out, MemberAverage{
			Username:     u.Username,
			AverageHours: totals[u.Username] / float64(totalDays),
		})
	}
	return out, nil
}
