package engine

import (
	"time"

	"github.com/sprintforge/sprintforge/pkg/models"
)

// ResolveSprintStatus derives a sprint's lifecycle state from calendar dates.
// It is a pure function of the date range and "today"; transitions carry no
// side effects and are never written to any ledger.
func ResolveSprintStatus(start, end, today time.Time) models.SprintStatus {
	day := models.DateOnly(today)
	switch {
	case day.Before(models.DateOnly(start)):
		return models.SprintInactive
	case day.After(models.DateOnly(end)):
		return models.SprintCompleted
	default:
		return models.SprintActive
	}
}
