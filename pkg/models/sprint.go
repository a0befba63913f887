package models

import (
	"math"
	"time"
)

// SprintStatus is the calendar-derived lifecycle state of a sprint.
// It is never set directly; the resolver recomputes it from dates.
type SprintStatus string

const (
	// SprintInactive means today is before the sprint's start date.
	SprintInactive SprintStatus = "Inactive"
	// SprintActive means today falls inside the sprint's date range.
	SprintActive SprintStatus = "Active"
	// SprintCompleted means today is past the sprint's end date.
	SprintCompleted SprintStatus = "Completed"
)

// Valid returns true if the status is a known value.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintInactive, SprintActive, SprintCompleted:
		return true
	default:
		return false
	}
}

// Sprint is a time-boxed iteration that tasks are assigned into.
type Sprint struct {
	// ID is the unique, never-reused integer key.
	ID int `json:"id" yaml:"id"`
	// Name is the sprint title; defaults to "Sprint <n>" when omitted.
	Name string `json:"name" yaml:"name"`
	// StartDate is the first calendar day of the sprint.
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	// EndDate is the last calendar day of the sprint.
	EndDate time.Time `json:"end_date" yaml:"end_date"`
	// Duration is the day span, computed at creation/edit and stored.
	Duration int `json:"duration" yaml:"duration"`
	// ProductOwner is the username holding the product owner role.
	ProductOwner string `json:"product_owner" yaml:"product_owner"`
	// ScrumMaster is the username holding the scrum master role.
	ScrumMaster string `json:"scrum_master" yaml:"scrum_master"`
	// Developers are the usernames on the development team.
	Developers []string `json:"developers" yaml:"developers"`
	// Status is the derived lifecycle state.
	Status SprintStatus `json:"status" yaml:"status"`
	// BacklogReturned records that the one-time backlog sweep ran after
	// the sprint completed. Persisted so the sweep never repeats.
	BacklogReturned bool `json:"backlog_returned" yaml:"backlog_returned"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Days returns the inclusive calendar-day count the sprint spans.
func (s *Sprint) Days() int {
	return DaysBetween(s.StartDate, s.EndDate) + 1
}

// HasDeveloper returns true if the username is on the development team.
func (s *Sprint) HasDeveloper(username string) bool {
	for _, d := range s.Developers {
		if d == username {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the sprint.
func (s *Sprint) Clone() *Sprint {
	c := *s
	c.Developers = append([]string(nil), s.Developers...)
	return &c
}

// DateOnly truncates a timestamp to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day distance between two calendar dates,
// rounding partial days up.
func DaysBetween(start, end time.Time) int {
	diff := DateOnly(end).Sub(DateOnly(start))
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}
