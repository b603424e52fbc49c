package models

import (
	"time"

	"github.com/lib/pq"
)

// EventAudience defines the targeting mode of an event.
type EventAudience string

const (
	AudienceAll      EventAudience = "All"
	AudienceSpecific EventAudience = "Specific"
)

// EventStatus tracks the lifecycle of an event on the calendar.
type EventStatus string

const (
	EventUpcoming EventStatus = "Upcoming"
	EventOngoing  EventStatus = "Ongoing"
	EventFinished EventStatus = "Finished"
)

// Event represents a campus announcement/event row.
// Author is a weak reference: the event survives author archival.
type Event struct {
	ID             string         `db:"id" json:"id"`
	Title          string         `db:"title" json:"title"`
	Content        string         `db:"content" json:"content"`
	TargetAudience EventAudience  `db:"target_audience" json:"targetAudience"`
	TargetCourses  pq.StringArray `db:"target_courses" json:"targetCourses"`
	TargetYears    pq.StringArray `db:"target_years" json:"targetYears"`
	TargetSections pq.StringArray `db:"target_sections" json:"targetSections"`
	EventDate      time.Time      `db:"event_date" json:"eventDate"`
	Location       string         `db:"location" json:"location"`
	Status         EventStatus    `db:"status" json:"status"`
	Images         pq.StringArray `db:"images" json:"images"`
	AuthorID       string         `db:"author_id" json:"-"`
	Author         *UserRef       `db:"-" json:"author,omitempty"`
	IsArchived     bool           `db:"is_archived" json:"isArchived"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// VisibleTo reports whether the event should be shown to the given viewer.
// Targeting is a conjunction across the non-empty target sets: the viewer must
// match every declared dimension. An empty target set places no restriction on
// that dimension, and a viewer with an unset profile attribute passes that
// dimension vacuously (permissive by default).
func (e *Event) VisibleTo(viewer *User) bool {
	if e.TargetAudience != AudienceSpecific {
		return true
	}
	if viewer == nil {
		return false
	}
	return matchDimension(e.TargetCourses, viewer.Course) &&
		matchDimension(e.TargetYears, viewer.YearLevel) &&
		matchDimension(e.TargetSections, viewer.Section)
}

func matchDimension(targets []string, value string) bool {
	if len(targets) == 0 || value == "" {
		return true
	}
	for _, t := range targets {
		if t == value {
			return true
		}
	}
	return false
}

// EventFilter captures list criteria for events.
type EventFilter struct {
	Statuses        []EventStatus
	IncludeArchived bool
	SortAscending   bool
	Limit           int
}
