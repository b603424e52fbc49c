package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventVisibleTo(t *testing.T) {
	viewer := &User{Course: "BS in Computer Science", YearLevel: "3rd Year", Section: "A"}

	tests := []struct {
		name    string
		event   Event
		viewer  *User
		visible bool
	}{
		{
			name:    "audience all is always visible",
			event:   Event{TargetAudience: AudienceAll, TargetYears: []string{"1st Year"}},
			viewer:  viewer,
			visible: true,
		},
		{
			name:    "unset audience defaults to visible",
			event:   Event{},
			viewer:  viewer,
			visible: true,
		},
		{
			name: "matches all three declared dimensions",
			event: Event{
				TargetAudience: AudienceSpecific,
				TargetCourses:  []string{"BS in Computer Science"},
				TargetYears:    []string{"3rd Year"},
				TargetSections: []string{"A", "B"},
			},
			viewer:  viewer,
			visible: true,
		},
		{
			name: "empty dimension places no restriction",
			event: Event{
				TargetAudience: AudienceSpecific,
				TargetYears:    []string{"3rd Year"},
			},
			viewer:  viewer,
			visible: true,
		},
		{
			name: "single mismatched dimension excludes",
			event: Event{
				TargetAudience: AudienceSpecific,
				TargetCourses:  []string{"BS in Computer Science"},
				TargetYears:    []string{"1st Year"},
			},
			viewer:  viewer,
			visible: false,
		},
		{
			name: "mismatch on every dimension excludes",
			event: Event{
				TargetAudience: AudienceSpecific,
				TargetCourses:  []string{"BS in Tourism"},
				TargetYears:    []string{"1st Year"},
				TargetSections: []string{"C"},
			},
			viewer:  viewer,
			visible: false,
		},
		{
			name: "unset viewer attribute passes vacuously",
			event: Event{
				TargetAudience: AudienceSpecific,
				TargetCourses:  []string{"BS in Tourism"},
			},
			viewer:  &User{YearLevel: "3rd Year"},
			visible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, tt.event.VisibleTo(tt.viewer))
		})
	}
}

func TestEventVisibleToYearOnlyTargeting(t *testing.T) {
	event := Event{
		TargetAudience: AudienceSpecific,
		TargetYears:    []string{"3rd Year"},
		TargetCourses:  []string{},
		TargetSections: []string{},
	}

	assert.True(t, event.VisibleTo(&User{YearLevel: "3rd Year"}))
	assert.False(t, event.VisibleTo(&User{YearLevel: "1st Year"}))
}
