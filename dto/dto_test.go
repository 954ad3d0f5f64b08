package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"learnhub/database/models"
)

func TestResourceFromModel(t *testing.T) {
	tests := []struct {
		name     string
		resource models.Resource
		preview  string
	}{
		{"document", models.Resource{Title: "Intro", Href: "docs/intro.txt"}, "/assignment?href=docs%2Fintro.txt&title=Intro"},
		{"default quiz", models.Resource{Title: "Quiz 1"}, "/assignment?title=Quiz+1"},
		{"nothing to preview", models.Resource{Title: "Orientation"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.preview, ResourceFromModel(tt.resource, false).PreviewURL)
		})
	}

	list := ResourceFromModels([]models.Resource{{Title: "A", Href: "a.txt"}, {Title: "B", Href: "b.txt"}},
		func(title, _ string) bool { return title == "B" })
	assert.False(t, list[0].Assigned)
	assert.True(t, list[1].Assigned)
}

func TestDashboardFromModels(t *testing.T) {
	at := time.Date(2025, 9, 30, 8, 0, 0, 0, time.UTC)
	d := DashboardFromModels([]models.Assignment{
		{Id: "a 1", Title: "Intro", Href: "intro.txt", Progress: 100, Assigned: true, AssignedAt: &at},
	}, 100, false)

	assert.True(t, d.Completed)
	assert.False(t, d.Adjustable)
	assert.Equal(t, "2025-09-30", d.Assignments[0].AssignedAt)
	assert.Equal(t, "/assignment?id=a+1", d.Assignments[0].OpenURL)
	assert.Equal(t, models.KindDocument, d.Assignments[0].Kind)
}

func TestSessionSlotFromModel(t *testing.T) {
	slot := SessionSlotFromModel(models.Session{
		Date: "2031-03-14", Time: "4:00 PM", Subject: "Algebra Review", Tutor: "Ms. Rivera",
	}, 1, time.UTC)

	assert.Equal(t, "Not specified", slot.Location)
	assert.Equal(t, "Algebra_Review.ics", slot.ICSName)
	assert.True(t, strings.HasPrefix(slot.GoogleLink, "https://calendar.google.com/calendar/render?"))

	bad := SessionSlotFromModel(models.Session{Date: "soon", Time: "later", Subject: "?"}, 0, time.UTC)
	assert.Empty(t, bad.GoogleLink)
	assert.Equal(t, "event.ics", bad.ICSName)
}
