package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecircle/backend/internal/store"
)

func TestRenderProducesCalendarEvent(t *testing.T) {
	task := store.Task{
		ID:        "t-1",
		Title:     "Dinner drop-off",
		TaskDate:  "2026-09-01",
		StartTime: "18:00",
		EndTime:   "19:00",
		Location:  "Front porch",
		Details:   "Lasagna, no cheese",
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	text, err := Render(task)
	require.NoError(t, err)

	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "END:VCALENDAR")
	assert.Contains(t, text, "BEGIN:VEVENT")
	assert.Contains(t, text, "SUMMARY:Dinner drop-off")
	assert.Contains(t, text, "LOCATION:Front porch")
	assert.Contains(t, text, "UID:t-1")
}

func TestRenderDefaultsMissingTimes(t *testing.T) {
	task := store.Task{ID: "t-2", Title: "All day", TaskDate: "2026-09-01"}

	text, err := Render(task)
	require.NoError(t, err)
	assert.Contains(t, text, "DTSTART")
	assert.Contains(t, text, "DTEND")
}

func TestRenderRejectsUnusableDate(t *testing.T) {
	_, err := Render(store.Task{ID: "t-3", Title: "Broken", TaskDate: "someday"})
	assert.Error(t, err)
}
