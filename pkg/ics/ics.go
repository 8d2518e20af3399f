// Package ics renders circle tasks as iCalendar text so claimants can
// drop them straight into their own calendars.
package ics

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"github.com/carecircle/backend/internal/store"
)

// Render produces the iCalendar document for a single task. It is a
// pure function of the task.
func Render(task store.Task) (string, error) {
	start := task.StartAt()
	if start.IsZero() {
		return "", fmt.Errorf("task %s has no usable date", task.ID)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//CareCircle//Task Calendar//EN")

	event := cal.AddEvent(task.ID)
	event.SetCreatedTime(task.CreatedAt)
	event.SetStartAt(start)
	event.SetEndAt(task.EndAt())
	event.SetSummary(task.Title)
	if task.Location != "" {
		event.SetLocation(task.Location)
	}
	if task.Details != "" {
		event.SetDescription(task.Details)
	}

	return cal.Serialize(), nil
}
