package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carecircle/backend/internal/store"
)

// Builders for the messages the rule engines enqueue. Each returns a
// fully-formed mailbox entry; appending it to the document is the
// caller's job, inside the same mutation as the triggering change.

// TaskClaimed confirms a claim to the claimant, with the calendar
// rendering of the task attached in the meta.
func TaskClaimed(claimant store.User, task store.Task, icsText string) store.Notification {
	timeRange := task.StartTime
	if task.EndTime != "" {
		timeRange += " - " + task.EndTime
	}
	location := task.Location
	if location == "" {
		location = "Not specified"
	}
	details := task.Details
	if details == "" {
		details = "No additional details"
	}

	return store.Notification{
		ID:      uuid.NewString(),
		To:      []string{claimant.Email},
		Subject: "Task Claimed: " + task.Title,
		Body: fmt.Sprintf(
			"<h2>Task Claimed Successfully</h2>"+
				"<p>You've claimed the task: <strong>%s</strong></p>"+
				"<p><strong>Date:</strong> %s</p>"+
				"<p><strong>Time:</strong> %s</p>"+
				"<p><strong>Location:</strong> %s</p>"+
				"<p><strong>Details:</strong> %s</p>"+
				"<p>You can download the calendar event below to add it to your calendar.</p>",
			task.Title, prettyDate(task.TaskDate), timeRange, location, details),
		Text:      fmt.Sprintf("Task Claimed: %s on %s at %s", task.Title, prettyDate(task.TaskDate), timeRange),
		CreatedAt: time.Now(),
		Meta: store.NotificationMeta{
			Kind:   store.NotifyTaskClaimed,
			TaskID: task.ID,
			ICS:    icsText,
		},
	}
}

// SlotReopened tells the rest of the circle a claimed slot opened back
// up shortly before the task starts.
func SlotReopened(recipients []string, task store.Task) store.Notification {
	return store.Notification{
		ID:      uuid.NewString(),
		To:      recipients,
		Subject: "Slot Reopened: " + task.Title,
		Body: fmt.Sprintf(
			"<h2>Task Slot Reopened</h2>"+
				"<p>A slot has been reopened for: <strong>%s</strong></p>"+
				"<p><strong>Date:</strong> %s</p>"+
				"<p><strong>Time:</strong> %s</p>"+
				"<p>Please check the calendar if you can help with this task.</p>",
			task.Title, prettyDate(task.TaskDate), task.StartTime),
		Text:      fmt.Sprintf("Slot reopened for %s on %s at %s", task.Title, prettyDate(task.TaskDate), task.StartTime),
		CreatedAt: time.Now(),
		Meta: store.NotificationMeta{
			Kind:   store.NotifySlotReopened,
			TaskID: task.ID,
		},
	}
}

// BadDayAlert rallies the circle when the patient posts a BAD mood
// update. Throttling is the status engine's responsibility.
func BadDayAlert(recipients []string, author store.User, content string) store.Notification {
	name := author.Name
	if name == "" {
		name = author.Email
	}

	return store.Notification{
		ID:      uuid.NewString(),
		To:      recipients,
		Subject: "Bad Day Alert: Let's Rally Today",
		Body: fmt.Sprintf(
			"<h2>Bad Day Alert</h2>"+
				"<p>%s is having a difficult day and could use extra support.</p>"+
				"<p><strong>Update:</strong> %s</p>"+
				"<p>Please check the calendar for any unclaimed tasks today and consider reaching out with extra support.</p>",
			name, content),
		Text: fmt.Sprintf(
			"Bad Day Alert: %s is having a difficult day. Please check the calendar for unclaimed tasks and consider reaching out with extra support.",
			name),
		CreatedAt: time.Now(),
		Meta:      store.NotificationMeta{Kind: store.NotifyBadDayAlert},
	}
}

func prettyDate(taskDate string) string {
	d, err := time.Parse("2006-01-02", taskDate)
	if err != nil {
		return taskDate
	}
	return d.Format("January 2, 2006")
}
