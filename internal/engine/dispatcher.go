package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/ntrack/notetracker/internal/notify"
	"github.com/ntrack/notetracker/internal/store"
)

// ReminderStore is the slice of the storage layer the engine needs.
type ReminderStore interface {
	FindUndelivered() ([]store.DueReminder, error)
	OldestUndelivered(taskID, userID int64) (*store.DueReminder, error)
	UndeliveredByID(reminderID int64) (*store.DueReminder, error)
	MarkDelivered(id int64, at time.Time) error
	ResetDelivered(id int64) error
}

// Dispatcher sends one due reminder through every applicable channel and
// transitions it to delivered.
type Dispatcher struct {
	store    ReminderStore
	inApp    notify.Notifier
	email    notify.Notifier
	telegram notify.Notifier
}

func NewDispatcher(st ReminderStore, inApp, email, telegram notify.Notifier) *Dispatcher {
	return &Dispatcher{
		store:    st,
		inApp:    inApp,
		email:    email,
		telegram: telegram,
	}
}

// Dispatch delivers a reminder: in-app always, email and Telegram when the
// recipient has an address for them, then marks the reminder delivered
// regardless of the channel outcomes. A failed channel is logged by the
// notifier and not retried; only a failing delivered-flag update leaves the
// reminder eligible for the next scan.
//
// Notifiers are contracted never to panic, but a bug in one must not take
// down the remaining reminders of a scan, so the whole dispatch is wrapped in
// a recover boundary.
func (d *Dispatcher) Dispatch(r store.DueReminder) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[engine] panic dispatching reminder %d: %v", r.ReminderID, rec)
		}
	}()

	rcpt := notify.Recipient{
		UserID:     r.UserID,
		Email:      r.Email,
		TelegramID: r.TelegramID,
	}
	title := "Task Reminder"

	d.inApp.Send(rcpt, title, fmt.Sprintf("Task Reminder: %s", r.TaskTitle))

	if r.Email != "" {
		d.email.Send(rcpt, title, emailBody(r))
	}

	if r.TelegramID != "" {
		d.telegram.Send(rcpt, "\U0001F514 "+title, r.TaskTitle)
	}

	if err := d.store.MarkDelivered(r.ReminderID, time.Now()); err != nil {
		log.Printf("[engine] failed to mark reminder %d delivered: %v", r.ReminderID, err)
		return
	}

	log.Printf("[engine] reminder %d sent for task %d to user %d", r.ReminderID, r.TaskID, r.UserID)
}

func emailBody(r store.DueReminder) string {
	return fmt.Sprintf(`<h2>Task Reminder</h2>
<p><strong>Task:</strong> %s</p>
<p><strong>Due:</strong> %s</p>
<p>Please log in to NoteTracker to manage this task.</p>`, r.TaskTitle, r.TaskDueDate)
}
