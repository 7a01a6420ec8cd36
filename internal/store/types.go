package store

import "time"

// Reminder policies. The policy decides when a reminder becomes due; the
// value and time fields are interpreted per policy.
const (
	PolicyOnDueDate    = "on-due-date"   // due on the task's due date
	PolicyDaysBefore   = "days-before"   // due N days before the due date
	PolicySpecificTime = "specific-time" // due during a given hour of day
)

// Reminder is one row of task_reminders as stored.
type Reminder struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	Policy      string     `json:"policy"`
	PolicyValue int        `json:"policy_value"`
	PolicyTime  string     `json:"policy_time,omitempty"` // HH:MM, specific-time only
	Delivered   bool       `json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	// Joined task context, present on listing queries.
	TaskTitle   string `json:"task_title,omitempty"`
	TaskDueDate string `json:"task_due_date,omitempty"` // YYYY-MM-DD
}

// DueReminder is the joined row the scheduler scans: an undelivered reminder
// with its parent task and the owner's contact details. Archived tasks and
// tasks without a due date never appear here.
type DueReminder struct {
	ReminderID  int64
	TaskID      int64
	UserID      int64
	Policy      string
	PolicyValue int
	PolicyTime  string // HH:MM, may be empty
	TaskTitle   string
	TaskDueDate string // YYYY-MM-DD
	TaskDueTime string // HH:MM, may be empty
	Email       string // empty means the email channel is skipped
	TelegramID  string // empty means the chat channel is skipped
}

// Notification is one in-app notification row.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AppName   string    `json:"app_name"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ReminderStats counts a user's reminders by delivery state.
type ReminderStats struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
}

// NotificationStats counts a user's in-app notifications by read state.
type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}
