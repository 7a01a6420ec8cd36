package store

import (
	"database/sql"
	"fmt"
	"time"
)

const dueReminderColumns = `
	r.id, r.task_id, t.user_id, r.reminder_type, r.reminder_value, r.reminder_time,
	t.title, COALESCE(t.due_date, ''), COALESCE(t.due_time, ''),
	COALESCE(u.email, ''), COALESCE(u.telegram_id, '')`

// AddReminder attaches a reminder to a task and returns the assigned ID.
func (s *Store) AddReminder(taskID int64, policy string, policyValue int, policyTime string) (int64, error) {
	switch policy {
	case PolicyOnDueDate, PolicyDaysBefore, PolicySpecificTime:
	default:
		return 0, fmt.Errorf("unknown reminder policy %q", policy)
	}

	result, err := s.db.Exec(`
		INSERT INTO task_reminders (task_id, reminder_type, reminder_value, reminder_time)
		VALUES (?, ?, ?, ?)
	`, taskID, policy, policyValue, policyTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder: %w", err)
	}
	return result.LastInsertId()
}

// DeleteReminder removes a reminder permanently.
func (s *Store) DeleteReminder(id int64) error {
	result, err := s.db.Exec(`DELETE FROM task_reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// FindUndelivered returns every undelivered reminder joined with its task and
// the owner's contact details, due date ascending. Reminders on archived
// tasks or tasks without a due date are excluded here, not by the evaluator.
func (s *Store) FindUndelivered() ([]DueReminder, error) {
	rows, err := s.db.Query(`
		SELECT `+dueReminderColumns+`
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE r.is_sent = 0 AND t.archived = 0 AND t.due_date IS NOT NULL
		ORDER BY t.due_date ASC, r.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query undelivered reminders: %w", err)
	}
	defer rows.Close()

	return scanDueReminders(rows)
}

// OldestUndelivered returns the oldest undelivered reminder for a task owned
// by the given user, or nil if there is none. Used by the manual dispatch
// path, which bypasses due-ness entirely.
func (s *Store) OldestUndelivered(taskID, userID int64) (*DueReminder, error) {
	row := s.db.QueryRow(`
		SELECT `+dueReminderColumns+`
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE t.id = ? AND t.user_id = ? AND r.is_sent = 0 AND t.archived = 0
		ORDER BY r.id ASC
		LIMIT 1
	`, taskID, userID)

	r, err := scanDueReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reminder for task %d: %w", taskID, err)
	}
	return r, nil
}

// UndeliveredByID returns one undelivered reminder with its full dispatch
// context, or nil if the reminder is missing, already delivered, or its task
// is archived.
func (s *Store) UndeliveredByID(reminderID int64) (*DueReminder, error) {
	row := s.db.QueryRow(`
		SELECT `+dueReminderColumns+`
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		JOIN users u ON t.user_id = u.id
		WHERE r.id = ? AND r.is_sent = 0 AND t.archived = 0
	`, reminderID)

	r, err := scanDueReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reminder %d: %w", reminderID, err)
	}
	return r, nil
}

// MarkDelivered transitions a reminder to delivered. sent_date is set in the
// same statement so it is present exactly when is_sent is.
func (s *Store) MarkDelivered(id int64, at time.Time) error {
	result, err := s.db.Exec(`
		UPDATE task_reminders SET is_sent = 1, sent_date = ? WHERE id = ?
	`, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder %d delivered: %w", id, err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// ResetDelivered flips a reminder back to undelivered so it becomes eligible
// for the next scan or an immediate manual dispatch.
func (s *Store) ResetDelivered(id int64) error {
	result, err := s.db.Exec(`
		UPDATE task_reminders SET is_sent = 0, sent_date = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to reset reminder %d: %w", id, err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// PendingReminders returns a user's undelivered reminders with task context,
// due date ascending.
func (s *Store) PendingReminders(userID int64) ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.task_id, r.reminder_type, r.reminder_value, r.reminder_time,
		       r.is_sent, r.sent_date, t.title, COALESCE(t.due_date, '')
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE t.user_id = ? AND r.is_sent = 0
		ORDER BY t.due_date ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// SentReminders returns a user's delivered reminders, most recent first.
func (s *Store) SentReminders(userID int64, limit int) ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.task_id, r.reminder_type, r.reminder_value, r.reminder_time,
		       r.is_sent, r.sent_date, t.title, COALESCE(t.due_date, '')
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE t.user_id = ? AND r.is_sent = 1
		ORDER BY r.sent_date DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ReminderStats counts a user's reminders by delivery state.
func (s *Store) ReminderStats(userID int64) (ReminderStats, error) {
	var stats ReminderStats
	err := s.db.QueryRow(`
		SELECT COUNT(CASE WHEN r.is_sent = 0 THEN 1 END),
		       COUNT(CASE WHEN r.is_sent = 1 THEN 1 END)
		FROM task_reminders r
		JOIN tasks t ON r.task_id = t.id
		WHERE t.user_id = ?
	`, userID).Scan(&stats.Pending, &stats.Sent)
	if err != nil {
		return ReminderStats{}, fmt.Errorf("failed to count reminders: %w", err)
	}
	return stats, nil
}

func scanDueReminders(rows *sql.Rows) ([]DueReminder, error) {
	var reminders []DueReminder
	for rows.Next() {
		var r DueReminder
		if err := rows.Scan(&r.ReminderID, &r.TaskID, &r.UserID,
			&r.Policy, &r.PolicyValue, &r.PolicyTime,
			&r.TaskTitle, &r.TaskDueDate, &r.TaskDueTime,
			&r.Email, &r.TelegramID); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func scanDueReminder(row *sql.Row) (*DueReminder, error) {
	var r DueReminder
	if err := row.Scan(&r.ReminderID, &r.TaskID, &r.UserID,
		&r.Policy, &r.PolicyValue, &r.PolicyTime,
		&r.TaskTitle, &r.TaskDueDate, &r.TaskDueTime,
		&r.Email, &r.TelegramID); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var sent int
		var sentDate sql.NullString

		if err := rows.Scan(&r.ID, &r.TaskID, &r.Policy, &r.PolicyValue, &r.PolicyTime,
			&sent, &sentDate, &r.TaskTitle, &r.TaskDueDate); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.Delivered = sent != 0
		if sentDate.Valid {
			if at, err := time.Parse(time.RFC3339, sentDate.String); err == nil {
				r.DeliveredAt = &at
			}
		}

		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
