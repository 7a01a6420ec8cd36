package store

import (
	"fmt"
	"time"
)

// The engine only ever reads tasks and users; these writers exist for the
// surrounding CRUD surfaces and for tests.

// CreateUser inserts a user and returns the assigned ID. Email and
// telegramID may be empty; the matching notification channel is then skipped
// for that user.
func (s *Store) CreateUser(username, email, telegramID string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO users (username, email, telegram_id, created_at)
		VALUES (?, ?, ?, ?)
	`, username, email, telegramID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return result.LastInsertId()
}

// CreateTask inserts a task and returns the assigned ID. dueDate is
// YYYY-MM-DD and dueTime HH:MM; both may be empty.
func (s *Store) CreateTask(userID int64, title, dueDate, dueTime string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO tasks (user_id, title, due_date, due_time, created_at)
		VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), ?)
	`, userID, title, dueDate, dueTime, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return result.LastInsertId()
}

// ArchiveTask flags a task as archived. Its reminders stay in place but are
// excluded from every scheduler scan.
func (s *Store) ArchiveTask(taskID int64) error {
	result, err := s.db.Exec(`UPDATE tasks SET archived = 1 WHERE id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("task %d not found", taskID)
	}
	return nil
}
