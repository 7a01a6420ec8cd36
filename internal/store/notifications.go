package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateNotification inserts an in-app notification row and returns its ID.
func (s *Store) CreateNotification(userID int64, appName, title, message, kind string) (int64, error) {
	if kind == "" {
		kind = "alert"
	}

	result, err := s.db.Exec(`
		INSERT INTO notifications (user_id, app_name, notification_type, title, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, appName, kind, title, message, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert notification: %w", err)
	}
	return result.LastInsertId()
}

// UnreadNotifications returns a user's unread notifications, newest first.
func (s *Store) UnreadNotifications(userID int64, limit int) ([]Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, app_name, notification_type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = ? AND is_read = 0
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// AllNotifications returns a user's notifications regardless of read state,
// newest first.
func (s *Store) AllNotifications(userID int64, limit int) ([]Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, app_name, notification_type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// MarkNotificationRead marks a single notification as read.
func (s *Store) MarkNotificationRead(id int64) error {
	result, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("notification %d not found", id)
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification of a user as read
// and returns how many were affected.
func (s *Store) MarkAllNotificationsRead(userID int64) (int64, error) {
	result, err := s.db.Exec(`
		UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

// DeleteNotification removes a notification permanently.
func (s *Store) DeleteNotification(id int64) error {
	result, err := s.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("notification %d not found", id)
	}
	return nil
}

// NotificationStats counts a user's notifications by read state.
func (s *Store) NotificationStats(userID int64) (NotificationStats, error) {
	var stats NotificationStats
	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(CASE WHEN is_read = 0 THEN 1 END)
		FROM notifications
		WHERE user_id = ?
	`, userID).Scan(&stats.Total, &stats.Unread)
	if err != nil {
		return NotificationStats{}, fmt.Errorf("failed to count notifications: %w", err)
	}
	stats.Read = stats.Total - stats.Unread
	return stats, nil
}

func scanNotifications(rows *sql.Rows) ([]Notification, error) {
	var notifications []Notification
	for rows.Next() {
		var n Notification
		var read int
		var createdAt string

		if err := rows.Scan(&n.ID, &n.UserID, &n.AppName, &n.Kind,
			&n.Title, &n.Message, &read, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		n.Read = read != 0
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
