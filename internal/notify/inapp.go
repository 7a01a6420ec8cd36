package notify

import "log"

// NotificationSink is the slice of the storage layer the in-app channel
// writes through.
type NotificationSink interface {
	CreateNotification(userID int64, appName, title, message, kind string) (int64, error)
}

// InApp persists notifications so they show up on the user's own surfaces.
// This is the one channel attempted for every recipient.
type InApp struct {
	sink    NotificationSink
	appName string
	kind    string
}

// NewInApp creates the in-app channel. kind tags the stored rows
// (e.g. "reminder" or "alert").
func NewInApp(sink NotificationSink, appName, kind string) *InApp {
	if kind == "" {
		kind = "alert"
	}
	return &InApp{sink: sink, appName: appName, kind: kind}
}

func (n *InApp) Name() string { return "in-app" }

func (n *InApp) Send(rcpt Recipient, title, body string) bool {
	if _, err := n.sink.CreateNotification(rcpt.UserID, n.appName, title, body, n.kind); err != nil {
		log.Printf("[notify] in-app notification failed for user %d: %v", rcpt.UserID, err)
		return false
	}
	return true
}
