// Package notify implements the delivery channels for reminders and ad-hoc
// notifications: an in-app notification row, outbound email, and Telegram.
//
// Every channel satisfies Notifier. Send reports success as a plain bool and
// never returns an error or panics; channel faults are logged and absorbed so
// one broken channel cannot take down a dispatch.
package notify

// Recipient identifies who a message goes to. Email and TelegramID are
// optional; an empty value means that channel is skipped for the user, which
// is not a failure.
type Recipient struct {
	UserID     int64
	Email      string
	TelegramID string
}

type Notifier interface {
	// Name identifies the channel in logs.
	Name() string
	// Send delivers one message to one recipient and reports success.
	Send(rcpt Recipient, title, body string) bool
}

// Result records the per-channel outcome of a multi-channel send. Channels
// skipped for lack of a recipient address stay false.
type Result struct {
	InApp    bool `json:"in_app"`
	Email    bool `json:"email"`
	Telegram bool `json:"telegram"`
}

// SendAll sends one message through every channel available for the
// recipient. The in-app channel is always attempted; email and Telegram only
// when the recipient has an address for them.
func SendAll(inApp, email, telegram Notifier, rcpt Recipient, title, body string) Result {
	var res Result

	res.InApp = inApp.Send(rcpt, title, body)

	if rcpt.Email != "" {
		res.Email = email.Send(rcpt, title, body)
	}
	if rcpt.TelegramID != "" {
		res.Telegram = telegram.Send(rcpt, title, body)
	}

	return res
}
