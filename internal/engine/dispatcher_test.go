package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ntrack/notetracker/internal/notify"
	"github.com/ntrack/notetracker/internal/store"
)

// fakeStore implements ReminderStore in memory. The mutex matters: the
// engine's scan goroutine and the test body both touch the delivered map.
type fakeStore struct {
	mu          sync.Mutex
	undelivered []store.DueReminder
	delivered   map[int64]time.Time
	markErr     error
}

func newFakeStore(reminders ...store.DueReminder) *fakeStore {
	return &fakeStore{
		undelivered: reminders,
		delivered:   make(map[int64]time.Time),
	}
}

func (f *fakeStore) FindUndelivered() ([]store.DueReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []store.DueReminder
	for _, r := range f.undelivered {
		if _, ok := f.delivered[r.ReminderID]; !ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) OldestUndelivered(taskID, userID int64) (*store.DueReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.undelivered {
		if r.TaskID != taskID || r.UserID != userID {
			continue
		}
		if _, ok := f.delivered[r.ReminderID]; !ok {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UndeliveredByID(reminderID int64) (*store.DueReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.undelivered {
		if r.ReminderID != reminderID {
			continue
		}
		if _, ok := f.delivered[r.ReminderID]; !ok {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) MarkDelivered(id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markErr != nil {
		return f.markErr
	}
	f.delivered[id] = at
	return nil
}

func (f *fakeStore) ResetDelivered(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.delivered, id)
	return nil
}

func (f *fakeStore) isDelivered(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.delivered[id]
	return ok
}

func (f *fakeStore) deliveredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

// fakeNotifier records sends and reports a configurable outcome.
type fakeNotifier struct {
	name  string
	fail  bool
	panic bool
	sends []string
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Send(rcpt notify.Recipient, title, body string) bool {
	if f.panic {
		panic("notifier bug")
	}
	f.sends = append(f.sends, fmt.Sprintf("user=%d title=%s", rcpt.UserID, title))
	return !f.fail
}

func dueRow(reminderID int64) store.DueReminder {
	return store.DueReminder{
		ReminderID:  reminderID,
		TaskID:      10,
		UserID:      1,
		Policy:      store.PolicyOnDueDate,
		TaskTitle:   "file taxes",
		TaskDueDate: "2026-02-10",
		Email:       "u@example.com",
		TelegramID:  "4242",
	}
}

func TestDispatchSendsAllChannelsAndMarksDelivered(t *testing.T) {
	st := newFakeStore()
	inApp := &fakeNotifier{name: "in-app"}
	email := &fakeNotifier{name: "email"}
	telegram := &fakeNotifier{name: "telegram"}

	d := NewDispatcher(st, inApp, email, telegram)
	d.Dispatch(dueRow(1))

	if len(inApp.sends) != 1 || len(email.sends) != 1 || len(telegram.sends) != 1 {
		t.Errorf("expected one send per channel, got in-app=%d email=%d telegram=%d",
			len(inApp.sends), len(email.sends), len(telegram.sends))
	}
	if !st.isDelivered(1) {
		t.Error("reminder not marked delivered")
	}
}

func TestDispatchMarksDeliveredDespiteChannelFailures(t *testing.T) {
	st := newFakeStore()
	d := NewDispatcher(st,
		&fakeNotifier{name: "in-app", fail: true},
		&fakeNotifier{name: "email", fail: true},
		&fakeNotifier{name: "telegram", fail: true})

	d.Dispatch(dueRow(1))

	if !st.isDelivered(1) {
		t.Error("delivery marking must not depend on channel outcomes")
	}
}

func TestDispatchSkipsChannelsWithoutContact(t *testing.T) {
	st := newFakeStore()
	inApp := &fakeNotifier{name: "in-app"}
	email := &fakeNotifier{name: "email"}
	telegram := &fakeNotifier{name: "telegram"}
	d := NewDispatcher(st, inApp, email, telegram)

	r := dueRow(1)
	r.Email = ""
	r.TelegramID = ""
	d.Dispatch(r)

	if len(inApp.sends) != 1 {
		t.Errorf("in-app must always be attempted, got %d sends", len(inApp.sends))
	}
	if len(email.sends) != 0 || len(telegram.sends) != 0 {
		t.Error("channels without contact info must be skipped, not called")
	}
	if !st.isDelivered(1) {
		t.Error("in-app-only delivery is a success and must mark delivered")
	}
}

func TestDispatchStorageFailureLeavesReminderEligible(t *testing.T) {
	st := newFakeStore()
	st.markErr = fmt.Errorf("disk full")
	d := NewDispatcher(st, &fakeNotifier{name: "in-app"}, &fakeNotifier{name: "email"}, &fakeNotifier{name: "telegram"})

	d.Dispatch(dueRow(1))

	if st.deliveredCount() != 0 {
		t.Error("failed flag update must leave the reminder undelivered")
	}
}

func TestDispatchPanicDoesNotEscape(t *testing.T) {
	st := newFakeStore()
	d := NewDispatcher(st,
		&fakeNotifier{name: "in-app", panic: true},
		&fakeNotifier{name: "email"},
		&fakeNotifier{name: "telegram"})

	// A notifier that breaks its no-panic contract must not crash the scan.
	d.Dispatch(dueRow(1))
}

func TestDispatchNoDeduplicationAcrossReminders(t *testing.T) {
	// Two reminders on one task both fire: two separate in-app notifications.
	st := newFakeStore()
	inApp := &fakeNotifier{name: "in-app"}
	d := NewDispatcher(st, inApp, &fakeNotifier{name: "email"}, &fakeNotifier{name: "telegram"})

	a := dueRow(1)
	b := dueRow(2)
	d.Dispatch(a)
	d.Dispatch(b)

	if len(inApp.sends) != 2 {
		t.Errorf("expected 2 in-app notifications, got %d", len(inApp.sends))
	}
	if st.deliveredCount() != 2 {
		t.Errorf("expected both reminders delivered, got %d", st.deliveredCount())
	}
}
