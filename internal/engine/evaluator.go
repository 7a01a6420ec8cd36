package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/ntrack/notetracker/internal/store"
)

const dateLayout = "2006-01-02"

// IsDue reports whether a reminder should fire at now. Comparisons are
// date-granular except specific-time, which matches on the hour. Malformed
// rows (bad due date, bad reminder time, unknown policy) evaluate to not due
// so one bad row cannot block a scan.
//
// Due-ness alone does not suppress duplicates: an on-due-date reminder is due
// for the whole day and a specific-time reminder for the whole hour. The
// delivered flag is what keeps a reminder from firing twice.
func IsDue(now time.Time, r store.DueReminder) bool {
	today := now.Format(dateLayout)

	switch r.Policy {
	case store.PolicyOnDueDate:
		return r.TaskDueDate == today

	case store.PolicyDaysBefore:
		due, err := time.ParseInLocation(dateLayout, r.TaskDueDate, now.Location())
		if err != nil {
			return false
		}
		sendDate := due.AddDate(0, 0, -r.PolicyValue)
		return sendDate.Format(dateLayout) == today

	case store.PolicySpecificTime:
		hour, ok := parseHour(r.PolicyTime)
		return ok && now.Hour() == hour

	default:
		return false
	}
}

// parseHour extracts the hour from "HH:MM" or a bare "HH".
func parseHour(t string) (int, bool) {
	if i := strings.IndexByte(t, ':'); i >= 0 {
		t = t[:i]
	}
	hour, err := strconv.Atoi(strings.TrimSpace(t))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
