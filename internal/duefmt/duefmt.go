// Package duefmt renders task due dates as short human labels.
package duefmt

import (
	"fmt"
	"math"
	"time"
)

// Label returns the label for a due date relative to now:
//   - nil due date: "No due date"
//   - past: "Overdue by N days" (N = ceil of the overdue span, at least 1)
//   - same calendar day: "Due today"
//   - next calendar day: "Due tomorrow"
//   - 2–7 days ahead: "Due in N days"
//   - further out: the calendar date ("Jan 2, 2006")
func Label(due *time.Time, now time.Time) string {
	if due == nil {
		return "No due date"
	}
	d := *due
	if d.Before(now) {
		n := int(math.Ceil(now.Sub(d).Hours() / 24))
		if n < 1 {
			n = 1
		}
		return fmt.Sprintf("Overdue by %d days", n)
	}
	switch days := calendarDays(now, d); {
	case days <= 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	case days <= 7:
		return fmt.Sprintf("Due in %d days", days)
	default:
		return d.Format("Jan 2, 2006")
	}
}

// Overdue reports whether a task should get overdue styling. Completed
// tasks are never styled overdue, regardless of date.
func Overdue(due *time.Time, completed bool, now time.Time) bool {
	if completed || due == nil {
		return false
	}
	return due.Before(now)
}

// calendarDays counts midnights between from and to in from's location.
// Rounded so a DST-shortened day still counts as one day.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(math.Round(t.Sub(f).Hours() / 24))
}
