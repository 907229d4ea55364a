// internal/app/system/ledger/ledger.go

// Package ledger holds the pure interval arithmetic behind the membership
// history. Everything here operates on in-memory slices so it can be unit
// tested without a database; stores and statistics build on these helpers.
package ledger

import (
	"fmt"
	"time"

	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActiveAt reports whether the interval covers instant t.
// Intervals are half-open: [JoinedAt, LeftAt).
func ActiveAt(iv models.MemberInterval, t time.Time) bool {
	if iv.JoinedAt.After(t) {
		return false
	}
	return iv.LeftAt == nil || iv.LeftAt.After(t)
}

// MembersAsOf replays the history and returns the set of users that were
// active members at instant t. It deliberately ignores the live members
// field: it must stay correct for users who have since left.
func MembersAsOf(history []models.MemberInterval, t time.Time) map[primitive.ObjectID]struct{} {
	out := make(map[primitive.ObjectID]struct{})
	for _, iv := range history {
		if ActiveAt(iv, t) {
			out[iv.UserID] = struct{}{}
		}
	}
	return out
}

// OpenIntervalIndex scans the history newest-first and returns the index of
// the most recent open interval for userID, or -1 when none exists.
func OpenIntervalIndex(history []models.MemberInterval, userID primitive.ObjectID) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].UserID == userID && history[i].LeftAt == nil {
			return i
		}
	}
	return -1
}

// HasOpenInterval reports whether userID currently has an open stint.
func HasOpenInterval(history []models.MemberInterval, userID primitive.ObjectID) bool {
	return OpenIntervalIndex(history, userID) >= 0
}

// MonthEnd returns the last instant of the given calendar month
// (23:59:59.999) in loc.
func MonthEnd(year int, month time.Month, loc *time.Location) time.Time {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Millisecond)
}

// YearEnd returns December 31 23:59:59.999 of the given year in loc.
func YearEnd(year int, loc *time.Location) time.Time {
	return MonthEnd(year, time.December, loc)
}

// MonthWindow is one row of a rolling month series: the "YYYY-MM" label and
// the last instant of that month.
type MonthWindow struct {
	Label string
	End   time.Time
}

// LastNMonths returns n windows ending at the calendar month containing
// now (inclusive), oldest first.
func LastNMonths(now time.Time, n int) []MonthWindow {
	out := make([]MonthWindow, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := n - 1; i >= 0; i-- {
		m := first.AddDate(0, -i, 0)
		out = append(out, MonthWindow{
			Label: fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month())),
			End:   MonthEnd(m.Year(), m.Month(), now.Location()),
		})
	}
	return out
}
