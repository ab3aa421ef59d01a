// Package leitner implements the box-based spaced-repetition scheduler.
//
// Every function in this package is a pure transformation over its explicit
// inputs. The calendar day is always passed in as today; nothing here reads
// the wall clock or keeps state between calls.
package leitner

import (
	"math"
	"strings"
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// MaxBox is the highest box reachable through ApplyReview.
const MaxBox = 5

// IntervalForBox returns the review interval in days for a box: 2^(box-1).
// Box 0 yields 0.5. Very large boxes yield +Inf instead of overflowing.
func IntervalForBox(box int) float64 {
	return math.Pow(2, float64(box-1))
}

// DaysSince returns the number of calendar days from date to today.
//
// An empty or unparseable date yields +Inf, so the record counts as due.
// A date after today yields a negative value; it is not clamped.
func DaysSince(date string, today time.Time) float64 {
	d, ok := parseDate(date, today.Location())
	if !ok {
		return math.Inf(1)
	}
	return float64(civilDays(d, today))
}

// IsDue reports whether a record must be reviewed today.
// A nil record (new item) or an undated record is always due.
func IsDue(rec *entities.ReviewRecord, today time.Time) bool {
	if rec == nil || strings.TrimSpace(rec.LastSeen) == "" {
		return true
	}
	return DaysSince(rec.LastSeen, today) >= IntervalForBox(rec.Box)
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(entities.DateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// civilDays counts whole calendar days between the dates of a and b.
// Both are normalized to midnight UTC of their own calendar day, so DST
// transitions never produce fractional days.
func civilDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int((db.Unix() - da.Unix()) / 86400)
}

// yesterday returns the calendar date before today in DateLayout.
func yesterday(today time.Time) string {
	return entities.FormatDate(today.AddDate(0, 0, -1))
}
