package entities

import (
	"maps"
	"time"
)

// DateLayout is the calendar-date format used for LastSeen and LastPracticeDate.
const DateLayout = "2006-01-02"

// ReviewRecord stores the review history of a single item.
//
// Box is the Leitner box (1..5 through normal reviews). LastSeen is a calendar
// date in DateLayout; an empty value means the record was never dated.
type ReviewRecord struct {
	Box          int    `json:"box"`
	LastSeen     string `json:"lastSeen"`
	CorrectCount int    `json:"correctCount"`
	WrongCount   int    `json:"wrongCount"`
}

// ProgressMap maps an item id to its review record.
// A missing key means the item is new and was never reviewed.
type ProgressMap map[string]ReviewRecord

// Clone returns a shallow copy of the map. ReviewRecord has no reference
// fields, so the copy is fully independent.
func (m ProgressMap) Clone() ProgressMap {
	if m == nil {
		return ProgressMap{}
	}
	return maps.Clone(m)
}

// Lookup returns a pointer to a copy of the record, or nil if the item is new.
func (m ProgressMap) Lookup(itemID string) *ReviewRecord {
	rec, ok := m[itemID]
	if !ok {
		return nil
	}
	return &rec
}

// Stats holds the learner-wide practice counters.
type Stats struct {
	Streak           int    `json:"streak"`           // consecutive practice days
	LastPracticeDate string `json:"lastPracticeDate"` // DateLayout, empty if never practiced
	TotalCorrect     int    `json:"totalCorrect"`
	TotalWrong       int    `json:"totalWrong"`
}

// Accuracy returns the share of correct answers in percent.
func (s Stats) Accuracy() float64 {
	total := s.TotalCorrect + s.TotalWrong
	if total == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(total) * 100
}

// Snapshot is the full learner state handed to and returned from the engine.
type Snapshot struct {
	Words ProgressMap
	Stats Stats
}

// FormatDate returns the calendar date of t in DateLayout, in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
