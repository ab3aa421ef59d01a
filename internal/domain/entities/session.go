package entities

import "time"

// PracticeSession is one bounded round of practice, in presentation order.
type PracticeSession struct {
	Items     []Item
	Position  int // index of the item being asked
	Correct   int
	Wrong     int
	StartedAt time.Time
}

// NewPracticeSession starts a session over items.
func NewPracticeSession(items []Item, startedAt time.Time) *PracticeSession {
	return &PracticeSession{
		Items:     items,
		StartedAt: startedAt,
	}
}

// Current returns the item being asked, or false once the session is over.
func (s *PracticeSession) Current() (Item, bool) {
	if s.Finished() {
		return Item{}, false
	}
	return s.Items[s.Position], true
}

// Advance records the outcome of the current item and moves on.
func (s *PracticeSession) Advance(correct bool) {
	if s.Finished() {
		return
	}
	if correct {
		s.Correct++
	} else {
		s.Wrong++
	}
	s.Position++
}

// Finished reports whether every item has been answered.
func (s *PracticeSession) Finished() bool {
	return s.Position >= len(s.Items)
}

// Remaining returns the number of items not yet answered.
func (s *PracticeSession) Remaining() int {
	return max(0, len(s.Items)-s.Position)
}
