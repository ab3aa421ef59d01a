package service

import (
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

// Clock decides what "today" is for the practice calendar.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock in loc.
func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns midnight of the current day in the clock's location.
func (c Clock) Today() time.Time {
	return entities.Today(c.now(), c.Location)
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
