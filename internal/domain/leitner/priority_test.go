package leitner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

func TestPriorityOfNewItem(t *testing.T) {
	t.Parallel()

	p := PriorityOf("hola", nil, testToday)

	assert.Equal(t, "hola", p.ItemID)
	assert.Equal(t, float64(800), p.Priority)
	assert.True(t, p.IsNew)
	assert.True(t, p.IsDue)
	assert.Zero(t, p.Box)
	assert.Zero(t, p.DaysOverdue)
}

func TestPriorityOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		rec         entities.ReviewRecord
		priority    float64
		isDue       bool
		daysOverdue float64
	}{
		{
			name:        "box 1 overdue by two days",
			rec:         entities.ReviewRecord{Box: 1, LastSeen: daysAgo(3)},
			priority:    920,
			isDue:       true,
			daysOverdue: 2,
		},
		{
			name:        "overdue bonus is capped",
			rec:         entities.ReviewRecord{Box: 1, LastSeen: daysAgo(101)},
			priority:    1100,
			isDue:       true,
			daysOverdue: 100,
		},
		{
			name:     "exactly due has no bonus",
			rec:      entities.ReviewRecord{Box: 3, LastSeen: daysAgo(4)},
			priority: 700,
			isDue:    true,
		},
		{
			name:     "not due is graded by days until due",
			rec:      entities.ReviewRecord{Box: 3, LastSeen: daysAgo(1)},
			priority: 70,
		},
		{
			name:     "far from due clamps at zero",
			rec:      entities.ReviewRecord{Box: 5, LastSeen: daysAgo(0)},
			priority: 0,
		},
		{
			name:     "box 10 has no box priority",
			rec:      entities.ReviewRecord{Box: 10, LastSeen: daysAgo(512)},
			priority: 0,
			isDue:    true,
		},
		{
			name:     "invisible box above five is tolerated",
			rec:      entities.ReviewRecord{Box: 7, LastSeen: daysAgo(64)},
			priority: 300,
			isDue:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := tc.rec
			p := PriorityOf("id", &rec, testToday)

			assert.Equal(t, tc.priority, p.Priority)
			assert.Equal(t, tc.isDue, p.IsDue)
			assert.Equal(t, tc.daysOverdue, p.DaysOverdue)
			assert.Equal(t, rec.Box, p.Box)
			assert.False(t, p.IsNew)
		})
	}
}

func TestPriorityOfPathologicalRecords(t *testing.T) {
	t.Parallel()

	undatedHugeBox := &entities.ReviewRecord{Box: 100000}
	p := PriorityOf("id", undatedHugeBox, testToday)
	assert.True(t, p.IsDue)
	assert.False(t, math.IsNaN(p.Priority))
	assert.False(t, math.IsNaN(p.DaysOverdue))
	assert.Equal(t, float64(0), p.Priority)

	undated := &entities.ReviewRecord{Box: 2}
	p = PriorityOf("id", undated, testToday)
	assert.True(t, p.IsDue)
	assert.Equal(t, float64(800+200), p.Priority, "undated records are infinitely overdue and get the capped bonus")
}

func TestPriorityDecreasesWithBox(t *testing.T) {
	t.Parallel()

	// every record is overdue by exactly two days
	prio := func(box int) float64 {
		elapsed := int(IntervalForBox(box)) + 2
		rec := &entities.ReviewRecord{Box: box, LastSeen: daysAgo(elapsed)}
		return PriorityOf("id", rec, testToday).Priority
	}

	for box := 1; box < 10; box++ {
		assert.Greater(t, prio(box), prio(box+1), "box %d vs %d", box, box+1)
	}
	assert.Greater(t, prio(3), prio(5))
}

func TestPriorityNonDecreasingWithOverdue(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for elapsed := 2; elapsed < 60; elapsed++ {
		rec := &entities.ReviewRecord{Box: 2, LastSeen: daysAgo(elapsed)}
		p := PriorityOf("id", rec, testToday).Priority
		assert.GreaterOrEqual(t, p, prev, "elapsed %d", elapsed)
		prev = p
	}
}

func TestNotDueNeverOutranksDue(t *testing.T) {
	t.Parallel()

	almostDue := &entities.ReviewRecord{Box: 5, LastSeen: daysAgo(15)}
	dueLowestBox := &entities.ReviewRecord{Box: 9, LastSeen: daysAgo(256)}

	assert.Less(t,
		PriorityOf("a", almostDue, testToday).Priority,
		PriorityOf("b", dueLowestBox, testToday).Priority,
	)
}
