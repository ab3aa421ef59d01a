package leitner

import (
	"math"
	"time"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
)

const (
	// NewItemPriority sits between a due box-2 item (800+) and a due box-3
	// item (700+), so new words interleave with moderately overdue ones.
	NewItemPriority = 800

	boxPriorityBase   = 1000
	boxPriorityStep   = 100
	overdueDayWeight  = 10
	overdueBonusCap   = 200
	notDuePriorityMax = 100
	notDueDayWeight   = 10
)

// PriorityResult is the ranking score of one item for one selection call.
type PriorityResult struct {
	ItemID      string
	Priority    float64
	IsDue       bool
	DaysOverdue float64
	Box         int
	IsNew       bool
}

// PriorityOf scores a single item. A nil record marks a new item.
//
// Due items score max(0, 1000-box*100) plus an overdue bonus of 10 per day
// capped at 200. Items that are not due score max(0, 100-daysUntilDue*10),
// which keeps them below every due item.
func PriorityOf(itemID string, rec *entities.ReviewRecord, today time.Time) PriorityResult {
	if rec == nil {
		return PriorityResult{
			ItemID:   itemID,
			Priority: NewItemPriority,
			IsDue:    true,
			IsNew:    true,
		}
	}

	interval := IntervalForBox(rec.Box)
	elapsed := DaysSince(rec.LastSeen, today)
	res := PriorityResult{ItemID: itemID, Box: rec.Box}

	if !IsDue(rec, today) {
		daysUntilDue := interval - elapsed
		res.Priority = math.Max(0, notDuePriorityMax-daysUntilDue*notDueDayWeight)
		return res
	}

	res.IsDue = true
	res.DaysOverdue = overdue(elapsed, interval)

	boxPriority := math.Max(0, boxPriorityBase-float64(rec.Box)*boxPriorityStep)
	bonus := math.Min(res.DaysOverdue*overdueDayWeight, overdueBonusCap)
	res.Priority = boxPriority + bonus

	return res
}

// overdue returns elapsed-interval, guarding the Inf-Inf case of an undated
// record in an astronomically large box.
func overdue(elapsed, interval float64) float64 {
	d := elapsed - interval
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}
