package status

import (
	"fmt"
	"time"

	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/utils"
)

type Status string

const (
	Expired           Status = "expired"
	PartiallyBorrowed Status = "partially_borrowed"
	ExpiringSoon      Status = "expiring_soon"
	CriticalStock     Status = "critical_stock"
	LowStock          Status = "low_stock"
	InStock           Status = "in_stock"
)

// All lists every status in evaluation order.
var All = []Status{Expired, PartiallyBorrowed, ExpiringSoon, CriticalStock, LowStock, InStock}

func (s Status) Valid() bool {
	for _, v := range All {
		if v == s {
			return true
		}
	}
	return false
}

type Thresholds struct {
	ExpiringDays  int
	CriticalRatio float64
	LowRatio      float64
}

var DefaultThresholds = Thresholds{
	ExpiringDays:  30,
	CriticalRatio: 0.10,
	LowRatio:      0.20,
}

type Classifier struct {
	th Thresholds
}

func NewClassifier(th Thresholds) *Classifier {
	if th.ExpiringDays <= 0 {
		th.ExpiringDays = DefaultThresholds.ExpiringDays
	}
	if th.CriticalRatio <= 0 {
		th.CriticalRatio = DefaultThresholds.CriticalRatio
	}
	if th.LowRatio <= 0 {
		th.LowRatio = DefaultThresholds.LowRatio
	}
	return &Classifier{th: th}
}

func (c *Classifier) Thresholds() Thresholds { return c.th }

// Classify derives the display status of r on the given day. The first
// matching rule wins: expiry, borrow, expiry window, then stock ratio.
// Zero stock is reported as CriticalStock. A record without a positive
// capacity never leaves the store and panics here.
func (c *Classifier) Classify(r *reagent.Record, today time.Time) Status {
	day := utils.Day(today)
	expiry := utils.Day(r.ExpiryDate)

	if !expiry.After(day) {
		return Expired
	}
	if r.Borrowed() {
		return PartiallyBorrowed
	}
	if !expiry.After(day.AddDate(0, 0, c.th.ExpiringDays)) {
		return ExpiringSoon
	}
	if !(r.Capacity > 0) {
		panic(fmt.Sprintf("status: record %s has capacity %v", r.ID, r.Capacity))
	}
	ratio := r.CurrentAmount / r.Capacity
	switch {
	case ratio <= c.th.CriticalRatio:
		return CriticalStock
	case ratio <= c.th.LowRatio:
		return LowStock
	}
	return InStock
}

var std = NewClassifier(DefaultThresholds)

// Classify uses the default thresholds.
func Classify(r *reagent.Record, today time.Time) Status {
	return std.Classify(r, today)
}
