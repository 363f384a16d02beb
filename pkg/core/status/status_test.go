package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scienceol/labstock/pkg/core/reagent"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func record(amount, capacity float64, expiresIn int) *reagent.Record {
	return &reagent.Record{
		ID:            "RG-000001",
		Capacity:      capacity,
		CurrentAmount: amount,
		ExpiryDate:    today.AddDate(0, 0, expiresIn),
	}
}

func TestClassify(t *testing.T) {
	borrowed := record(400, 500, 365)
	borrowed.Borrow = &reagent.BorrowInfo{BorrowerName: "Li", BorrowedAmount: 50}

	emptyBorrow := record(400, 500, 365)
	emptyBorrow.Borrow = &reagent.BorrowInfo{BorrowerName: "Li"}

	borrowedExpiring := record(400, 500, 10)
	borrowedExpiring.Borrow = &reagent.BorrowInfo{BorrowedAmount: 5}

	cases := []struct {
		name string
		rec  *reagent.Record
		want Status
	}{
		{"expires today", record(500, 500, 0), Expired},
		{"expired yesterday", record(500, 500, -1), Expired},
		{"borrowed", borrowed, PartiallyBorrowed},
		{"zero borrow is not a borrow", emptyBorrow, InStock},
		{"borrow beats expiring", borrowedExpiring, PartiallyBorrowed},
		{"expiring tomorrow", record(500, 500, 1), ExpiringSoon},
		{"expiring at window edge", record(500, 500, 30), ExpiringSoon},
		{"just outside window", record(500, 500, 31), InStock},
		{"expiring beats low stock", record(10, 500, 20), ExpiringSoon},
		{"critical at 10%", record(50, 500, 365), CriticalStock},
		{"zero stock is critical", record(0, 500, 365), CriticalStock},
		{"low at 20%", record(100, 500, 365), LowStock},
		{"low just above critical", record(51, 500, 365), LowStock},
		{"in stock above 20%", record(101, 500, 365), InStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.rec, today))
		})
	}
}

func TestClassifyPanicsOnCorruptCapacity(t *testing.T) {
	assert.Panics(t, func() { Classify(record(0, 0, 365), today) })
	assert.Panics(t, func() { Classify(record(10, -5, 365), today) })
	assert.NotPanics(t, func() { Classify(record(0, 0, -1), today) }, "expiry is decided first")
}

func TestExpiryDominatesEverything(t *testing.T) {
	r := record(0, 500, -10)
	r.Borrow = &reagent.BorrowInfo{BorrowedAmount: 100}
	assert.Equal(t, Expired, Classify(r, today))
}

func TestClassifyIsPure(t *testing.T) {
	r := record(80, 500, 12)
	r.Borrow = &reagent.BorrowInfo{BorrowedAmount: 20}
	before := r.Clone()

	first := Classify(r, today)
	second := Classify(r, today)
	assert.Equal(t, first, second)
	assert.Equal(t, before, r)
}

func TestTimeOfDayIgnored(t *testing.T) {
	r := record(500, 500, 0)
	r.ExpiryDate = time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Expired, Classify(r, time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)))
}

func TestCustomThresholds(t *testing.T) {
	c := NewClassifier(Thresholds{ExpiringDays: 7, CriticalRatio: 0.05, LowRatio: 0.5})
	assert.Equal(t, InStock, c.Classify(record(500, 500, 8), today))
	assert.Equal(t, LowStock, c.Classify(record(200, 500, 365), today))
	assert.Equal(t, CriticalStock, c.Classify(record(25, 500, 365), today))

	d := NewClassifier(Thresholds{})
	assert.Equal(t, DefaultThresholds, d.Thresholds())
}

func TestValid(t *testing.T) {
	assert.True(t, LowStock.Valid())
	assert.False(t, Status("out_of_stock").Valid())
}
