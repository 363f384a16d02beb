package store

import (
	"time"

	"github.com/scienceol/labstock/pkg/core/reagent"
)

type CreateInput struct {
	Name          string
	Formula       string
	CAS           string
	CurrentAmount *float64
	// Capacity 0 selects the smallest standard container for CurrentAmount.
	Capacity float64
	// CabinetID pins the record to one cabinet; empty lets the allocator choose.
	CabinetID  string
	ExpiryDate time.Time
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name          *string
	Formula       *string
	CurrentAmount *float64
	ExpiryDate    *time.Time
	Borrow        *reagent.BorrowInfo
	ClearBorrow   bool
}

type BorrowInput struct {
	BorrowerName       string
	Amount             float64
	ExpectedReturnDate time.Time
	Purpose            string
}

// RestockResult reports a restock; Excess is the part of Requested that
// did not fit under capacity.
type RestockResult struct {
	Record    *reagent.Record
	Requested float64
	Applied   float64
	Excess    float64
	Clamped   bool
}

type Op string

const (
	OpCreate   Op = "create"
	OpOutbound Op = "outbound"
	OpRestock  Op = "restock"
	OpDispose  Op = "dispose"
	OpUpdate   Op = "update"
	OpBorrow   Op = "borrow"
	OpReturn   Op = "return"
)

// Change describes one committed mutation. Record is the state after the
// mutation, or the removed record for OpDispose.
type Change struct {
	Op     Op
	Record *reagent.Record

	// Seq is the commit sequence, increasing across all records.
	Seq uint64
}
