package reagent

import (
	"time"

	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
)

// Record is one physical container on a cabinet shelf.
type Record struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Formula         string       `json:"formula"`
	CAS             string       `json:"cas"`
	HazardClass     string       `json:"hazard_class"`
	State           string       `json:"state"`
	Unit            string       `json:"unit"`
	MolecularWeight float64      `json:"molecular_weight"`
	Density         float64      `json:"density"`
	BoilingPoint    float64      `json:"boiling_point"`
	MeltingPoint    float64      `json:"melting_point"`
	Capacity        float64      `json:"capacity"`
	CurrentAmount   float64      `json:"current_amount"`
	CabinetID       string       `json:"cabinet_id"`
	Slot            cabinet.Slot `json:"slot"`
	ExpiryDate      time.Time    `json:"expiry_date"`
	Borrow          *BorrowInfo  `json:"borrow,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	LastUpdated     time.Time    `json:"last_updated"`
}

// BorrowInfo tracks quantity lent out while the rest stays on the shelf.
type BorrowInfo struct {
	BorrowerName       string    `json:"borrower_name"`
	BorrowedAmount     float64   `json:"borrowed_amount"`
	BorrowDate         time.Time `json:"borrow_date"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	Purpose            string    `json:"purpose"`
}

func (r *Record) Location() cabinet.Location {
	return cabinet.Location{CabinetID: r.CabinetID, Slot: r.Slot}
}

// Borrowed reports an active borrow with a positive amount out.
func (r *Record) Borrowed() bool {
	return r.Borrow != nil && r.Borrow.BorrowedAmount > 0
}

func (r *Record) Clone() *Record {
	c := *r
	if r.Borrow != nil {
		b := *r.Borrow
		c.Borrow = &b
	}
	return &c
}

// ApplyCatalog snapshots the reference properties of e onto r.
func (r *Record) ApplyCatalog(e catalog.Entry) {
	if r.CAS == "" {
		r.CAS = e.CAS
	}
	r.HazardClass = e.HazardClass
	r.State = e.State
	r.Unit = e.Unit
	r.MolecularWeight = e.MolecularWeight
	r.Density = e.Density
	r.BoilingPoint = e.BoilingPoint
	r.MeltingPoint = e.MeltingPoint
}

// AmountInRange reports 0 <= CurrentAmount <= Capacity.
func (r *Record) AmountInRange() bool {
	return r.CurrentAmount >= 0 && r.CurrentAmount <= r.Capacity
}
