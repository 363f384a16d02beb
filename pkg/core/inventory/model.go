package inventory

import (
	"time"

	"github.com/scienceol/labstock/pkg/common"
	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/core/status"
)

// Dates in requests are "2006-01-02" or RFC 3339 strings.

type CreateReq struct {
	Name          string   `json:"name"`
	Formula       string   `json:"formula"`
	CAS           string   `json:"cas"`
	CurrentAmount *float64 `json:"current_amount"`
	Capacity      float64  `json:"capacity"`
	CabinetID     string   `json:"cabinet_id"`
	ExpiryDate    string   `json:"expiry_date"`
}

type QuantityReq struct {
	ID       string  `json:"id" binding:"required"`
	Quantity float64 `json:"quantity"`
}

type DisposeReq struct {
	ID string `json:"id" binding:"required"`
}

type BorrowData struct {
	BorrowerName       string  `json:"borrower_name"`
	BorrowedAmount     float64 `json:"borrowed_amount"`
	BorrowDate         string  `json:"borrow_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	Purpose            string  `json:"purpose"`
}

type UpdateReq struct {
	ID            string      `json:"id" binding:"required"`
	Name          *string     `json:"name"`
	Formula       *string     `json:"formula"`
	CurrentAmount *float64    `json:"current_amount"`
	ExpiryDate    *string     `json:"expiry_date"`
	Borrow        *BorrowData `json:"borrow"`
	ClearBorrow   bool        `json:"clear_borrow"`
}

type BorrowReq struct {
	ID                 string  `json:"id" binding:"required"`
	BorrowerName       string  `json:"borrower_name"`
	Amount             float64 `json:"amount"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	Purpose            string  `json:"purpose"`
}

type ReturnReq struct {
	ID     string  `json:"id" binding:"required"`
	Amount float64 `json:"amount"`
}

type DetailReq struct {
	ID string `uri:"id" json:"id" binding:"required"`
}

type SortField string

const (
	SortByID         SortField = "id"
	SortByName       SortField = "name"
	SortByExpiry     SortField = "expiry_date"
	SortByAmount     SortField = "current_amount"
	SortByStockRatio SortField = "stock_ratio"
)

type QueryReq struct {
	common.PageReq

	Status      string    `form:"status" json:"status"`
	CabinetID   string    `form:"cabinet_id" json:"cabinet_id"`
	Name        string    `form:"name" json:"name"`
	HazardClass string    `form:"hazard_class" json:"hazard_class"`
	SortBy      SortField `form:"sort_by" json:"sort_by"`
	Desc        bool      `form:"desc" json:"desc"`
}

// ReagentResp is a record with its status derived for today.
type ReagentResp struct {
	*reagent.Record
	Status     status.Status `json:"status"`
	SlotLabel  string        `json:"slot_label"`
	StockRatio float64       `json:"stock_ratio"`
}

type RestockResp struct {
	Reagent   *ReagentResp `json:"reagent"`
	Requested float64      `json:"requested"`
	Applied   float64      `json:"applied"`
	Excess    float64      `json:"excess"`
	Clamped   bool         `json:"clamped"`
}

type SummaryResp struct {
	Today         time.Time             `json:"today"`
	Total         int                   `json:"total"`
	Counts        map[status.Status]int `json:"counts"`
	TotalCapacity int                   `json:"total_capacity"`
	FreeSlots     int                   `json:"free_slots"`
}

type SlotResp struct {
	Shelf     int           `json:"shelf"`
	Position  int           `json:"position"`
	Label     string        `json:"label"`
	ReagentID string        `json:"reagent_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Status    status.Status `json:"status,omitempty"`
}

type CabinetResp struct {
	cabinet.Descriptor
	Capacity int         `json:"capacity"`
	Occupied int         `json:"occupied"`
	Slots    []*SlotResp `json:"slots"`
}

type AllocateReq struct {
	CabinetID string `form:"cabinet_id" json:"cabinet_id"`
}

type AllocateResp struct {
	CabinetID string       `json:"cabinet_id"`
	Slot      cabinet.Slot `json:"slot"`
	Label     string       `json:"label"`
}

type AutofillReq struct {
	Name string `form:"name" json:"name"`
	CAS  string `form:"cas" json:"cas"`
}

type AutofillSource string

const (
	SourceCatalog AutofillSource = "catalog"
	SourcePubChem AutofillSource = "pubchem"
)

type AutofillResp struct {
	Source          AutofillSource `json:"source"`
	Name            string         `json:"name"`
	Formula         string         `json:"formula"`
	CAS             string         `json:"cas"`
	HazardClass     string         `json:"hazard_class,omitempty"`
	State           string         `json:"state,omitempty"`
	Unit            string         `json:"unit,omitempty"`
	MolecularWeight float64        `json:"molecular_weight,omitempty"`
	Density         float64        `json:"density,omitempty"`
	BoilingPoint    float64        `json:"boiling_point,omitempty"`
	MeltingPoint    float64        `json:"melting_point,omitempty"`
	SMILES          string         `json:"smiles,omitempty"`
}

type ExportReq struct {
	Key string `json:"key"`
}

type ExportResp struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// OpStatus marks a broadcast caused by a status transition rather than a
// store mutation.
const OpStatus = "status"

type SweepResp struct {
	Today   time.Time      `json:"today"`
	Checked int            `json:"checked"`
	Changed []*ReagentResp `json:"changed"`
}

// Snapshot is the exported document.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Thresholds  status.Thresholds `json:"thresholds"`
	Summary     *SummaryResp      `json:"summary"`
	Reagents    []*ReagentResp    `json:"reagents"`
}
