package model

import (
	"time"

	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/utils"
	"gorm.io/datatypes"
)

// Reagent is one row per live record. The location columns share a unique
// index so the database enforces one container per slot.
type Reagent struct {
	BaseModel
	ReagentID       string                                  `gorm:"type:varchar(32);uniqueIndex;not null" json:"reagent_id"`
	Name            string                                  `gorm:"type:varchar(255);not null;index:idx_reagent_name" json:"name"`
	Formula         string                                  `gorm:"type:varchar(128);not null" json:"formula"`
	CAS             string                                  `gorm:"type:varchar(64);index:idx_reagent_cas" json:"cas"`
	HazardClass     string                                  `gorm:"type:varchar(32)" json:"hazard_class"`
	State           string                                  `gorm:"type:varchar(16)" json:"state"`
	Unit            string                                  `gorm:"type:varchar(16)" json:"unit"`
	MolecularWeight float64                                 `json:"molecular_weight"`
	Density         float64                                 `json:"density"`
	BoilingPoint    float64                                 `json:"boiling_point"`
	MeltingPoint    float64                                 `json:"melting_point"`
	Capacity        float64                                 `gorm:"type:numeric(12,3);not null;check:capacity > 0" json:"capacity"`
	CurrentAmount   float64                                 `gorm:"type:numeric(12,3);not null;default:0;check:current_amount >= 0" json:"current_amount"`
	CabinetID       string                                  `gorm:"type:varchar(32);not null;uniqueIndex:idx_reagent_location" json:"cabinet_id"`
	Shelf           int                                     `gorm:"not null;uniqueIndex:idx_reagent_location" json:"shelf"`
	Position        int                                     `gorm:"not null;uniqueIndex:idx_reagent_location" json:"position"`
	ExpiryDate      datatypes.Date                          `gorm:"not null;index:idx_reagent_expiry_date" json:"expiry_date"`
	Borrow          datatypes.JSONType[*reagent.BorrowInfo] `gorm:"type:jsonb" json:"borrow"`
	RecordCreatedAt time.Time                               `gorm:"not null" json:"record_created_at"`
	LastUpdated     datatypes.Date                          `gorm:"not null" json:"last_updated"`
}

func (*Reagent) TableName() string { return "reagent" }

func FromRecord(r *reagent.Record) *Reagent {
	var borrow *reagent.BorrowInfo
	if r.Borrow != nil {
		b := *r.Borrow
		borrow = &b
	}
	return &Reagent{
		ReagentID:       r.ID,
		Name:            r.Name,
		Formula:         r.Formula,
		CAS:             r.CAS,
		HazardClass:     r.HazardClass,
		State:           r.State,
		Unit:            r.Unit,
		MolecularWeight: r.MolecularWeight,
		Density:         r.Density,
		BoilingPoint:    r.BoilingPoint,
		MeltingPoint:    r.MeltingPoint,
		Capacity:        r.Capacity,
		CurrentAmount:   r.CurrentAmount,
		CabinetID:       r.CabinetID,
		Shelf:           r.Slot.Shelf,
		Position:        r.Slot.Position,
		ExpiryDate:      datatypes.Date(r.ExpiryDate),
		Borrow:          datatypes.NewJSONType(borrow),
		RecordCreatedAt: r.CreatedAt,
		LastUpdated:     datatypes.Date(r.LastUpdated),
	}
}

func (m *Reagent) ToRecord() *reagent.Record {
	r := &reagent.Record{
		ID:              m.ReagentID,
		Name:            m.Name,
		Formula:         m.Formula,
		CAS:             m.CAS,
		HazardClass:     m.HazardClass,
		State:           m.State,
		Unit:            m.Unit,
		MolecularWeight: m.MolecularWeight,
		Density:         m.Density,
		BoilingPoint:    m.BoilingPoint,
		MeltingPoint:    m.MeltingPoint,
		Capacity:        m.Capacity,
		CurrentAmount:   m.CurrentAmount,
		CabinetID:       m.CabinetID,
		Slot:            cabinet.Slot{Shelf: m.Shelf, Position: m.Position},
		ExpiryDate:      utils.Day(time.Time(m.ExpiryDate)),
		CreatedAt:       m.RecordCreatedAt,
		LastUpdated:     utils.Day(time.Time(m.LastUpdated)),
	}
	if b := m.Borrow.Data(); b != nil {
		c := *b
		r.Borrow = &c
	}
	return r
}
