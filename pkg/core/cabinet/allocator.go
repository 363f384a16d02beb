package cabinet

import (
	"fmt"

	"github.com/scienceol/labstock/pkg/common/code"
)

// Slot addresses a position on a shelf, both 1-based.
type Slot struct {
	Shelf    int `json:"shelf"`
	Position int `json:"position"`
}

func (s Slot) String() string {
	return fmt.Sprintf("S%d-P%d", s.Shelf, s.Position)
}

func (s Slot) IsZero() bool { return s.Shelf == 0 && s.Position == 0 }

func ParseSlot(str string) (Slot, error) {
	var s Slot
	if _, err := fmt.Sscanf(str, "S%d-P%d", &s.Shelf, &s.Position); err != nil {
		return Slot{}, fmt.Errorf("parse slot %q: %w", str, err)
	}
	if s.Shelf < 1 || s.Position < 1 {
		return Slot{}, fmt.Errorf("parse slot %q: out of range", str)
	}
	return s, nil
}

type Location struct {
	CabinetID string `json:"cabinet_id"`
	Slot      Slot   `json:"slot"`
}

// Occupancy is the set of taken locations.
type Occupancy map[string]map[Slot]struct{}

func (o Occupancy) Add(loc Location) {
	slots, ok := o[loc.CabinetID]
	if !ok {
		slots = make(map[Slot]struct{})
		o[loc.CabinetID] = slots
	}
	slots[loc.Slot] = struct{}{}
}

func (o Occupancy) Remove(loc Location) {
	if slots, ok := o[loc.CabinetID]; ok {
		delete(slots, loc.Slot)
		if len(slots) == 0 {
			delete(o, loc.CabinetID)
		}
	}
}

func (o Occupancy) Has(loc Location) bool {
	_, ok := o[loc.CabinetID][loc.Slot]
	return ok
}

func (o Occupancy) Count(cabinetID string) int {
	return len(o[cabinetID])
}

func (o Occupancy) Clone() Occupancy {
	n := make(Occupancy, len(o))
	for id, slots := range o {
		c := make(map[Slot]struct{}, len(slots))
		for s := range slots {
			c[s] = struct{}{}
		}
		n[id] = c
	}
	return n
}

type Allocator struct {
	topology *Topology
}

func NewAllocator(t *Topology) *Allocator {
	return &Allocator{topology: t}
}

func (a *Allocator) Topology() *Topology { return a.topology }

// AllocateAny picks the least loaded cabinet that still has room, ties going
// to the earlier declared cabinet, and returns its first free slot.
func (a *Allocator) AllocateAny(occupied Occupancy) (Location, error) {
	best := -1
	bestCount := 0
	for i, c := range a.topology.cabinets {
		n := occupied.Count(c.ID)
		if n >= c.Capacity() {
			continue
		}
		if best == -1 || n < bestCount {
			best, bestCount = i, n
		}
	}
	if best == -1 {
		return Location{}, code.NoCapacityErr
	}
	c := a.topology.cabinets[best]
	slot, ok := firstFree(c, occupied[c.ID])
	if !ok {
		// count below capacity but no free slot means occupancy holds
		// slots outside the cabinet geometry
		panic(fmt.Sprintf("cabinet %s: occupancy %d below capacity but no free slot", c.ID, bestCount))
	}
	return Location{CabinetID: c.ID, Slot: slot}, nil
}

// AllocateInCabinet returns the first free slot of one cabinet.
func (a *Allocator) AllocateInCabinet(cabinetID string, occupied Occupancy) (Slot, error) {
	c, err := a.topology.Lookup(cabinetID)
	if err != nil {
		return Slot{}, err
	}
	slot, ok := firstFree(c, occupied[c.ID])
	if !ok {
		return Slot{}, code.CabinetFullErr.WithMsg(cabinetID)
	}
	return slot, nil
}

// Contains reports whether loc names a real cabinet position.
func (a *Allocator) Contains(loc Location) bool {
	c, err := a.topology.Lookup(loc.CabinetID)
	if err != nil {
		return false
	}
	return loc.Slot.Shelf >= 1 && loc.Slot.Shelf <= c.Shelves &&
		loc.Slot.Position >= 1 && loc.Slot.Position <= c.SlotsPerShelf
}

// firstFree scans shelf-major, position-minor.
func firstFree(c Descriptor, taken map[Slot]struct{}) (Slot, bool) {
	for shelf := 1; shelf <= c.Shelves; shelf++ {
		for pos := 1; pos <= c.SlotsPerShelf; pos++ {
			s := Slot{Shelf: shelf, Position: pos}
			if _, ok := taken[s]; !ok {
				return s, true
			}
		}
	}
	return Slot{}, false
}
