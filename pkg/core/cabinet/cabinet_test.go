package cabinet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labstock/pkg/common/code"
)

func fill(o Occupancy, d Descriptor) {
	for shelf := 1; shelf <= d.Shelves; shelf++ {
		for pos := 1; pos <= d.SlotsPerShelf; pos++ {
			o.Add(Location{CabinetID: d.ID, Slot: Slot{Shelf: shelf, Position: pos}})
		}
	}
}

func TestTopologyLookups(t *testing.T) {
	topo := DefaultTopology()
	cabinets := topo.ListCabinets()
	require.Len(t, cabinets, 7)
	assert.Equal(t, "STD-A", cabinets[0].ID)

	n, err := topo.CapacityOf("COR-A")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = topo.SlotsPerShelfOf("STD-B")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = topo.SlotsPerShelfOf("SAF-A")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = topo.CapacityOf("NOPE")
	assert.True(t, errors.Is(err, code.UnknownCabinetErr))
	_, err = topo.SlotsPerShelfOf("NOPE")
	assert.True(t, errors.Is(err, code.UnknownCabinetErr))

	assert.Equal(t, 140, topo.TotalCapacity())
}

func TestNewTopologyValidates(t *testing.T) {
	_, err := NewTopology([]Descriptor{{ID: "X", Family: Standard, Shelves: 2, SlotsPerShelf: 4}})
	assert.Error(t, err, "standard cabinets hold 5 per shelf")

	_, err = NewTopology([]Descriptor{{ID: "X", Family: "fridge", Shelves: 2}})
	assert.Error(t, err)

	_, err = NewTopology([]Descriptor{
		{ID: "X", Family: Safety, Shelves: 2},
		{ID: "X", Family: Safety, Shelves: 2},
	})
	assert.Error(t, err)

	topo, err := NewTopology([]Descriptor{{ID: "X", Family: Safety, Shelves: 2}})
	require.NoError(t, err)
	n, _ := topo.CapacityOf("X")
	assert.Equal(t, 8, n)
}

func TestListCabinetsIsCopy(t *testing.T) {
	topo := DefaultTopology()
	list := topo.ListCabinets()
	list[0].Shelves = 99
	n, _ := topo.CapacityOf("STD-A")
	assert.Equal(t, 20, n)
}

func TestAllocateAnyEmptyStore(t *testing.T) {
	a := NewAllocator(DefaultTopology())
	loc, err := a.AllocateAny(Occupancy{})
	require.NoError(t, err)
	assert.Equal(t, Location{CabinetID: "STD-A", Slot: Slot{Shelf: 1, Position: 1}}, loc)
}

func TestAllocateAnyPrefersLeastLoaded(t *testing.T) {
	a := NewAllocator(DefaultTopology())
	o := Occupancy{}
	for _, id := range []string{"STD-A", "STD-B", "STD-C", "COR-A", "COR-B", "SAF-A"} {
		o.Add(Location{CabinetID: id, Slot: Slot{Shelf: 1, Position: 1}})
	}
	loc, err := a.AllocateAny(o)
	require.NoError(t, err)
	assert.Equal(t, "SAF-B", loc.CabinetID)

	o.Add(loc)
	loc, err = a.AllocateAny(o)
	require.NoError(t, err)
	assert.Equal(t, Location{CabinetID: "STD-A", Slot: Slot{Shelf: 1, Position: 2}}, loc)
}

func TestAllocateShelfMajorOrder(t *testing.T) {
	a := NewAllocator(DefaultTopology())
	o := Occupancy{}
	for pos := 1; pos <= 5; pos++ {
		o.Add(Location{CabinetID: "STD-A", Slot: Slot{Shelf: 1, Position: pos}})
	}
	o.Add(Location{CabinetID: "STD-A", Slot: Slot{Shelf: 2, Position: 1}})

	s, err := a.AllocateInCabinet("STD-A", o)
	require.NoError(t, err)
	assert.Equal(t, Slot{Shelf: 2, Position: 2}, s)

	o.Remove(Location{CabinetID: "STD-A", Slot: Slot{Shelf: 1, Position: 3}})
	s, err = a.AllocateInCabinet("STD-A", o)
	require.NoError(t, err)
	assert.Equal(t, Slot{Shelf: 1, Position: 3}, s)
}

func TestFullCabinet(t *testing.T) {
	topo := DefaultTopology()
	a := NewAllocator(topo)
	cor, err := topo.Lookup("COR-A")
	require.NoError(t, err)
	require.Equal(t, 5, cor.Shelves)
	require.Equal(t, 4, cor.SlotsPerShelf)

	o := Occupancy{}
	fill(o, cor)
	assert.Equal(t, 20, o.Count("COR-A"))

	_, err = a.AllocateInCabinet("COR-A", o)
	assert.True(t, errors.Is(err, code.CabinetFullErr))

	loc, err := a.AllocateAny(o)
	require.NoError(t, err)
	assert.NotEqual(t, "COR-A", loc.CabinetID)

	_, err = a.AllocateInCabinet("NOPE", o)
	assert.True(t, errors.Is(err, code.UnknownCabinetErr))
}

func TestNoCapacity(t *testing.T) {
	topo := DefaultTopology()
	a := NewAllocator(topo)
	o := Occupancy{}
	for _, d := range topo.ListCabinets() {
		fill(o, d)
	}
	_, err := a.AllocateAny(o)
	assert.True(t, errors.Is(err, code.NoCapacityErr))
}

func TestSlotParse(t *testing.T) {
	s, err := ParseSlot("S3-P2")
	require.NoError(t, err)
	assert.Equal(t, Slot{Shelf: 3, Position: 2}, s)
	assert.Equal(t, "S3-P2", s.String())

	_, err = ParseSlot("3-2")
	assert.Error(t, err)
	_, err = ParseSlot("S0-P1")
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	a := NewAllocator(DefaultTopology())
	assert.True(t, a.Contains(Location{CabinetID: "STD-A", Slot: Slot{Shelf: 4, Position: 5}}))
	assert.False(t, a.Contains(Location{CabinetID: "STD-A", Slot: Slot{Shelf: 5, Position: 1}}))
	assert.False(t, a.Contains(Location{CabinetID: "COR-A", Slot: Slot{Shelf: 1, Position: 5}}))
	assert.False(t, a.Contains(Location{CabinetID: "X", Slot: Slot{Shelf: 1, Position: 1}}))
}

func TestLoadTopology(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: FL-1
  family: safety
  shelves: 2
- id: ST-1
  family: standard
  shelves: 1
  slots_per_shelf: 5
`), 0o600))
	topo, err := LoadTopology(path)
	require.NoError(t, err)
	assert.Equal(t, 13, topo.TotalCapacity())
}
