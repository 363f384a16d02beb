package cabinet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/scienceol/labstock/pkg/common/code"
)

type Family string

const (
	Standard  Family = "standard"
	Corrosive Family = "corrosive"
	Safety    Family = "safety"
)

// slotsPerShelf is fixed per family.
var slotsPerShelf = map[Family]int{
	Standard:  5,
	Corrosive: 4,
	Safety:    4,
}

type Descriptor struct {
	ID            string `yaml:"id" json:"id"`
	Family        Family `yaml:"family" json:"family"`
	Shelves       int    `yaml:"shelves" json:"shelves"`
	SlotsPerShelf int    `yaml:"slots_per_shelf" json:"slots_per_shelf"`
}

func (d Descriptor) Capacity() int {
	return d.Shelves * d.SlotsPerShelf
}

// Topology is the static cabinet table; it is never mutated after construction.
type Topology struct {
	cabinets []Descriptor
	index    map[string]int
}

func NewTopology(cabinets []Descriptor) (*Topology, error) {
	if len(cabinets) == 0 {
		return nil, fmt.Errorf("topology: no cabinets")
	}
	t := &Topology{
		cabinets: make([]Descriptor, len(cabinets)),
		index:    make(map[string]int, len(cabinets)),
	}
	copy(t.cabinets, cabinets)
	for i, c := range t.cabinets {
		if c.ID == "" {
			return nil, fmt.Errorf("topology: cabinet %d has no id", i)
		}
		if _, ok := t.index[c.ID]; ok {
			return nil, fmt.Errorf("topology: duplicate cabinet %s", c.ID)
		}
		want, ok := slotsPerShelf[c.Family]
		if !ok {
			return nil, fmt.Errorf("topology: cabinet %s has unknown family %q", c.ID, c.Family)
		}
		if c.SlotsPerShelf == 0 {
			t.cabinets[i].SlotsPerShelf = want
		} else if c.SlotsPerShelf != want {
			return nil, fmt.Errorf("topology: cabinet %s has %d slots per shelf, family %s uses %d",
				c.ID, c.SlotsPerShelf, c.Family, want)
		}
		if c.Shelves <= 0 {
			return nil, fmt.Errorf("topology: cabinet %s has no shelves", c.ID)
		}
		t.index[c.ID] = i
	}
	return t, nil
}

// LoadTopology reads a YAML list of cabinet descriptors.
func LoadTopology(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: read %s: %w", path, err)
	}
	var cabinets []Descriptor
	if err := yaml.Unmarshal(data, &cabinets); err != nil {
		return nil, fmt.Errorf("topology: decode %s: %w", path, err)
	}
	return NewTopology(cabinets)
}

func DefaultTopology() *Topology {
	t, err := NewTopology([]Descriptor{
		{ID: "STD-A", Family: Standard, Shelves: 4, SlotsPerShelf: 5},
		{ID: "STD-B", Family: Standard, Shelves: 4, SlotsPerShelf: 5},
		{ID: "STD-C", Family: Standard, Shelves: 4, SlotsPerShelf: 5},
		{ID: "COR-A", Family: Corrosive, Shelves: 5, SlotsPerShelf: 4},
		{ID: "COR-B", Family: Corrosive, Shelves: 5, SlotsPerShelf: 4},
		{ID: "SAF-A", Family: Safety, Shelves: 5, SlotsPerShelf: 4},
		{ID: "SAF-B", Family: Safety, Shelves: 5, SlotsPerShelf: 4},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// ListCabinets returns all cabinets in declaration order.
func (t *Topology) ListCabinets() []Descriptor {
	out := make([]Descriptor, len(t.cabinets))
	copy(out, t.cabinets)
	return out
}

func (t *Topology) Lookup(id string) (Descriptor, error) {
	i, ok := t.index[id]
	if !ok {
		return Descriptor{}, code.UnknownCabinetErr.WithMsg(id)
	}
	return t.cabinets[i], nil
}

func (t *Topology) CapacityOf(id string) (int, error) {
	d, err := t.Lookup(id)
	if err != nil {
		return 0, err
	}
	return d.Capacity(), nil
}

func (t *Topology) SlotsPerShelfOf(id string) (int, error) {
	d, err := t.Lookup(id)
	if err != nil {
		return 0, err
	}
	return slotsPerShelf[d.Family], nil
}

// TotalCapacity sums the capacity of every cabinet.
func (t *Topology) TotalCapacity() int {
	n := 0
	for _, c := range t.cabinets {
		n += c.Capacity()
	}
	return n
}
