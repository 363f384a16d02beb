package catalog

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Entry is static reference data for one chemical.
type Entry struct {
	Name            string  `yaml:"name" json:"name"`
	Formula         string  `yaml:"formula" json:"formula"`
	CAS             string  `yaml:"cas" json:"cas"`
	HazardClass     string  `yaml:"hazard_class" json:"hazard_class"`
	State           string  `yaml:"state" json:"state"`
	Unit            string  `yaml:"unit" json:"unit"`
	MolecularWeight float64 `yaml:"molecular_weight" json:"molecular_weight"`
	Density         float64 `yaml:"density" json:"density"`
	BoilingPoint    float64 `yaml:"boiling_point" json:"boiling_point"`
	MeltingPoint    float64 `yaml:"melting_point" json:"melting_point"`
}

type Catalog struct {
	entries []Entry
	byName  map[string]int
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: no entries")
	}
	c := &Catalog{
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		k := key(e.Name)
		if k == "" {
			return nil, fmt.Errorf("catalog: entry %d has no name", i)
		}
		if _, ok := c.byName[k]; ok {
			return nil, fmt.Errorf("catalog: duplicate entry %q", e.Name)
		}
		c.byName[k] = i
	}
	return c, nil
}

// Load reads a YAML list of entries.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", path, err)
	}
	return New(entries)
}

// Lookup matches name case-insensitively, ignoring surrounding space.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[key(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) Random(r *rand.Rand) Entry {
	return c.entries[r.IntN(len(c.entries))]
}

func (c *Catalog) At(i int) Entry {
	return c.entries[i%len(c.entries)]
}

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func Default() *Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		panic(err)
	}
	return c
}
