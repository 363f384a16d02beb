package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/core/store"
)

var today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func newStore() *store.Store {
	return store.New(catalog.Default(), cabinet.NewAllocator(cabinet.DefaultTopology()),
		store.WithClock(func() time.Time { return today.Add(8 * time.Hour) }))
}

func generator(count int) *Generator {
	return &Generator{Count: count, Rand: rand.New(rand.NewPCG(7, 11)), ExpiringDays: 30}
}

func TestSeedDefaultDataset(t *testing.T) {
	s := newStore()
	out, err := generator(DefaultCount).Seed(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, out, DefaultCount)
	assert.Equal(t, DefaultCount, s.Len())

	want := map[int]status.Status{
		1: status.CriticalStock,
		3: status.LowStock,
		5: status.ExpiringSoon,
		7: status.Expired,
		9: status.PartiallyBorrowed,
	}
	for i, r := range out {
		assert.True(t, r.AmountInRange())
		expected, ok := want[i%10]
		if !ok {
			expected = status.InStock
		}
		assert.Equal(t, expected, status.Classify(r, today), "record %d %s", i, r.ID)
		assert.Equal(t, store.ContainerSizes[i%len(store.ContainerSizes)], r.Capacity)
		assert.Equal(t, catalog.Default().At(i).Name, r.Name)
	}
}

func TestSeedRoundRobinCabinets(t *testing.T) {
	s := newStore()
	out, err := generator(14).Seed(context.Background(), s)
	require.NoError(t, err)

	cabinets := s.Allocator().Topology().ListCabinets()
	for i, r := range out {
		assert.Equal(t, cabinets[i%len(cabinets)].ID, r.CabinetID)
	}
	for _, c := range cabinets {
		assert.Equal(t, 2, s.Occupancy().Count(c.ID))
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, err := generator(30).Seed(context.Background(), newStore())
	require.NoError(t, err)
	b, err := generator(30).Seed(context.Background(), newStore())
	require.NoError(t, err)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].CurrentAmount, b[i].CurrentAmount)
		assert.Equal(t, a[i].ExpiryDate, b[i].ExpiryDate)
		assert.Equal(t, a[i].Location(), b[i].Location())
	}
}

func TestSeedSkipsFullCabinets(t *testing.T) {
	s := newStore()
	capacity, err := s.Allocator().Topology().CapacityOf("COR-A")
	require.NoError(t, err)
	amount := 1.0
	for i := 0; i < capacity; i++ {
		_, err := s.Create(context.Background(), store.CreateInput{Name: "Water", Formula: "H2O", CurrentAmount: &amount, CabinetID: "COR-A"})
		require.NoError(t, err)
	}

	out, err := generator(10).Seed(context.Background(), s)
	require.NoError(t, err)
	for _, r := range out {
		assert.NotEqual(t, "COR-A", r.CabinetID)
	}
}

func TestSeedSurfacesNoCapacity(t *testing.T) {
	s := newStore()
	total := s.Allocator().Topology().TotalCapacity()

	out, err := generator(total + 5).Seed(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.NoCapacityErr))
	assert.Len(t, out, total)
	assert.Equal(t, total, s.Len())
}

func TestSeedFollowsCustomExpiringWindow(t *testing.T) {
	for _, window := range []int{1, 2, 7} {
		s := newStore()
		g := &Generator{Count: 40, Rand: rand.New(rand.NewPCG(3, 5)), ExpiringDays: window}
		out, err := g.Seed(context.Background(), s)
		require.NoError(t, err)

		c := status.NewClassifier(status.Thresholds{ExpiringDays: window})
		seen := map[status.Status]int{}
		for i, r := range out {
			got := c.Classify(r, today)
			seen[got]++
			if i%10 == 5 {
				assert.Equal(t, status.ExpiringSoon, got, "window %d record %d", window, i)
			}
		}
		for _, st := range status.All {
			assert.NotZero(t, seen[st], "window %d has no %s record", window, st)
		}
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	g := NewGenerator(0, 42, 30)
	assert.Equal(t, DefaultCount, g.Count)
	require.NotNil(t, g.Rand)

	var _ Seeder = g
}
