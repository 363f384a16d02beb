package seed

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/core/store"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/utils"
)

const (
	DefaultCount = 80
	// DefaultExpiringDays applies when ExpiringDays is not set.
	DefaultExpiringDays = 30
)

// Seeder fills a store with a starting dataset.
type Seeder interface {
	Seed(ctx context.Context, s *store.Store) ([]*reagent.Record, error)
}

// Generator builds Count records cycling the catalog. Every tenth record
// family is forced into a status: index%10 == 1 critical, 3 low, 5 expiring
// soon, 7 expired, 9 partially borrowed.
type Generator struct {
	Count int
	Rand  *rand.Rand
	// Today anchors expiry dates; zero uses the store clock.
	Today time.Time
	// ExpiringDays must match the classifier window.
	ExpiringDays int
}

var borrowers = []string{"Li Wei", "Chen Jing", "Wang Fang", "Zhang Min", "Liu Yang", "Zhao Lei"}

var purposes = []string{"titration", "synthesis", "calibration", "teaching lab", "sample prep"}

// NewGenerator returns a generator; seed 0 picks a time based seed.
func NewGenerator(count int, seed int64, expiringDays int) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		Count:        count,
		Rand:         rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
		ExpiringDays: expiringDays,
	}
}

func (g *Generator) Seed(ctx context.Context, s *store.Store) ([]*reagent.Record, error) {
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	window := g.ExpiringDays
	if window <= 0 {
		window = DefaultExpiringDays
	}
	today := utils.Day(g.Today)
	if g.Today.IsZero() {
		today = s.Today()
	}

	cabinets := s.Allocator().Topology().ListCabinets()
	cat := s.Catalog()
	out := make([]*reagent.Record, 0, g.Count)
	cursor := 0

	for i := 0; i < g.Count; i++ {
		e := cat.At(i)
		capacity := store.ContainerSizes[i%len(store.ContainerSizes)]
		ratio := 0.3 + 0.7*g.Rand.Float64()
		expiry := utils.AddDays(today, window+30+g.Rand.IntN(700))

		switch i % 10 {
		case 1:
			ratio = 0.01 + 0.08*g.Rand.Float64()
		case 3:
			ratio = 0.11 + 0.08*g.Rand.Float64()
		case 5:
			expiry = utils.AddDays(today, 1)
			if window > 1 {
				expiry = utils.AddDays(today, 1+g.Rand.IntN(window-1))
			}
		case 7:
			expiry = utils.AddDays(today, -(1 + g.Rand.IntN(180)))
		}
		amount := round1(capacity * ratio)

		var (
			r   *reagent.Record
			err error
		)
		for tried := 0; tried < len(cabinets); tried++ {
			idx := (cursor + tried) % len(cabinets)
			r, err = s.Create(ctx, store.CreateInput{
				Name:          e.Name,
				Formula:       e.Formula,
				CAS:           e.CAS,
				CurrentAmount: &amount,
				Capacity:      capacity,
				CabinetID:     cabinets[idx].ID,
				ExpiryDate:    expiry,
			})
			if errors.Is(err, code.CabinetFullErr) {
				continue
			}
			cursor = (idx + 1) % len(cabinets)
			break
		}
		if errors.Is(err, code.CabinetFullErr) {
			err = code.NoCapacityErr.WithMsgf("seeded %d of %d", len(out), g.Count)
		}
		if err != nil {
			logger.Warnf(ctx, "seed stopped at %d: %+v", i, err)
			return out, err
		}

		if i%10 == 9 {
			lent := round1(r.CurrentAmount * (0.2 + 0.3*g.Rand.Float64()))
			if lent <= 0 {
				lent = r.CurrentAmount
			}
			r, err = s.Borrow(ctx, r.ID, store.BorrowInput{
				BorrowerName:       borrowers[g.Rand.IntN(len(borrowers))],
				Amount:             lent,
				ExpectedReturnDate: utils.AddDays(today, 3+g.Rand.IntN(14)),
				Purpose:            purposes[g.Rand.IntN(len(purposes))],
			})
			if err != nil {
				return out, err
			}
		}
		out = append(out, r)
	}
	logger.Infof(ctx, "seeded %d reagents", len(out))
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
