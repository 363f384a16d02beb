package inventory

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/utils"
)

// statusBook holds the status each record was last published with and the
// commit sequence it was computed at. Older updates are ignored.
type statusBook struct {
	mu   sync.Mutex
	last map[string]bookEntry

	// dropped keeps the sequence of disposed records.
	dropped map[string]uint64
}

type bookEntry struct {
	status status.Status
	seq    uint64
}

func newStatusBook() *statusBook {
	return &statusBook{
		last:    make(map[string]bookEntry),
		dropped: make(map[string]uint64),
	}
}

// set stores s at seq and reports whether it differs from the previous
// value. Updates older than the stored one report false.
func (b *statusBook) set(id string, s status.Status, seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gone, ok := b.dropped[id]; ok && seq <= gone {
		return false
	}
	prev, ok := b.last[id]
	if ok && seq < prev.seq {
		return false
	}
	b.last[id] = bookEntry{status: s, seq: seq}
	return !ok || prev.status != s
}

func (b *statusBook) drop(id string, seq uint64) {
	b.mu.Lock()
	delete(b.last, id)
	b.dropped[id] = seq
	b.mu.Unlock()
}

func (i *inventoryImpl) Sweep(ctx context.Context) (*core.SweepResp, error) {
	ctx, span := i.span(ctx, "sweep")
	defer span.End()

	var resp *core.SweepResp
	i.store.Snapshot(func(records []*reagent.Record, seq uint64) {
		today := i.store.Today()
		resp = &core.SweepResp{Today: today, Checked: len(records), Changed: []*core.ReagentResp{}}
		for _, r := range records {
			rr := i.toResp(r, today)
			if i.book.set(r.ID, rr.Status, seq) {
				resp.Changed = append(resp.Changed, rr)
				i.broadcast(ctx, core.OpStatus, rr)
			}
		}
	})
	span.SetAttributes(attribute.Int("changed", len(resp.Changed)))
	if len(resp.Changed) > 0 {
		logger.Infof(ctx, "inventory sweep %s: %d of %d records changed status",
			resp.Today.Format(time.DateOnly), len(resp.Changed), resp.Checked)
	}
	return resp, nil
}

// Watch runs svc.Sweep every interval until ctx is done. A non-positive
// interval disables it.
func Watch(ctx context.Context, svc core.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	utils.SafelyGo(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := svc.Sweep(ctx); err != nil {
					logger.Errorf(ctx, "inventory sweep err: %+v", err)
				}
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "inventory sweep loop err: %+v", err)
	})
}
