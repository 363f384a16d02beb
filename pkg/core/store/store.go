package store

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/repo"
	"github.com/scienceol/labstock/pkg/utils"
)

const (
	idPrefix = "RG-"
	// amounts closer than this are treated as equal
	epsilon = 1e-9
)

// ContainerSizes are the standard container capacities, ascending.
var ContainerSizes = []float64{100, 250, 500, 1000, 2500}

// DefaultShelfLife applies when a new record has no expiry date.
const DefaultShelfLife = 2 * 365

type Option func(*Store)

// WithRepo makes every mutation write through to r before it is committed.
func WithRepo(r repo.ReagentRepo) Option {
	return func(s *Store) { s.repo = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rand = r }
}

// WithCatalogFallback controls whether a create without a catalog match
// borrows the properties of a random catalog entry.
func WithCatalogFallback(enabled bool) Option {
	return func(s *Store) { s.fallback = enabled }
}

// Store is the in-memory reagent collection. All mutations run under one
// mutex so a check and the write it guards never interleave with another call.
type Store struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	allocator *cabinet.Allocator
	repo      repo.ReagentRepo
	now       func() time.Time
	rand      *rand.Rand
	fallback  bool
	records   map[string]*reagent.Record
	occupied  cabinet.Occupancy
	seq       uint64

	// version counts committed changes; Change.Seq carries it.
	version uint64

	pending []Change

	// delivered is the last sequence handed to subscribers; batches wait
	// their turn on turn so delivery follows commit order.
	deliverMu sync.Mutex
	turn      *sync.Cond
	delivered uint64

	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

func New(c *catalog.Catalog, a *cabinet.Allocator, opts ...Option) *Store {
	s := &Store{
		catalog:   c,
		allocator: a,
		now:       time.Now,
		rand:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		fallback:  true,
		records:   make(map[string]*reagent.Record),
		occupied:  cabinet.Occupancy{},
		subs:      make(map[int]func(Change)),
	}
	s.turn = sync.NewCond(&s.deliverMu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Catalog() *catalog.Catalog { return s.catalog }

func (s *Store) Allocator() *cabinet.Allocator { return s.allocator }

func (s *Store) Today() time.Time { return utils.Day(s.now()) }

// Load replaces the in-memory state with the repo contents.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	list, err := s.repo.ListReagents(ctx)
	if err != nil {
		return code.QueryRecordErr.WithErr(err)
	}

	records := make(map[string]*reagent.Record, len(list))
	occupied := cabinet.Occupancy{}
	var seq uint64
	for _, r := range list {
		if _, ok := records[r.ID]; ok {
			return code.InvariantViolationErr.WithMsgf("duplicate record %s", r.ID)
		}
		if !(r.Capacity > 0) || !r.AmountInRange() {
			return code.InvariantViolationErr.WithMsgf("record %s amount %v outside [0, %v]", r.ID, r.CurrentAmount, r.Capacity)
		}
		loc := r.Location()
		if !s.allocator.Contains(loc) {
			return code.UnknownCabinetErr.WithMsgf("record %s at %s/%s", r.ID, loc.CabinetID, loc.Slot)
		}
		if occupied.Has(loc) {
			return code.InvariantViolationErr.WithMsgf("record %s shares %s/%s", r.ID, loc.CabinetID, loc.Slot)
		}
		occupied.Add(loc)
		records[r.ID] = r.Clone()
		if n := parseSeq(r.ID); n > seq {
			seq = n
		}
	}

	s.mu.Lock()
	s.records, s.occupied, s.seq = records, occupied, seq
	s.mu.Unlock()
	logger.Infof(ctx, "inventory loaded %d records", len(records))
	return nil
}

func parseSeq(id string) uint64 {
	var n uint64
	if _, err := fmt.Sscanf(strings.TrimPrefix(id, idPrefix), "%d", &n); err != nil {
		return 0
	}
	return n
}

// DefaultCapacity picks the smallest standard container holding amount.
func DefaultCapacity(amount float64) float64 {
	for _, c := range ContainerSizes {
		if amount <= c {
			return c
		}
	}
	return amount
}

func (s *Store) Create(ctx context.Context, in CreateInput) (*reagent.Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, code.ValidationErr.WithField("name")
	}
	if strings.TrimSpace(in.Formula) == "" {
		return nil, code.ValidationErr.WithField("formula")
	}
	if in.CurrentAmount == nil || !finite(*in.CurrentAmount) {
		return nil, code.ValidationErr.WithField("currentAmount")
	}
	amount := *in.CurrentAmount
	capacity := in.Capacity
	if capacity < 0 || !finite(capacity) {
		return nil, code.ValidationErr.WithField("capacity")
	}
	if capacity == 0 {
		capacity = DefaultCapacity(amount)
	}
	if amount < 0 || amount > capacity {
		return nil, code.InvariantViolationErr.WithMsgf("amount %v outside [0, %v]", amount, capacity)
	}

	s.mu.Lock()
	defer s.unlock()

	var loc cabinet.Location
	if in.CabinetID != "" {
		slot, err := s.allocator.AllocateInCabinet(in.CabinetID, s.occupied)
		if err != nil {
			return nil, err
		}
		loc = cabinet.Location{CabinetID: in.CabinetID, Slot: slot}
	} else {
		var err error
		if loc, err = s.allocator.AllocateAny(s.occupied); err != nil {
			return nil, err
		}
	}

	now := s.now()
	today := utils.Day(now)
	r := &reagent.Record{
		ID:            fmt.Sprintf("%s%06d", idPrefix, s.seq+1),
		Name:          strings.TrimSpace(in.Name),
		Formula:       strings.TrimSpace(in.Formula),
		CAS:           strings.TrimSpace(in.CAS),
		Capacity:      capacity,
		CurrentAmount: amount,
		CabinetID:     loc.CabinetID,
		Slot:          loc.Slot,
		ExpiryDate:    utils.Day(in.ExpiryDate),
		CreatedAt:     now,
		LastUpdated:   today,
	}
	if in.ExpiryDate.IsZero() {
		r.ExpiryDate = utils.AddDays(today, DefaultShelfLife)
	}
	if e, ok := s.catalog.Lookup(r.Name); ok {
		r.ApplyCatalog(e)
	} else if s.fallback {
		r.ApplyCatalog(s.catalog.Random(s.rand))
	}

	if err := s.persist(ctx, r); err != nil {
		return nil, err
	}
	s.seq++
	s.records[r.ID] = r
	s.occupied.Add(loc)
	s.publish(OpCreate, r)
	return r.Clone(), nil
}

func (s *Store) Outbound(ctx context.Context, id string, quantity float64) (*reagent.Record, error) {
	s.mu.Lock()
	defer s.unlock()

	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !validQuantity(quantity) || quantity > cur.CurrentAmount+epsilon {
		return nil, code.InvalidQuantityErr.WithMsgf("outbound %v of %v", quantity, cur.CurrentAmount)
	}
	next := cur.Clone()
	next.CurrentAmount = clampAmount(cur.CurrentAmount-quantity, next.Capacity)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.publish(OpOutbound, next)
	return next.Clone(), nil
}

// Restock adds quantity up to capacity; the result reports how much was
// applied and how much did not fit.
func (s *Store) Restock(ctx context.Context, id string, quantity float64) (*RestockResult, error) {
	if !validQuantity(quantity) {
		return nil, code.InvalidQuantityErr.WithMsgf("restock %v", quantity)
	}

	s.mu.Lock()
	defer s.unlock()

	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	applied := quantity
	if room := cur.Capacity - cur.CurrentAmount; applied > room {
		applied = room
	}
	next := cur.Clone()
	next.CurrentAmount = clampAmount(cur.CurrentAmount+applied, cur.Capacity)
	next.LastUpdated = utils.Day(s.now())
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.publish(OpRestock, next)
	return &RestockResult{
		Record:    next.Clone(),
		Requested: quantity,
		Applied:   applied,
		Excess:    quantity - applied,
		Clamped:   applied < quantity,
	}, nil
}

// Dispose removes the record and frees its slot.
func (s *Store) Dispose(ctx context.Context, id string) (*reagent.Record, error) {
	s.mu.Lock()
	defer s.unlock()

	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if s.repo != nil {
		if err := s.repo.DeleteReagent(ctx, id); err != nil {
			logger.Errorf(ctx, "dispose %s err: %+v", id, err)
			return nil, code.DeleteDataErr.WithErr(err)
		}
	}
	delete(s.records, id)
	s.occupied.Remove(cur.Location())
	s.publish(OpDispose, cur)
	return cur.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id string, p Patch) (*reagent.Record, error) {
	s.mu.Lock()
	defer s.unlock()

	next, err := s.update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.publish(OpUpdate, next)
	return next.Clone(), nil
}

// update merges p into a copy of the record and commits it. Caller holds mu.
func (s *Store) update(ctx context.Context, id string, p Patch) (*reagent.Record, error) {
	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	next := cur.Clone()
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, code.ValidationErr.WithField("name")
		}
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Formula != nil {
		if strings.TrimSpace(*p.Formula) == "" {
			return nil, code.ValidationErr.WithField("formula")
		}
		next.Formula = strings.TrimSpace(*p.Formula)
	}
	if p.CurrentAmount != nil {
		if !finite(*p.CurrentAmount) {
			return nil, code.ValidationErr.WithField("currentAmount")
		}
		next.CurrentAmount = *p.CurrentAmount
	}
	if p.ExpiryDate != nil {
		next.ExpiryDate = utils.Day(*p.ExpiryDate)
	}
	if p.ClearBorrow {
		next.Borrow = nil
	} else if p.Borrow != nil {
		if !finite(p.Borrow.BorrowedAmount) {
			return nil, code.ValidationErr.WithField("borrowedAmount")
		}
		b := *p.Borrow
		next.Borrow = &b
	}

	if !next.AmountInRange() {
		return nil, code.InvariantViolationErr.WithMsgf("amount %v outside [0, %v]", next.CurrentAmount, next.Capacity)
	}
	if next.Borrow != nil && next.Borrow.BorrowedAmount < 0 {
		return nil, code.InvariantViolationErr.WithMsgf("borrowed amount %v", next.Borrow.BorrowedAmount)
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Borrow moves amount from the shelf into the record's borrow entry.
func (s *Store) Borrow(ctx context.Context, id string, in BorrowInput) (*reagent.Record, error) {
	if strings.TrimSpace(in.BorrowerName) == "" {
		return nil, code.ValidationErr.WithField("borrowerName")
	}
	if !validQuantity(in.Amount) {
		return nil, code.InvalidQuantityErr.WithMsgf("borrow %v", in.Amount)
	}

	s.mu.Lock()
	defer s.unlock()

	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if in.Amount > cur.CurrentAmount+epsilon {
		return nil, code.InvalidQuantityErr.WithMsgf("borrow %v of %v", in.Amount, cur.CurrentAmount)
	}

	b := reagent.BorrowInfo{
		BorrowerName:       strings.TrimSpace(in.BorrowerName),
		BorrowedAmount:     in.Amount,
		BorrowDate:         utils.Day(s.now()),
		ExpectedReturnDate: utils.Day(in.ExpectedReturnDate),
		Purpose:            in.Purpose,
	}
	if cur.Borrowed() {
		b.BorrowedAmount += cur.Borrow.BorrowedAmount
	}
	amount := clampAmount(cur.CurrentAmount-in.Amount, cur.Capacity)
	next, err := s.update(ctx, id, Patch{CurrentAmount: &amount, Borrow: &b})
	if err != nil {
		return nil, err
	}
	s.publish(OpBorrow, next)
	return next.Clone(), nil
}

// Return puts borrowed quantity back on the shelf, clamped at capacity.
func (s *Store) Return(ctx context.Context, id string, amount float64) (*reagent.Record, error) {
	if !validQuantity(amount) {
		return nil, code.InvalidQuantityErr.WithMsgf("return %v", amount)
	}

	s.mu.Lock()
	defer s.unlock()

	cur, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if !cur.Borrowed() {
		return nil, code.RecordNotFound.WithMsgf("no active borrow on %s", id)
	}
	if amount > cur.Borrow.BorrowedAmount+epsilon {
		return nil, code.InvalidQuantityErr.WithMsgf("return %v of %v", amount, cur.Borrow.BorrowedAmount)
	}

	onShelf := clampAmount(cur.CurrentAmount+amount, cur.Capacity)
	p := Patch{CurrentAmount: &onShelf}
	if remaining := cur.Borrow.BorrowedAmount - amount; remaining <= epsilon {
		p.ClearBorrow = true
	} else {
		b := *cur.Borrow
		b.BorrowedAmount = remaining
		p.Borrow = &b
	}
	next, err := s.update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.publish(OpReturn, next)
	return next.Clone(), nil
}

func (s *Store) Get(id string) (*reagent.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// List returns copies of every record ordered by id.
func (s *Store) List() []*reagent.Record {
	s.mu.Lock()
	out := s.list()
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// list copies the records. Caller holds mu.
func (s *Store) list() []*reagent.Record {
	out := make([]*reagent.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Occupancy returns a copy of the taken locations.
func (s *Store) Occupancy() cabinet.Occupancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupied.Clone()
}

func (s *Store) get(id string) (*reagent.Record, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, code.RecordNotFound.WithMsg(id)
	}
	return r, nil
}

// commit persists next and swaps it in. Location never changes after create.
func (s *Store) commit(ctx context.Context, next *reagent.Record) error {
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.records[next.ID] = next
	return nil
}

func (s *Store) persist(ctx context.Context, r *reagent.Record) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveReagent(ctx, r); err != nil {
		logger.Errorf(ctx, "save reagent %s err: %+v", r.ID, err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validQuantity(q float64) bool {
	return finite(q) && q > 0
}

func clampAmount(v, capacity float64) float64 {
	switch {
	case v < epsilon:
		return 0
	case v > capacity:
		return capacity
	}
	return v
}
