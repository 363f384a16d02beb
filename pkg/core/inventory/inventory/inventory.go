package inventory

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/scienceol/labstock/pkg/common"
	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/core/catalog"
	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/core/store"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/middleware/metrics"
	"github.com/scienceol/labstock/pkg/middleware/trace"
	"github.com/scienceol/labstock/pkg/repo"
	"github.com/scienceol/labstock/pkg/utils"
)

type inventoryImpl struct {
	store      *store.Store
	classifier *status.Classifier
	pubchem    repo.PubChemRepo
	snapshot   repo.SnapshotRepo
	msgCenter  notify.MsgCenter
	metrics    *metrics.Metrics

	tracer  oteltrace.Tracer
	changes metric.Int64Counter
	seq     atomic.Uint64
	book    *statusBook
	unsub   func()
}

type Option func(*inventoryImpl)

func WithPubChem(p repo.PubChemRepo) Option {
	return func(i *inventoryImpl) { i.pubchem = p }
}

func WithSnapshot(s repo.SnapshotRepo) Option {
	return func(i *inventoryImpl) { i.snapshot = s }
}

// WithMsgCenter broadcasts every committed change as an inventory-modify message.
func WithMsgCenter(m notify.MsgCenter) Option {
	return func(i *inventoryImpl) { i.msgCenter = m }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *inventoryImpl) { i.metrics = m }
}

func New(ctx context.Context, st *store.Store, classifier *status.Classifier, opts ...Option) core.Service {
	if classifier == nil {
		classifier = status.NewClassifier(status.DefaultThresholds)
	}
	i := &inventoryImpl{
		store:      st,
		classifier: classifier,
		tracer:     trace.Tracer(),
		book:       newStatusBook(),
	}
	for _, opt := range opts {
		opt(i)
	}

	changes, err := trace.Meter().Int64Counter("labstock.inventory.changes",
		metric.WithDescription("Committed inventory mutations."))
	if err != nil {
		logger.Warnf(ctx, "create changes counter err: %+v", err)
	}
	i.changes = changes
	i.unsub = st.Subscribe(i.onChange)
	st.Snapshot(func(records []*reagent.Record, seq uint64) {
		today := st.Today()
		for _, r := range records {
			i.book.set(r.ID, classifier.Classify(r, today), seq)
		}
	})
	return i
}

// onChange runs after the store lock is released, in commit order.
func (i *inventoryImpl) onChange(c store.Change) {
	ctx := context.Background()
	if i.changes != nil {
		i.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("op", string(c.Op))))
	}
	resp := i.toResp(c.Record, i.store.Today())
	if c.Op == store.OpDispose {
		i.book.drop(c.Record.ID, c.Seq)
	} else {
		i.book.set(c.Record.ID, resp.Status, c.Seq)
	}
	i.broadcast(ctx, string(c.Op), resp)
}

func (i *inventoryImpl) broadcast(ctx context.Context, op string, resp *core.ReagentResp) {
	if i.msgCenter == nil {
		return
	}
	msg := &notify.SendMsg{
		Channel: notify.InventoryModify,
		Op:      op,
		Seq:     i.seq.Add(1),
		Data:    resp,
	}
	if err := i.msgCenter.Broadcast(ctx, msg); err != nil {
		logger.Errorf(ctx, "broadcast %s %s err: %+v", op, resp.ID, err)
	}
}

func (i *inventoryImpl) toResp(r *reagent.Record, today time.Time) *core.ReagentResp {
	resp := &core.ReagentResp{
		Record:    r,
		Status:    i.classifier.Classify(r, today),
		SlotLabel: r.Slot.String(),
	}
	if r.Capacity > 0 {
		resp.StockRatio = r.CurrentAmount / r.Capacity
	}
	return resp
}

func (i *inventoryImpl) observe(op store.Op, err error) {
	if i.metrics != nil {
		i.metrics.ObserveOp(string(op), err)
	}
}

func (i *inventoryImpl) span(ctx context.Context, name string, kv ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return i.tracer.Start(ctx, "inventory."+name, oteltrace.WithAttributes(kv...))
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, code.ValidationErr.WithField(field).WithMsg(fmt.Sprintf("invalid date %q", s))
	}
	return utils.Day(t), nil
}

func (i *inventoryImpl) Create(ctx context.Context, req *core.CreateReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "create", attribute.String("name", req.Name))
	defer func() { endSpan(span, err); i.observe(store.OpCreate, err) }()

	expiry, err := parseDate("expiryDate", req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	r, err := i.store.Create(ctx, store.CreateInput{
		Name:          req.Name,
		Formula:       req.Formula,
		CAS:           req.CAS,
		CurrentAmount: req.CurrentAmount,
		Capacity:      req.Capacity,
		CabinetID:     req.CabinetID,
		ExpiryDate:    expiry,
	})
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Outbound(ctx context.Context, req *core.QuantityReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "outbound", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpOutbound, err) }()

	r, err := i.store.Outbound(ctx, req.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Restock(ctx context.Context, req *core.QuantityReq) (resp *core.RestockResp, err error) {
	ctx, span := i.span(ctx, "restock", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpRestock, err) }()

	res, err := i.store.Restock(ctx, req.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return &core.RestockResp{
		Reagent:   i.toResp(res.Record, i.store.Today()),
		Requested: res.Requested,
		Applied:   res.Applied,
		Excess:    res.Excess,
		Clamped:   res.Clamped,
	}, nil
}

func (i *inventoryImpl) Dispose(ctx context.Context, req *core.DisposeReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "dispose", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpDispose, err) }()

	r, err := i.store.Dispose(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Update(ctx context.Context, req *core.UpdateReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "update", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpUpdate, err) }()

	p := store.Patch{
		Name:          req.Name,
		Formula:       req.Formula,
		CurrentAmount: req.CurrentAmount,
		ClearBorrow:   req.ClearBorrow,
	}
	if req.ExpiryDate != nil {
		expiry, err := parseDate("expiryDate", *req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		if expiry.IsZero() {
			return nil, code.ValidationErr.WithField("expiryDate")
		}
		p.ExpiryDate = &expiry
	}
	if b := req.Borrow; b != nil {
		borrowDate, err := parseDate("borrowDate", b.BorrowDate)
		if err != nil {
			return nil, err
		}
		returnDate, err := parseDate("expectedReturnDate", b.ExpectedReturnDate)
		if err != nil {
			return nil, err
		}
		p.Borrow = &reagent.BorrowInfo{
			BorrowerName:       b.BorrowerName,
			BorrowedAmount:     b.BorrowedAmount,
			BorrowDate:         borrowDate,
			ExpectedReturnDate: returnDate,
			Purpose:            b.Purpose,
		}
	}

	r, err := i.store.Update(ctx, req.ID, p)
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Borrow(ctx context.Context, req *core.BorrowReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "borrow", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpBorrow, err) }()

	returnDate, err := parseDate("expectedReturnDate", req.ExpectedReturnDate)
	if err != nil {
		return nil, err
	}
	r, err := i.store.Borrow(ctx, req.ID, store.BorrowInput{
		BorrowerName:       req.BorrowerName,
		Amount:             req.Amount,
		ExpectedReturnDate: returnDate,
		Purpose:            req.Purpose,
	})
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Return(ctx context.Context, req *core.ReturnReq) (resp *core.ReagentResp, err error) {
	ctx, span := i.span(ctx, "return", attribute.String("id", req.ID))
	defer func() { endSpan(span, err); i.observe(store.OpReturn, err) }()

	r, err := i.store.Return(ctx, req.ID, req.Amount)
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Query(ctx context.Context, req *core.QueryReq) (*common.PageResp[[]*core.ReagentResp], error) {
	_, span := i.span(ctx, "query")
	defer span.End()

	st := status.Status(req.Status)
	if req.Status != "" && !st.Valid() {
		return nil, code.ParamErr.WithMsgf("unknown status %q", req.Status)
	}
	if req.CabinetID != "" {
		if _, err := i.store.Allocator().Topology().Lookup(req.CabinetID); err != nil {
			return nil, err
		}
	}
	less, err := sorter(req.SortBy)
	if err != nil {
		return nil, err
	}

	today := i.store.Today()
	name := strings.ToLower(strings.TrimSpace(req.Name))
	list := utils.FilterSlice(i.store.List(), func(r *reagent.Record) (*core.ReagentResp, bool) {
		if req.CabinetID != "" && r.CabinetID != req.CabinetID {
			return nil, false
		}
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			return nil, false
		}
		if req.HazardClass != "" && !strings.EqualFold(r.HazardClass, req.HazardClass) {
			return nil, false
		}
		resp := i.toResp(r, today)
		if req.Status != "" && resp.Status != st {
			return nil, false
		}
		return resp, true
	})

	slices.SortStableFunc(list, func(a, b *core.ReagentResp) int {
		c := less(a, b)
		if req.Desc {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	})

	req.Normalize()
	return &common.PageResp[[]*core.ReagentResp]{
		Data:     utils.Paginate(list, req.Page, req.PageSize),
		Total:    int64(len(list)),
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func sorter(field core.SortField) (func(a, b *core.ReagentResp) int, error) {
	switch field {
	case "", core.SortByID:
		return func(a, b *core.ReagentResp) int { return strings.Compare(a.ID, b.ID) }, nil
	case core.SortByName:
		return func(a, b *core.ReagentResp) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}, nil
	case core.SortByExpiry:
		return func(a, b *core.ReagentResp) int { return a.ExpiryDate.Compare(b.ExpiryDate) }, nil
	case core.SortByAmount:
		return func(a, b *core.ReagentResp) int { return cmp.Compare(a.CurrentAmount, b.CurrentAmount) }, nil
	case core.SortByStockRatio:
		return func(a, b *core.ReagentResp) int { return cmp.Compare(a.StockRatio, b.StockRatio) }, nil
	}
	return nil, code.ParamErr.WithMsgf("unknown sort field %q", field)
}

func (i *inventoryImpl) List(ctx context.Context) ([]*core.ReagentResp, error) {
	today := i.store.Today()
	records := i.store.List()
	out := make([]*core.ReagentResp, 0, len(records))
	for _, r := range records {
		out = append(out, i.toResp(r, today))
	}
	return out, nil
}

func (i *inventoryImpl) Detail(ctx context.Context, req *core.DetailReq) (*core.ReagentResp, error) {
	r, err := i.store.Get(req.ID)
	if err != nil {
		return nil, err
	}
	return i.toResp(r, i.store.Today()), nil
}

func (i *inventoryImpl) Summary(ctx context.Context) (*core.SummaryResp, error) {
	today := i.store.Today()
	list := i.store.List()
	counts := make(map[status.Status]int, len(status.All))
	for _, s := range status.All {
		counts[s] = 0
	}
	for _, r := range list {
		counts[i.classifier.Classify(r, today)]++
	}
	total := i.store.Allocator().Topology().TotalCapacity()
	return &core.SummaryResp{
		Today:         today,
		Total:         len(list),
		Counts:        counts,
		TotalCapacity: total,
		FreeSlots:     total - len(list),
	}, nil
}

// StatusCounts feeds the reagent gauge on every scrape.
func StatusCounts(svc core.Service) metrics.CountFunc {
	return func() map[string]int {
		sum, err := svc.Summary(context.Background())
		if err != nil {
			return nil
		}
		out := make(map[string]int, len(sum.Counts))
		for s, n := range sum.Counts {
			out[string(s)] = n
		}
		return out
	}
}

func (i *inventoryImpl) Cabinets(ctx context.Context) ([]*core.CabinetResp, error) {
	today := i.store.Today()
	bySlot := make(map[string]*reagent.Record)
	for _, r := range i.store.List() {
		bySlot[r.CabinetID+"/"+r.Slot.String()] = r
	}

	cabinets := i.store.Allocator().Topology().ListCabinets()
	out := make([]*core.CabinetResp, 0, len(cabinets))
	for _, c := range cabinets {
		resp := &core.CabinetResp{
			Descriptor: c,
			Capacity:   c.Capacity(),
			Slots:      make([]*core.SlotResp, 0, c.Capacity()),
		}
		for shelf := 1; shelf <= c.Shelves; shelf++ {
			for pos := 1; pos <= c.SlotsPerShelf; pos++ {
				s := &core.SlotResp{Shelf: shelf, Position: pos, Label: "S" + strconv.Itoa(shelf) + "-P" + strconv.Itoa(pos)}
				if r, ok := bySlot[c.ID+"/"+s.Label]; ok {
					s.ReagentID = r.ID
					s.Name = r.Name
					s.Status = i.classifier.Classify(r, today)
					resp.Occupied++
				}
				resp.Slots = append(resp.Slots, s)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (i *inventoryImpl) Allocate(ctx context.Context, req *core.AllocateReq) (*core.AllocateResp, error) {
	occupied := i.store.Occupancy()
	alloc := i.store.Allocator()
	if req.CabinetID != "" {
		slot, err := alloc.AllocateInCabinet(req.CabinetID, occupied)
		if err != nil {
			return nil, err
		}
		return &core.AllocateResp{CabinetID: req.CabinetID, Slot: slot, Label: slot.String()}, nil
	}
	loc, err := alloc.AllocateAny(occupied)
	if err != nil {
		return nil, err
	}
	return &core.AllocateResp{CabinetID: loc.CabinetID, Slot: loc.Slot, Label: loc.Slot.String()}, nil
}

// Autofill resolves reference data by name from the catalog, then by CAS
// from the catalog, then by CAS from PubChem.
func (i *inventoryImpl) Autofill(ctx context.Context, req *core.AutofillReq) (*core.AutofillResp, error) {
	ctx, span := i.span(ctx, "autofill", attribute.String("name", req.Name), attribute.String("cas", req.CAS))
	defer span.End()

	name := strings.TrimSpace(req.Name)
	cas := strings.TrimSpace(req.CAS)
	if name == "" && cas == "" {
		return nil, code.ParamErr.WithMsg("name or cas is required")
	}

	cat := i.store.Catalog()
	if name != "" {
		if e, ok := cat.Lookup(name); ok {
			return fromEntry(e), nil
		}
	}
	if cas != "" {
		for _, e := range cat.Entries() {
			if e.CAS == cas {
				return fromEntry(e), nil
			}
		}
	}
	if cas == "" {
		return nil, code.RecordNotFound.WithMsgf("no catalog entry for %q", name)
	}
	if i.pubchem == nil {
		return nil, code.ReagentCASNotFindErr.WithMsgf("cas %s not in catalog", cas)
	}

	info, err := i.pubchem.GetCompoundByCAS(ctx, cas)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	resp := &core.AutofillResp{
		Source:  core.SourcePubChem,
		Name:    info.Name,
		Formula: info.MolecularFormula,
		CAS:     cas,
		SMILES:  info.SMILES,
	}
	if w, err := strconv.ParseFloat(info.MolecularWeight, 64); err == nil {
		resp.MolecularWeight = w
	}
	if name != "" {
		resp.Name = name
	}
	return resp, nil
}

func fromEntry(e catalog.Entry) *core.AutofillResp {
	return &core.AutofillResp{
		Source:          core.SourceCatalog,
		Name:            e.Name,
		Formula:         e.Formula,
		CAS:             e.CAS,
		HazardClass:     e.HazardClass,
		State:           e.State,
		Unit:            e.Unit,
		MolecularWeight: e.MolecularWeight,
		Density:         e.Density,
		BoilingPoint:    e.BoilingPoint,
		MeltingPoint:    e.MeltingPoint,
	}
}

func (i *inventoryImpl) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	return i.store.Catalog().Entries(), nil
}

func (i *inventoryImpl) Export(ctx context.Context, req *core.ExportReq) (*core.ExportResp, error) {
	ctx, span := i.span(ctx, "export")
	defer span.End()

	if i.snapshot == nil {
		return nil, code.ExportErr.WithMsg("no export target configured")
	}
	summary, err := i.Summary(ctx)
	if err != nil {
		return nil, err
	}
	list, err := i.List(ctx)
	if err != nil {
		return nil, err
	}
	snap := &core.Snapshot{
		GeneratedAt: time.Now().UTC(),
		Thresholds:  i.classifier.Thresholds(),
		Summary:     summary,
		Reagents:    list,
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, code.ExportErr.WithErr(err)
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		key = "inventory-" + snap.GeneratedAt.Format("20060102-150405") + ".json"
	}
	location, err := i.snapshot.PutSnapshot(ctx, key, body)
	if err != nil {
		logger.Errorf(ctx, "export snapshot %s err: %+v", key, err)
		span.RecordError(err)
		return nil, code.ExportErr.WithErr(err)
	}
	return &core.ExportResp{Location: location, Count: len(snap.Reagents)}, nil
}

func (i *inventoryImpl) Close(ctx context.Context) error {
	if i.unsub != nil {
		i.unsub()
	}
	return nil
}
