package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labstock/pkg/common/code"
	core "github.com/scienceol/labstock/pkg/core/inventory"
	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
	"github.com/scienceol/labstock/pkg/core/notify"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/core/store"
	"github.com/scienceol/labstock/pkg/middleware/metrics"
	"github.com/scienceol/labstock/pkg/repo"
	"github.com/scienceol/labstock/pkg/repo/snapshot"
)

var fixedNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func amount(v float64) *float64 { return &v }

type recorder struct {
	mu   sync.Mutex
	msgs []*notify.SendMsg
}

func (r *recorder) Registry(context.Context, notify.Action, notify.HandleFunc) error { return nil }

func (r *recorder) Broadcast(_ context.Context, msg *notify.SendMsg) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) Close(context.Context) error { return nil }

func (r *recorder) all() []*notify.SendMsg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*notify.SendMsg(nil), r.msgs...)
}

type fakePubChem struct {
	info *repo.CompoundInfo
	err  error
}

func (f *fakePubChem) GetCompoundByCAS(context.Context, string) (*repo.CompoundInfo, error) {
	return f.info, f.err
}

func newStore() *store.Store {
	return store.New(catalog.Default(), cabinet.NewAllocator(cabinet.DefaultTopology()),
		store.WithClock(func() time.Time { return fixedNow }),
		store.WithRand(rand.New(rand.NewPCG(1, 2))),
		store.WithCatalogFallback(false))
}

func newService(t *testing.T, opts ...Option) (core.Service, *store.Store) {
	t.Helper()
	st := newStore()
	svc := New(context.Background(), st, status.NewClassifier(status.DefaultThresholds), opts...)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })
	return svc, st
}

func mustCreate(t *testing.T, svc core.Service, req *core.CreateReq) *core.ReagentResp {
	t.Helper()
	r, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	return r
}

func TestCreateAndOutboundBroadcast(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc, _ := newService(t, WithMsgCenter(rec))

	r := mustCreate(t, svc, &core.CreateReq{Name: "Ethanol", Formula: "C2H5OH", CurrentAmount: amount(400), Capacity: 500})
	assert.Equal(t, "RG-000001", r.ID)
	assert.Equal(t, status.InStock, r.Status)
	assert.Equal(t, "S1-P1", r.SlotLabel)
	assert.InDelta(t, 0.8, r.StockRatio, 1e-9)
	assert.Equal(t, catalog.Flammable, r.HazardClass)

	out, err := svc.Outbound(ctx, &core.QuantityReq{ID: r.ID, Quantity: 360})
	require.NoError(t, err)
	assert.Equal(t, status.CriticalStock, out.Status)

	msgs := rec.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, "create", msgs[0].Op)
	assert.Equal(t, uint64(1), msgs[0].Seq)
	assert.Equal(t, "outbound", msgs[1].Op)
	assert.Equal(t, uint64(2), msgs[1].Seq)
	assert.Equal(t, notify.InventoryModify, msgs[1].Channel)
	data, ok := msgs[1].Data.(*core.ReagentResp)
	require.True(t, ok)
	assert.Equal(t, status.CriticalStock, data.Status)
}

func TestFailedMutationIsNotBroadcast(t *testing.T) {
	rec := &recorder{}
	svc, _ := newService(t, WithMsgCenter(rec))

	_, err := svc.Outbound(context.Background(), &core.QuantityReq{ID: "RG-999999", Quantity: 1})
	assert.True(t, errors.Is(err, code.RecordNotFound))
	assert.Empty(t, rec.all())
}

func TestCreateDates(t *testing.T) {
	svc, _ := newService(t)

	r := mustCreate(t, svc, &core.CreateReq{Name: "Acetone", Formula: "C3H6O", CurrentAmount: amount(100), ExpiryDate: "2026-05-20"})
	assert.Equal(t, status.ExpiringSoon, r.Status)
	assert.Equal(t, time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), r.ExpiryDate)

	r = mustCreate(t, svc, &core.CreateReq{Name: "Hexane", Formula: "C6H14", CurrentAmount: amount(100), ExpiryDate: "2026-05-04T18:00:00+02:00"})
	assert.Equal(t, status.Expired, r.Status)

	_, err := svc.Create(context.Background(), &core.CreateReq{Name: "Hexane", Formula: "C6H14", CurrentAmount: amount(1), ExpiryDate: "next week"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.ValidationErr))
	assert.Equal(t, "expiryDate", code.FieldOf(err))
}

func TestRestockReportsClamp(t *testing.T) {
	svc, _ := newService(t)
	r := mustCreate(t, svc, &core.CreateReq{Name: "Methanol", Formula: "CH3OH", CurrentAmount: amount(480), Capacity: 500})

	res, err := svc.Restock(context.Background(), &core.QuantityReq{ID: r.ID, Quantity: 50})
	require.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.InDelta(t, 20, res.Applied, 1e-9)
	assert.InDelta(t, 30, res.Excess, 1e-9)
	assert.InDelta(t, 50, res.Requested, 1e-9)
	assert.InDelta(t, 500, res.Reagent.CurrentAmount, 1e-9)
}

func TestBorrowReturnAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	r := mustCreate(t, svc, &core.CreateReq{Name: "Toluene", Formula: "C7H8", CurrentAmount: amount(400), Capacity: 500})

	b, err := svc.Borrow(ctx, &core.BorrowReq{ID: r.ID, BorrowerName: "lin", Amount: 100, ExpectedReturnDate: "2026-05-10"})
	require.NoError(t, err)
	assert.Equal(t, status.PartiallyBorrowed, b.Status)
	require.NotNil(t, b.Borrow)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), b.Borrow.ExpectedReturnDate)

	back, err := svc.Return(ctx, &core.ReturnReq{ID: r.ID, Amount: 100})
	require.NoError(t, err)
	assert.Nil(t, back.Borrow)
	assert.Equal(t, status.InStock, back.Status)

	name := "Toluene (dry)"
	expiry := "2026-05-01"
	u, err := svc.Update(ctx, &core.UpdateReq{ID: r.ID, Name: &name, ExpiryDate: &expiry})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
	assert.Equal(t, status.Expired, u.Status)

	empty := ""
	_, err = svc.Update(ctx, &core.UpdateReq{ID: r.ID, ExpiryDate: &empty})
	assert.True(t, errors.Is(err, code.ValidationErr))

	_, err = svc.Update(ctx, &core.UpdateReq{ID: r.ID, CurrentAmount: amount(501)})
	assert.True(t, errors.Is(err, code.InvariantViolationErr))
}

func seedQuery(t *testing.T, svc core.Service) {
	t.Helper()
	mustCreate(t, svc, &core.CreateReq{Name: "Ethanol", Formula: "C2H5OH", CurrentAmount: amount(400), Capacity: 500})
	mustCreate(t, svc, &core.CreateReq{Name: "Methanol", Formula: "CH3OH", CurrentAmount: amount(20), Capacity: 500})
	mustCreate(t, svc, &core.CreateReq{Name: "Sulfuric Acid", Formula: "H2SO4", CurrentAmount: amount(80), Capacity: 500, CabinetID: "COR-A"})
	mustCreate(t, svc, &core.CreateReq{Name: "Isopropanol", Formula: "C3H8O", CurrentAmount: amount(200), Capacity: 250})
}

func TestQueryFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	seedQuery(t, svc)

	page, err := svc.Query(ctx, &core.QueryReq{Name: "ANOL"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	page, err = svc.Query(ctx, &core.QueryReq{Status: string(status.CriticalStock)})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Methanol", page.Data[0].Name)

	page, err = svc.Query(ctx, &core.QueryReq{CabinetID: "COR-A"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, status.LowStock, page.Data[0].Status)

	page, err = svc.Query(ctx, &core.QueryReq{HazardClass: "corrosive"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestQuerySortAndPage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	seedQuery(t, svc)

	page, err := svc.Query(ctx, &core.QueryReq{SortBy: core.SortByStockRatio, Desc: true})
	require.NoError(t, err)
	require.Len(t, page.Data, 4)
	assert.Equal(t, []string{"Ethanol", "Isopropanol", "Sulfuric Acid", "Methanol"},
		[]string{page.Data[0].Name, page.Data[1].Name, page.Data[2].Name, page.Data[3].Name})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)

	req := &core.QueryReq{SortBy: core.SortByName}
	req.Page, req.PageSize = 2, 3
	page, err = svc.Query(ctx, req)
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Sulfuric Acid", page.Data[0].Name)
}

func TestQueryRejectsBadParams(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Query(ctx, &core.QueryReq{Status: "lost"})
	assert.True(t, errors.Is(err, code.ParamErr))
	_, err = svc.Query(ctx, &core.QueryReq{CabinetID: "NOPE"})
	assert.True(t, errors.Is(err, code.UnknownCabinetErr))
	_, err = svc.Query(ctx, &core.QueryReq{SortBy: "colour"})
	assert.True(t, errors.Is(err, code.ParamErr))
}

func TestDetail(t *testing.T) {
	svc, _ := newService(t)
	r := mustCreate(t, svc, &core.CreateReq{Name: "Glucose", Formula: "C6H12O6", CurrentAmount: amount(50)})

	got, err := svc.Detail(context.Background(), &core.DetailReq{ID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.InDelta(t, 100, got.Capacity, 1e-9)

	_, err = svc.Detail(context.Background(), &core.DetailReq{ID: "RG-000404"})
	assert.True(t, errors.Is(err, code.RecordNotFound))
}

func TestSummaryAndCabinets(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)
	seedQuery(t, svc)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Len(t, sum.Counts, len(status.All))
	assert.Equal(t, 2, sum.Counts[status.InStock])
	assert.Equal(t, 1, sum.Counts[status.CriticalStock])
	assert.Equal(t, 1, sum.Counts[status.LowStock])
	assert.Equal(t, 0, sum.Counts[status.Expired])
	total := st.Allocator().Topology().TotalCapacity()
	assert.Equal(t, total, sum.TotalCapacity)
	assert.Equal(t, total-4, sum.FreeSlots)

	cabinets, err := svc.Cabinets(ctx)
	require.NoError(t, err)
	require.Len(t, cabinets, len(st.Allocator().Topology().ListCabinets()))
	occupied := 0
	for _, c := range cabinets {
		assert.Len(t, c.Slots, c.Capacity)
		occupied += c.Occupied
		if c.ID == "COR-A" {
			require.Equal(t, 1, c.Occupied)
			assert.Equal(t, "S1-P1", c.Slots[0].Label)
			assert.Equal(t, "Sulfuric Acid", c.Slots[0].Name)
			assert.Equal(t, status.LowStock, c.Slots[0].Status)
			assert.Empty(t, c.Slots[1].ReagentID)
		}
	}
	assert.Equal(t, 4, occupied)
}

func TestAllocatePreviewDoesNotReserve(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t)

	a, err := svc.Allocate(ctx, &core.AllocateReq{})
	require.NoError(t, err)
	b, err := svc.Allocate(ctx, &core.AllocateReq{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 0, st.Len())

	r := mustCreate(t, svc, &core.CreateReq{Name: "Ethanol", Formula: "C2H5OH", CurrentAmount: amount(10)})
	assert.Equal(t, a.CabinetID, r.CabinetID)
	assert.Equal(t, a.Slot, r.Slot)

	c, err := svc.Allocate(ctx, &core.AllocateReq{CabinetID: "SAF-B"})
	require.NoError(t, err)
	assert.Equal(t, "SAF-B", c.CabinetID)
	assert.Equal(t, "S1-P1", c.Label)

	_, err = svc.Allocate(ctx, &core.AllocateReq{CabinetID: "NOPE"})
	assert.True(t, errors.Is(err, code.UnknownCabinetErr))
}

func TestAutofill(t *testing.T) {
	ctx := context.Background()
	pc := &fakePubChem{info: &repo.CompoundInfo{Name: "caffeine", MolecularFormula: "C8H10N4O2", SMILES: "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", MolecularWeight: "194.19"}}
	svc, _ := newService(t, WithPubChem(pc))

	r, err := svc.Autofill(ctx, &core.AutofillReq{Name: " ethanol "})
	require.NoError(t, err)
	assert.Equal(t, core.SourceCatalog, r.Source)
	assert.Equal(t, "64-17-5", r.CAS)

	r, err = svc.Autofill(ctx, &core.AutofillReq{CAS: "7647-01-0"})
	require.NoError(t, err)
	assert.Equal(t, core.SourceCatalog, r.Source)
	assert.Equal(t, "Hydrochloric Acid", r.Name)

	r, err = svc.Autofill(ctx, &core.AutofillReq{Name: "Caffeine", CAS: "58-08-2"})
	require.NoError(t, err)
	assert.Equal(t, core.SourcePubChem, r.Source)
	assert.Equal(t, "Caffeine", r.Name)
	assert.Equal(t, "C8H10N4O2", r.Formula)
	assert.InDelta(t, 194.19, r.MolecularWeight, 1e-9)

	_, err = svc.Autofill(ctx, &core.AutofillReq{Name: "Unobtainium"})
	assert.True(t, errors.Is(err, code.RecordNotFound))
	_, err = svc.Autofill(ctx, &core.AutofillReq{})
	assert.True(t, errors.Is(err, code.ParamErr))

	pc.info, pc.err = nil, code.ReagentCASNotFindErr
	_, err = svc.Autofill(ctx, &core.AutofillReq{CAS: "0-00-0"})
	assert.True(t, errors.Is(err, code.ReagentCASNotFindErr))
}

func TestAutofillWithoutPubChem(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Autofill(context.Background(), &core.AutofillReq{CAS: "58-08-2"})
	assert.True(t, errors.Is(err, code.ReagentCASNotFindErr))
}

func TestCatalog(t *testing.T) {
	svc, _ := newService(t)
	entries, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, catalog.Default().Len())
	assert.Equal(t, "Ethanol", entries[0].Name)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := snapshot.NewFileStore(dir)
	require.NoError(t, err)
	svc, _ := newService(t, WithSnapshot(fs))
	seedQuery(t, svc)

	resp, err := svc.Export(ctx, &core.ExportReq{Key: "daily.json"})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Count)
	assert.True(t, strings.HasSuffix(resp.Location, "daily.json"))

	body, err := os.ReadFile(filepath.Join(dir, "daily.json"))
	require.NoError(t, err)
	var snap core.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Len(t, snap.Reagents, 4)
	assert.Equal(t, 4, snap.Summary.Total)
	assert.Equal(t, status.DefaultThresholds, snap.Thresholds)
	assert.Equal(t, status.InStock, snap.Reagents[0].Status)

	resp, err = svc.Export(ctx, &core.ExportReq{})
	require.NoError(t, err)
	assert.Contains(t, resp.Location, "inventory-")
}

func TestExportWithoutTarget(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Export(context.Background(), &core.ExportReq{})
	assert.True(t, errors.Is(err, code.ExportErr))
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	var svc core.Service
	m := metrics.New(func() map[string]int { return StatusCounts(svc)() })
	svc = New(ctx, st, nil, WithMetrics(m))

	r := mustCreate(t, svc, &core.CreateReq{Name: "Ethanol", Formula: "C2H5OH", CurrentAmount: amount(400), Capacity: 500})
	_, err := svc.Outbound(ctx, &core.QuantityReq{ID: r.ID, Quantity: 9999})
	require.Error(t, err)

	expected := `
# HELP labstock_inventory_ops_total Inventory mutations by operation and result.
# TYPE labstock_inventory_ops_total counter
labstock_inventory_ops_total{op="create",result="ok"} 1
labstock_inventory_ops_total{op="outbound",result="error"} 1
# HELP labstock_reagents Live reagent records by derived status.
# TYPE labstock_reagents gauge
labstock_reagents{status="critical_stock"} 0
labstock_reagents{status="expired"} 0
labstock_reagents{status="expiring_soon"} 0
labstock_reagents{status="in_stock"} 1
labstock_reagents{status="low_stock"} 0
labstock_reagents{status="partially_borrowed"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"labstock_inventory_ops_total", "labstock_reagents"))
}
