package services

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/scienceol/labstock/pkg/core/cabinet"
	"github.com/scienceol/labstock/pkg/core/catalog"
	impl "github.com/scienceol/labstock/pkg/core/inventory/inventory"
	"github.com/scienceol/labstock/pkg/core/status"
	"github.com/scienceol/labstock/pkg/core/store"
)

func dial(t *testing.T) *ggrpc.ClientConn {
	t.Helper()
	st := store.New(catalog.Default(), cabinet.NewAllocator(cabinet.DefaultTopology()))
	svc := impl.New(context.Background(), st, status.NewClassifier(status.DefaultThresholds))
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	lis := bufconn.Listen(1 << 20)
	srv := ggrpc.NewServer()
	NewInventoryService(svc).Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := ggrpc.NewClient("passthrough:///bufnet",
		ggrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		ggrpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *ggrpc.ClientConn, name string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	out := &structpb.Struct{}
	err = conn.Invoke(context.Background(), "/"+InventoryServiceName+"/"+name, req, out)
	return out, err
}

func data(t *testing.T, out *structpb.Struct) map[string]any {
	t.Helper()
	d, ok := out.AsMap()["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", out.AsMap())
	return d
}

func TestInventoryServiceRoundTrip(t *testing.T) {
	conn := dial(t)

	out, err := invoke(t, conn, "Create", map[string]any{
		"name": "Ethanol", "formula": "C2H5OH", "current_amount": 400, "capacity": 500,
	})
	require.NoError(t, err)
	created := data(t, out)
	assert.Equal(t, "RG-000001", created["id"])
	assert.Equal(t, "in_stock", created["status"])

	out, err = invoke(t, conn, "Outbound", map[string]any{"id": "RG-000001", "quantity": 380})
	require.NoError(t, err)
	assert.Equal(t, "critical_stock", data(t, out)["status"])

	out, err = invoke(t, conn, "Query", map[string]any{"name": "eth", "page_size": 5})
	require.NoError(t, err)
	page := data(t, out)
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 5, page["page_size"])

	out, err = invoke(t, conn, "Summary", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 139, data(t, out)["free_slots"])

	out, err = invoke(t, conn, "Cabinets", nil)
	require.NoError(t, err)
	cabinets, ok := out.AsMap()["data"].([]any)
	require.True(t, ok)
	assert.Len(t, cabinets, 7)

	out, err = invoke(t, conn, "Sweep", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, data(t, out)["checked"])

	out, err = invoke(t, conn, "Detail", map[string]any{"id": "RG-000001"})
	require.NoError(t, err)
	assert.Equal(t, "Ethanol", data(t, out)["name"])

	out, err = invoke(t, conn, "List", nil)
	require.NoError(t, err)
	list, ok := out.AsMap()["data"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "RG-000001", list[0].(map[string]any)["id"])

	out, err = invoke(t, conn, "Catalog", nil)
	require.NoError(t, err)
	entries, ok := out.AsMap()["data"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, len(catalog.Default().Entries()))

	_, err = invoke(t, conn, "Export", map[string]any{"key": "nightly"})
	assert.Equal(t, codes.FailedPrecondition, grpcstatus.Code(err))
}

func TestInventoryServiceErrors(t *testing.T) {
	conn := dial(t)

	_, err := invoke(t, conn, "Detail", map[string]any{"id": "RG-000404"})
	assert.Equal(t, codes.NotFound, grpcstatus.Code(err))

	_, err = invoke(t, conn, "Create", map[string]any{"formula": "H2O", "current_amount": 1})
	assert.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = invoke(t, conn, "Query", map[string]any{"status": "bogus"})
	assert.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = invoke(t, conn, "Query", map[string]any{"page": "one"})
	assert.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))

	_, err = invoke(t, conn, "Allocate", map[string]any{"cabinet_id": "NOPE"})
	assert.Equal(t, codes.InvalidArgument, grpcstatus.Code(err))
}
