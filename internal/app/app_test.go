package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labstock/internal/config"
	core "github.com/scienceol/labstock/pkg/core/inventory"
)

func testConfig(t *testing.T) *config.GlobalConfig {
	t.Helper()
	t.Setenv("EXPORT_DIR", t.TempDir())
	conf := *config.Global()
	conf.Seed.Count = 20
	conf.Seed.Random = 7
	conf.RPC.PubChem.Disabled = true
	return &conf
}

func TestNewMemorySeeds(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Equal(t, 20, a.Store.Len())
	assert.Empty(t, a.Checks)
	sum, err := a.Service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, sum.Total)

	resp, err := a.Service.Export(ctx, &core.ExportReq{Key: "boot.json"})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Count)
}

func TestNewSQLiteReloads(t *testing.T) {
	ctx := context.Background()
	conf := testConfig(t)
	conf.Inventory.Backend = config.BackendSQLite
	conf.Inventory.SQLitePath = filepath.Join(t.TempDir(), "inv.db")

	a, err := New(ctx, conf)
	require.NoError(t, err)
	require.Contains(t, a.Checks, "sqlite")
	require.NoError(t, a.Checks["sqlite"](ctx))
	first := a.Store.List()
	_, err = a.Service.Dispose(ctx, &core.DisposeReq{ID: first[0].ID})
	require.NoError(t, err)
	a.Close(ctx)

	b, err := New(ctx, conf)
	require.NoError(t, err)
	defer b.Close(ctx)
	assert.Equal(t, 19, b.Store.Len())
	_, err = b.Store.Get(first[0].ID)
	assert.Error(t, err)
}

func TestNewLoadsFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	topology := filepath.Join(dir, "topology.yaml")
	require.NoError(t, os.WriteFile(topology, []byte(`
- id: ONLY
  family: standard
  shelves: 1
  slots_per_shelf: 5
`), 0o600))

	conf := testConfig(t)
	conf.Inventory.TopologyFile = topology
	conf.Seed.Count = 8
	a, err := New(ctx, conf)
	require.NoError(t, err)
	defer a.Close(ctx)
	assert.Equal(t, 5, a.Store.Len())
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	conf := testConfig(t)
	conf.Inventory.Backend = "etcd"
	_, err := New(context.Background(), conf)
	assert.Error(t, err)
}
