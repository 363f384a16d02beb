package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOp(t *testing.T) {
	m := New(nil)
	m.ObserveOp("create", nil)
	m.ObserveOp("create", nil)
	m.ObserveOp("outbound", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ops.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ops.WithLabelValues("outbound", "error")))
}

func TestStatusGaugeIsReadOnScrape(t *testing.T) {
	counts := map[string]int{"in_stock": 3, "expired": 1}
	m := New(func() map[string]int { return counts })

	expected := `
# HELP labstock_reagents Live reagent records by derived status.
# TYPE labstock_reagents gauge
labstock_reagents{status="expired"} 1
labstock_reagents{status="in_stock"} 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "labstock_reagents"))

	counts = map[string]int{"in_stock": 5}
	expected = `
# HELP labstock_reagents Live reagent records by derived status.
# TYPE labstock_reagents gauge
labstock_reagents{status="in_stock"} 5
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "labstock_reagents"))
}

func TestHandler(t *testing.T) {
	m := New(func() map[string]int { return map[string]int{"low_stock": 2} })
	m.ObserveOp("restock", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `labstock_reagents{status="low_stock"} 2`)
	assert.Contains(t, string(body), `labstock_inventory_ops_total{op="restock",result="ok"} 1`)
}
