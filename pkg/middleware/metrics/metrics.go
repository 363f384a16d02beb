package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labstock"

// CountFunc reports the number of live records per status label.
type CountFunc func() map[string]int

type Metrics struct {
	reg *prometheus.Registry
	ops *prometheus.CounterVec
}

func New(counts CountFunc) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_ops_total",
		Help:      "Inventory mutations by operation and result.",
	}, []string{"op", "result"})
	reg.MustRegister(ops)

	if counts != nil {
		reg.MustRegister(&statusCollector{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "", "reagents"),
				"Live reagent records by derived status.",
				[]string{"status"}, nil,
			),
			counts: counts,
		})
	}
	return &Metrics{reg: reg, ops: ops}
}

// ObserveOp counts one mutation attempt.
func (m *Metrics) ObserveOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// statusCollector reads the counts on every scrape.
type statusCollector struct {
	desc   *prometheus.Desc
	counts CountFunc
}

func (c *statusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *statusCollector) Collect(ch chan<- prometheus.Metric) {
	for status, n := range c.counts() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), status)
	}
}
