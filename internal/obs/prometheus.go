package obs

import "github.com/prometheus/client_golang/prometheus"

const namespace = "mdcodec"

// RegistryCollector exports RegistryMetrics to Prometheus.
type RegistryCollector struct {
	metrics *RegistryMetrics
	size    func() int

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	synthesized *prometheus.Desc
	builtins    *prometheus.Desc
	trims       *prometheus.Desc
	evicted     *prometheus.Desc
	cacheSize   *prometheus.Desc
}

var _ prometheus.Collector = (*RegistryCollector)(nil)

// NewRegistryCollector returns a collector over m. size reports the current
// number of cached sources and may be nil.
func NewRegistryCollector(m *RegistryMetrics, size func() int) *RegistryCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "source", name), help, nil, nil)
	}
	return &RegistryCollector{
		metrics:     m,
		size:        size,
		hits:        desc("lookup_hits_total", "Source lookups served from the cache."),
		misses:      desc("lookup_misses_total", "Source lookups not found in the cache."),
		synthesized: desc("synthesized_total", "Transient sources created by lookups."),
		builtins:    desc("builtin_total", "Builtin sources registered."),
		trims:       desc("trims_total", "Cache trim passes."),
		evicted:     desc("evicted_total", "Transient sources evicted by trims."),
		cacheSize:   desc("cache_size", "Sources currently cached by id."),
	}
}

func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.synthesized
	ch <- c.builtins
	ch <- c.trims
	ch <- c.evicted
	ch <- c.cacheSize
}

func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.metrics.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.synthesized, prometheus.CounterValue, float64(s.Synthesized))
	ch <- prometheus.MustNewConstMetric(c.builtins, prometheus.CounterValue, float64(s.Builtins))
	ch <- prometheus.MustNewConstMetric(c.trims, prometheus.CounterValue, float64(s.Trims))
	ch <- prometheus.MustNewConstMetric(c.evicted, prometheus.CounterValue, float64(s.Evicted))

	var size int
	if c.size != nil {
		size = c.size()
	}
	ch <- prometheus.MustNewConstMetric(c.cacheSize, prometheus.GaugeValue, float64(size))
}
