// Package metrics exposes the engine's prometheus instrumentation,
// following the teacher's promauto + BindService() pattern: collectors are
// declared at package scope, then bound once at startup to the label
// values this process uses.
//
//nolint:gochecknoglobals // prometheus metrics and global state
package metrics

import (
	"errors"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolutionsTotal = promauto.NewCounterVec(
		prom.CounterOpts{
			Name: "libproxy_resolutions_total",
			Help: "Total get_proxies calls by result (Counter). result=proxy|direct.",
		},
		[]string{"result"},
	)

	PacFetchTotal = promauto.NewCounterVec(
		prom.CounterOpts{
			Name: "libproxy_pac_fetch_total",
			Help: "Total PAC/WPAD download attempts by result (Counter). result=success|failed|too_large.",
		},
		[]string{"result"},
	)

	PacCacheHitsTotal = promauto.NewCounterVec(
		prom.CounterOpts{
			Name: "libproxy_pac_cache_hits_total",
			Help: "Total PAC fetches served from the secondary PAC byte cache instead of a download (Counter).",
		},
		[]string{},
	)

	ResolutionDuration = promauto.NewHistogramVec(prom.HistogramOpts{
		Name:    "libproxy_resolution_duration_seconds",
		Help:    "get_proxies call latency in seconds (Histogram).",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	}, []string{})
)

// RegisterCollectors registers the default Go and process collectors.
// Call once during program startup.
func RegisterCollectors() {
	registerDefault(collectors.NewGoCollector())
	registerDefault(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

func registerDefault(c prom.Collector) {
	if err := prom.Register(c); err != nil {
		var are prom.AlreadyRegisteredError
		if errors.As(err, &are) {
			return
		}
	}
}

// M holds the bound, label-free instrument handles the engine calls on
// every resolution.
var M struct { //nolint:gochecknoglobals // metrics cache
	ResolutionsProxy  prom.Counter
	ResolutionsDirect prom.Counter
	PacFetchSuccess   prom.Counter
	PacFetchFailed    prom.Counter
	PacFetchTooLarge  prom.Counter
	PacCacheHits      prom.Counter
	Duration          prom.Observer
}

// BindService binds the generic M handles once at startup.
func BindService() {
	M.ResolutionsProxy = ResolutionsTotal.WithLabelValues("proxy")
	M.ResolutionsDirect = ResolutionsTotal.WithLabelValues("direct")
	M.PacFetchSuccess = PacFetchTotal.WithLabelValues("success")
	M.PacFetchFailed = PacFetchTotal.WithLabelValues("failed")
	M.PacFetchTooLarge = PacFetchTotal.WithLabelValues("too_large")
	M.PacCacheHits = PacCacheHitsTotal.WithLabelValues()
	M.Duration = ResolutionDuration.WithLabelValues()
}
