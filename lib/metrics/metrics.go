// Package metrics records loader activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Result labels for ObserveOpen.
const (
	ResultLoaded        = "loaded"
	ResultAlreadyLoaded = "already_loaded"
	ResultNotAPlugin    = "not_a_plugin"
	ResultOpenFailed    = "open_failed"
	ResultTargetFailed  = "target_mismatch"
	ResultInstallFailed = "install_failed"
)

// Recorder holds the loader collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	loads      *prometheus.CounterVec
	registered *prometheus.GaugeVec
	scans      *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "extload",
			Name:      "module_loads_total",
			Help:      "Module open attempts by kind and result.",
		}, []string{"kind", "result"}),
		registered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "extload",
			Name:      "modules_registered",
			Help:      "Modules currently held by the loader.",
		}, []string{"kind"}),
		scans: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "extload",
			Name:      "scan_duration_seconds",
			Help:      "Duration of directory scans.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(r.loads, r.registered, r.scans)
	}
	return r
}

// ObserveOpen counts one open attempt.
func (r *Recorder) ObserveOpen(kind, result string) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(kind, result).Inc()
}

// ObserveScan records the duration of a scan that started at start.
func (r *Recorder) ObserveScan(kind string, start time.Time) {
	if r == nil {
		return
	}
	r.scans.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// SetRegistered sets the number of modules of kind held by the loader.
func (r *Recorder) SetRegistered(kind string, n int) {
	if r == nil {
		return
	}
	r.registered.WithLabelValues(kind).Set(float64(n))
}

// Registered returns the number of modules of kind last set with SetRegistered.
func (r *Recorder) Registered(kind string) float64 {
	if r == nil {
		return 0
	}
	var m dto.Metric
	if err := r.registered.WithLabelValues(kind).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
