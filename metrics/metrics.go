// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcomes used as label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics holds the Prometheus instruments of the voice pipeline. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Capture sessions
	SessionsStarted prometheus.Counter
	SessionsFailed  prometheus.Counter
	RecordingLength prometheus.Histogram

	// Per-voice processing
	VoicesProcessed *prometheus.CounterVec
	RenderDuration  prometheus.Histogram

	// Encoding
	EncodeFallbacks *prometheus.CounterVec
	ArtifactSize    *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxbooth_sessions_started_total",
			Help: "Total number of capture sessions started",
		}),
		SessionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxbooth_sessions_failed_total",
			Help: "Total number of capture sessions that ended in error",
		}),
		RecordingLength: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxbooth_recording_duration_seconds",
			Help:    "Length of captured recordings",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9), // 1s to ~4 minutes
		}),
		VoicesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxbooth_voices_processed_total",
			Help: "Total number of voice renders by voice and result",
		}, []string{"voice", "result"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxbooth_render_duration_seconds",
			Help:    "Wall-clock time to render and encode one voice",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		}),
		EncodeFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxbooth_encode_fallbacks_total",
			Help: "Total number of compressed encodes replaced by WAV",
		}, []string{"reason"}),
		ArtifactSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxbooth_artifact_size_bytes",
			Help:    "Size of encoded artifacts",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 14), // 1KB to ~8MB
		}, []string{"mime_type"}),
	}
}

// SessionStarted counts a new capture session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// SessionFailed counts a session that ended in the error state.
func (m *Metrics) SessionFailed() {
	if m == nil {
		return
	}
	m.SessionsFailed.Inc()
}

// ObserveRecording records the length of a captured recording in seconds.
func (m *Metrics) ObserveRecording(seconds float64) {
	if m == nil || seconds <= 0 {
		return
	}
	m.RecordingLength.Observe(seconds)
}

// ObserveVoice records the outcome and latency of one voice.
func (m *Metrics) ObserveVoice(voice string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	result := ResultOK
	if err != nil {
		result = ResultFailed
	}

	m.VoicesProcessed.WithLabelValues(voice, result).Inc()
	m.RenderDuration.Observe(elapsed.Seconds())
}

// Fallback counts a compressed encode that fell back to WAV.
func (m *Metrics) Fallback(reason string) {
	if m == nil {
		return
	}
	m.EncodeFallbacks.WithLabelValues(reason).Inc()
}

// ObserveArtifact records the size of an encoded artifact.
func (m *Metrics) ObserveArtifact(mimeType string, size int) {
	if m == nil {
		return
	}
	m.ArtifactSize.WithLabelValues(mimeType).Observe(float64(size))
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
