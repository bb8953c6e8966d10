// Package metrics exposes simulation and stream counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-lunar/internal/state"
)

var (
	ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lslunar_ticks_total",
		Help: "Total number of animation ticks processed.",
	})

	elapsedDays = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lslunar_elapsed_days",
		Help: "Simulated days since the last reset.",
	})

	illumination = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lslunar_illumination_ratio",
		Help: "Illuminated fraction of the lunar disc (0 new, 1 full).",
	})

	phaseIndex = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lslunar_phase_index",
		Help: "Current phase bucket, 0 = NEW_MOON through 7 = WANING_CRESCENT.",
	})

	paused = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lslunar_paused",
		Help: "1 while the simulation clock is paused.",
	})

	streamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lslunar_stream_clients",
		Help: "Number of connected frame stream clients.",
	})

	streamConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lslunar_stream_connections_total",
			Help: "Stream connection lifecycle events.",
		},
		[]string{"event"},
	)

	framesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lslunar_stream_frames_dropped_total",
		Help: "Frames not delivered because a client's send buffer was full.",
	})
)

func init() {
	prometheus.MustRegister(ticksTotal)
	prometheus.MustRegister(elapsedDays)
	prometheus.MustRegister(illumination)
	prometheus.MustRegister(phaseIndex)
	prometheus.MustRegister(paused)
	prometheus.MustRegister(streamClients)
	prometheus.MustRegister(streamConnections)
	prometheus.MustRegister(framesDropped)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveTick records one tick and the resulting frame.
func ObserveTick(snap state.Snapshot) {
	ticksTotal.Inc()
	elapsedDays.Set(snap.ElapsedDays)
	illumination.Set(snap.Phase.Illumination)
	phaseIndex.Set(float64(snap.Phase.Index()))
	if snap.State == state.Paused {
		paused.Set(1)
	} else {
		paused.Set(0)
	}
}

// IncStreamConnections counts a connect, disconnect, or rejection.
func IncStreamConnections(event string) {
	streamConnections.WithLabelValues(event).Inc()
}

// IncStreamClients increments the connected client gauge.
func IncStreamClients() {
	streamClients.Inc()
}

// DecStreamClients decrements the connected client gauge.
func DecStreamClients() {
	streamClients.Dec()
}

// IncFramesDropped counts one undelivered frame.
func IncFramesDropped() {
	framesDropped.Inc()
}
