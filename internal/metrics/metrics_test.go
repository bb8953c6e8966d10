package metrics

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-lunar/internal/state"
)

func TestObserveTick(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.Speed = math.Pi
	m := state.NewManager(cfg)
	m.Tick()

	before := testutil.ToFloat64(ticksTotal)
	ObserveTick(m.Snapshot())

	assert.Equal(t, before+1, testutil.ToFloat64(ticksTotal))
	assert.InDelta(t, 13.66, testutil.ToFloat64(elapsedDays), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(illumination), 1e-9)
	assert.Equal(t, 4.0, testutil.ToFloat64(phaseIndex))
	assert.Equal(t, 0.0, testutil.ToFloat64(paused))

	m.SetPaused(true)
	ObserveTick(m.Snapshot())
	assert.Equal(t, 1.0, testutil.ToFloat64(paused))
}

func TestStreamCounters(t *testing.T) {
	base := testutil.ToFloat64(streamClients)
	IncStreamClients()
	IncStreamClients()
	DecStreamClients()
	assert.Equal(t, base+1, testutil.ToFloat64(streamClients))

	before := testutil.ToFloat64(streamConnections.WithLabelValues("connect"))
	IncStreamConnections("connect")
	assert.Equal(t, before+1, testutil.ToFloat64(streamConnections.WithLabelValues("connect")))

	dropped := testutil.ToFloat64(framesDropped)
	IncFramesDropped()
	assert.Equal(t, dropped+1, testutil.ToFloat64(framesDropped))
}

func TestHandler(t *testing.T) {
	ObserveTick(state.NewManager(state.DefaultConfig()).Snapshot())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "lslunar_ticks_total"))
	assert.True(t, strings.Contains(body, "lslunar_phase_index"))
}

func TestFramesDroppedHelp(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(),
		"# HELP lslunar_stream_frames_dropped_total Frames not delivered because a client's send buffer was full.")
}
