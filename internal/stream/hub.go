// Package stream publishes simulation frames to browser renderers over
// WebSocket.
//
// Message format, one JSON object per text message:
//
//	{"type":"metadata","sidereal_month_days":27.32,"mean_distance":60.27,...}
//	{"type":"frame","tick":42,"days_label":"001.83_DAYS","phase":{...},"top":{...},...}
//
// The first message on every connection is metadata. Frames follow at most
// MaxFPS per client; a client that cannot keep up loses frames rather than
// slowing the tick loop.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-lunar/internal/export"
	"github.com/litescript/ls-lunar/internal/logging"
	"github.com/litescript/ls-lunar/internal/metrics"
	"github.com/litescript/ls-lunar/internal/orbit"
	"github.com/litescript/ls-lunar/internal/state"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// Config holds stream limits.
type Config struct {
	MaxClientsPerIP int // Concurrent connections per IP (default 4)
	MaxClients      int // Concurrent connections overall (default 256)
	MaxFPS          int // Frames per second per client (default 30)
}

// Metadata is the first message on every connection.
type Metadata struct {
	Type              string  `json:"type"`
	SiderealMonthDays float64 `json:"sidereal_month_days"`
	MeanDistance      float64 `json:"mean_distance"`
	EarthRadius       float64 `json:"earth_radius"`
	MoonRadius        float64 `json:"moon_radius"`
	InclinationDeg    float64 `json:"inclination_deg"`
	BaseSpeed         float64 `json:"base_speed"`
	TrailCap          int     `json:"trail_cap"`
}

// Frame wraps an exported snapshot with a message type.
type Frame struct {
	Type string `json:"type"`
	*export.SnapshotExport
}

// Hub fans frames out to connected clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	cfg      Config
	limiter  *connLimiter
	upgrader websocket.Upgrader
	logger   *logging.Logger
	metadata []byte
	now      func() time.Time
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	pacer   *rate.Limiter
	ip      string
	dropped int
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(cfg Config, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.MaxFPS <= 0 {
		cfg.MaxFPS = 30
	}

	meta, _ := json.Marshal(Metadata{
		Type:              "metadata",
		SiderealMonthDays: orbit.SiderealMonthDays,
		MeanDistance:      orbit.MeanDistance,
		EarthRadius:       orbit.EarthRadius,
		MoonRadius:        orbit.MoonRadius,
		InclinationDeg:    orbit.InclinationDeg,
		BaseSpeed:         orbit.BaseSpeed,
		TrailCap:          orbit.DefaultTrailCap,
	})

	return &Hub{
		clients: make(map[*client]struct{}),
		cfg:     cfg,
		limiter: newConnLimiter(cfg.MaxClientsPerIP, cfg.MaxClients),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Renderers are typically served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:   logger,
		metadata: meta,
		now:      time.Now,
	}
}

// Publish sends a snapshot to every client whose pacer allows it.
func (h *Hub) Publish(snap state.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) == 0 {
		return nil
	}

	msg, err := json.Marshal(Frame{Type: "frame", SnapshotExport: export.ExportSnapshot(snap, h.now())})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	for c := range h.clients {
		// Over the client's frame rate: skipped, not a drop.
		if !c.pacer.Allow() {
			continue
		}
		select {
		case c.send <- msg:
		default:
			c.dropped++
			metrics.IncFramesDropped()
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams frames until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamConnections("rejected")
		h.logger.Warn("stream limit exceeded for %s (%d open)", ip, h.limiter.count(ip))
		w.Header().Set("Retry-After", "30")
		http.Error(w, "too many concurrent streams", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.limiter.release(ip)
		h.logger.Debug("websocket upgrade failed for %s: %v", ip, err)
		return
	}

	c := &client{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		pacer: rate.NewLimiter(rate.Limit(h.cfg.MaxFPS), 1),
		ip:    ip,
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, h.metadata); err != nil {
		conn.Close()
		h.limiter.release(ip)
		return
	}

	if !h.register(c) {
		conn.Close()
		h.limiter.release(ip)
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamClients()
	h.logger.Info("stream client connected from %s", ip)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	h.limiter.release(c.ip)
	metrics.IncStreamConnections("disconnect")
	metrics.DecStreamClients()
	h.logger.Info("stream client %s disconnected (%d frames dropped)", c.ip, c.dropped)
}

// readPump drains control frames so pings and close are processed.
// Clients are not expected to send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("stream read from %s: %v", c.ip, err)
			}
			return
		}
	}
}

// writePump is the only goroutine that writes to c.conn after the handshake.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.unregister(c)
	}
}

// NewMux wires the stream, health, and metrics endpoints.
func NewMux(h *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": h.Clients()})
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// ListenAndServe runs an HTTP server for handler until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *logging.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stream server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stream server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stream server shutdown: %w", err)
		}
		return nil
	}
}
