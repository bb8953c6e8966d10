// Command ls-lunar is a terminal UI for the Earth–Moon orbit and lunar phases.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-lunar/internal/config"
	"github.com/litescript/ls-lunar/internal/export"
	"github.com/litescript/ls-lunar/internal/logging"
	"github.com/litescript/ls-lunar/internal/metrics"
	"github.com/litescript/ls-lunar/internal/state"
	"github.com/litescript/ls-lunar/internal/stream"
	"github.com/litescript/ls-lunar/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	nowMode       bool
	miniMode      bool
	eventsMode    bool
	snapshotPath  string
	preTicks      int
	watchInterval time.Duration
)

func main() {
	configPath := flag.String("config", "", "Config file (JSON, YAML, or TOML)")
	speed := flag.Float64("speed", 0, "Orbital angle advance per tick in radians (0.01 = 1.0x)")
	zoom := flag.Float64("zoom", 0, "Zoom multiplier")
	trails := flag.Bool("trails", true, "Record and draw orbit trails")
	fps := flag.Int("fps", 0, "Animation ticks per second")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	serveAddr := flag.String("serve", "", "Serve the frame stream and metrics on addr (e.g. :8080)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&nowMode, "now", false, "Single-line status mode")
	flag.BoolVar(&miniMode, "mini", false, "Show ASCII mini orbit")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout)")
	flag.IntVar(&preTicks, "ticks", 0, "Advance N ticks before headless output")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 2s)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "speed":
			cfg.Speed = *speed
		case "zoom":
			cfg.Zoom = *zoom
		case "trails":
			cfg.Trails = *trails
		case "fps":
			cfg.FPS = *fps
		case "log-level":
			cfg.LogLevel = *logLevel
		case "serve":
			cfg.Serve.Addr = *serveAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if preTicks < 0 {
		fmt.Fprintf(os.Stderr, "Error: --ticks must be non-negative, got %d\n", preTicks)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateMgr := state.NewManager(cfg.StateConfig())

	var hub *stream.Hub
	if cfg.Serve.Addr != "" {
		hub = stream.NewHub(stream.Config{
			MaxClientsPerIP: cfg.Serve.MaxClientsPerIP,
			MaxFPS:          cfg.Serve.MaxFPS,
		}, logger)
		defer hub.Close()
	}

	headless := summaryMode || nowMode || miniMode || eventsMode || snapshotPath != ""
	if headless || (hub != nil && !term.IsTerminal(int(os.Stdout.Fd()))) {
		if err := runHeadless(ctx, cfg, stateMgr, hub, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Logs would corrupt the alt screen, so TUI mode writes them to a file or nowhere.
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger = logging.Discard()
	}

	if hub != nil {
		go serve(ctx, cfg.Serve.Addr, hub, logger)
	}

	model := ui.New(stateMgr, ui.Options{
		FPS:     cfg.FPS,
		OnFrame: frameSink(hub, logger),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI at %d fps", cfg.FPS)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// frameSink records metrics for each frame and forwards it to the stream.
func frameSink(hub *stream.Hub, logger *logging.Logger) func(state.Snapshot) {
	return func(snap state.Snapshot) {
		metrics.ObserveTick(snap)
		if hub == nil {
			return
		}
		if err := hub.Publish(snap); err != nil {
			logger.Warn("publish frame %d: %v", snap.Tick, err)
		}
	}
}

func serve(ctx context.Context, addr string, hub *stream.Hub, logger *logging.Logger) {
	if err := stream.ListenAndServe(ctx, addr, stream.NewMux(hub), logger); err != nil {
		logger.Error("%v", err)
	}
}

// runTickLoop advances the simulation at the configured rate until ctx ends.
func runTickLoop(ctx context.Context, stateMgr *state.Manager, interval time.Duration, onFrame func(state.Snapshot), logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Tick loop shutting down")
			return
		case <-ticker.C:
			stateMgr.Tick()
			onFrame(stateMgr.Snapshot())
		}
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, cfg *config.Config, stateMgr *state.Manager, hub *stream.Hub, logger *logging.Logger) error {
	for i := 0; i < preTicks; i++ {
		stateMgr.Tick()
	}
	if preTicks > 0 {
		logger.Debug("advanced %d ticks before output", preTicks)
	}

	// The clock only runs on its own when something keeps watching it.
	live := watchInterval > 0 || hub != nil
	if live {
		go runTickLoop(ctx, stateMgr, cfg.TickInterval(), frameSink(hub, logger), logger)
	}
	if hub != nil {
		go serve(ctx, cfg.Serve.Addr, hub, logger)
	}

	outputOnce := func() error {
		snap := stateMgr.Snapshot()
		now := time.Now()

		if nowMode {
			export.WriteNowLine(os.Stdout, snap)
			return nil
		}

		if snapshotPath != "" {
			exp := export.ExportSnapshot(snap, now)
			if snapshotPath == "-" {
				if err := exp.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(snapshotPath)
				if err != nil {
					return fmt.Errorf("create snapshot file: %w", err)
				}
				defer f.Close()
				if err := exp.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		if summaryMode {
			export.WriteSummary(os.Stdout, snap, now)
		}

		if miniMode {
			fmt.Println()
			export.WriteMiniOrbit(os.Stdout, snap, export.DefaultMiniOrbitConfig())
		}

		if eventsMode {
			fmt.Println()
			export.WriteEvents(os.Stdout, snap.Events, 10)
		}
		return nil
	}

	headless := summaryMode || nowMode || miniMode || eventsMode || snapshotPath != ""
	if headless {
		if err := outputOnce(); err != nil {
			return err
		}
	}

	// Single run
	if !live {
		return nil
	}

	// Serve-only: keep the tick loop and server alive until interrupted.
	if watchInterval == 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !nowMode {
				fmt.Println() // Blank line between outputs (except now mode)
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
