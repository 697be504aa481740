// Command voxgate runs the backchannel gate as a standalone process: it
// reads finalized-transcript events as JSON lines on stdin, classifies each
// one, and writes the verdict as a JSON line on stdout. Intended for offline
// evaluation of transcript fixtures and for hosts that integrate over a
// pipe rather than linking the library.
//
// Input:  {"transcript": "yeah okay", "agent_speaking": true, "agent_state": "speaking"}
// Output: {"transcript": "yeah okay", "ignore": true, "reason": "passive_acknowledgement_ignored_agent_speaking"}
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/voxgate/voxgate/internal/config"
	"github.com/voxgate/voxgate/internal/gate"
	"github.com/voxgate/voxgate/internal/observe"
	"github.com/voxgate/voxgate/pkg/interrupt"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	watch := flag.Bool("watch", true, "hot-reload the config file when it changes")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voxgate: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voxgate: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// The level lives in a LevelVar so a config reload can adjust it without
	// rebuilding the logger.
	level := new(slog.LevelVar)
	level.Set(slogLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("voxgate starting",
		"version", version,
		"config", *configPath,
		"log_level", cfg.Server.LogLevel,
		"filler_words", len(cfg.Interrupt.FillerWords),
		"enabled", cfg.Interrupt.Enabled,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "voxgate",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	metrics := observe.DefaultMetrics()

	// ── Gate ──────────────────────────────────────────────────────────────────
	classifier := interruptClassifier(cfg)
	history := gate.NewHistory(256, 10*time.Minute)
	g := gate.New(classifier,
		gate.WithMetrics(metrics),
		gate.WithHistory(history),
	)
	metrics.VocabularySize.Record(ctx, int64(len(classifier.Vocabulary())))

	// ── Config hot-reload ─────────────────────────────────────────────────────
	if *watch {
		watcher, werr := config.NewWatcher(*configPath, func(old, new *config.Config) {
			applyReload(ctx, metrics, level, g, old, new)
		})
		if werr != nil {
			slog.Error("failed to start config watcher", "err", werr)
			return 1
		}
		defer watcher.Stop()
	}

	// ── Run ───────────────────────────────────────────────────────────────────
	group, gctx := errgroup.WithContext(ctx)

	if addr := cfg.Server.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}

		group.Go(func() error {
			slog.Info("metrics endpoint ready", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		// EOF on stdin ends the process: stop() cancels the root context so
		// the metrics server shuts down too.
		defer stop()
		return classifyLoop(gctx, g, os.Stdin, os.Stdout)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := otelShutdown(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// transcriptEvent is one finalized-transcript event on stdin.
type transcriptEvent struct {
	Transcript    string `json:"transcript"`
	AgentSpeaking bool   `json:"agent_speaking"`
	AgentState    string `json:"agent_state,omitempty"`
}

// verdict is the response written for each event.
type verdict struct {
	Transcript string `json:"transcript"`
	Ignore     bool   `json:"ignore"`
	Reason     string `json:"reason"`
}

// classifyLoop reads JSON-lines transcript events from in and writes one
// verdict line per event to out. Returns nil on EOF.
func classifyLoop(ctx context.Context, g *gate.Gate, in *os.File, out *os.File) error {
	// Unblock the scanner when the context is cancelled.
	go func() {
		<-ctx.Done()
		in.Close()
	}()

	scanner := bufio.NewScanner(in)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev transcriptEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			slog.Warn("skipping malformed event", "err", err)
			continue
		}

		g.SetSpeaking(ev.AgentSpeaking)
		d := g.Offer(ctx, ev.Transcript)

		if err := enc.Encode(verdict{
			Transcript: d.Transcript,
			Ignore:     d.Ignore,
			Reason:     string(d.Reason),
		}); err != nil {
			return fmt.Errorf("write verdict: %w", err)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read events: %w", err)
	}
	return ctx.Err()
}

// applyReload hot-applies a config change to the running gate.
func applyReload(ctx context.Context, metrics *observe.Metrics, level *slog.LevelVar, g *gate.Gate, old, new *config.Config) {
	d := config.Diff(old, new)
	if !d.Changed() {
		metrics.RecordConfigReload(ctx, "noop")
		return
	}

	if d.LogLevelChanged {
		level.Set(slogLevel(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}

	switch {
	case d.BehaviorChanged:
		// Behaviour changes replace the whole classifier config (which also
		// picks up any vocabulary change).
		g.Classifier().SetConfig(new.Interrupt.ClassifierConfig())
		slog.Info("classifier configuration replaced")
	case d.FillerWordsChanged:
		g.Classifier().ReplaceFillerWords(new.Interrupt.FillerWords)
		slog.Info("filler vocabulary replaced", "words", len(new.Interrupt.FillerWords))
	}

	metrics.VocabularySize.Record(ctx, int64(len(g.Classifier().Vocabulary())))
	metrics.RecordConfigReload(ctx, "applied")
}

// interruptClassifier builds the classifier from the loaded config.
func interruptClassifier(cfg *config.Config) *interrupt.Classifier {
	return interrupt.New(cfg.Interrupt.ClassifierConfig())
}

// slogLevel maps a config log level onto slog.
func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
