// Command ordervox is the main entry point for the ordervox voice-order
// server.
package main

import (
	"context"
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

	"github.com/ordervox/ordervox/internal/app"
	"github.com/ordervox/ordervox/internal/config"
	"github.com/ordervox/ordervox/internal/gateway"
	"github.com/ordervox/ordervox/internal/health"
	"github.com/ordervox/ordervox/internal/lang"
	"github.com/ordervox/ordervox/internal/menu"
	"github.com/ordervox/ordervox/internal/observe"
	"github.com/ordervox/ordervox/internal/order"
)

// shutdownTimeout bounds the graceful drain after a stop signal.
const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "ordervox: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "ordervox: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("ordervox starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName: "ordervox",
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sdCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sdCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Product catalog ───────────────────────────────────────────────────────
	catalog, err := menu.LoadCatalogFile(cfg.Order.CatalogPath)
	if err != nil {
		slog.Error("failed to load product catalog", "path", cfg.Order.CatalogPath, "err", err)
		return 1
	}
	slog.Info("catalog loaded", "menu", catalog.Menu.Name, "products", len(catalog.Products))

	// ── Session manager ───────────────────────────────────────────────────────
	sessions := app.NewSessionManager(app.ManagerConfig{
		Matcher:         menu.NewMatcher(catalog.Products),
		DefaultLanguage: lang.Code(cfg.Order.DefaultLanguage),
		Noisy:           cfg.Order.Mode == config.ModeNoisy,
		PaymentMethods:  cfg.Order.PaymentMethods,
		UndoDepth:       cfg.Order.UndoDepth,
		Submit:          submitOrder,
	})

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		applyReload(config.Diff(old, new), logLevel, sessions)
	})
	if err != nil {
		slog.Error("failed to start config watcher", "err", err)
		return 1
	}
	defer watcher.Stop()

	// ── HTTP surface ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	gateway.New(sessions).Register(mux)
	health.New(health.CatalogChecker(sessions.CatalogSize)).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: observe.Middleware(observe.DefaultMetrics())(mux),
	}

	printStartupSummary(cfg, len(catalog.Products))
	slog.Info("server ready — press Ctrl+C to shut down")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cfg.Server.TLS != nil {
			err = srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutdown signal received, stopping…")
		sdCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sdCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// applyReload applies the hot-reloadable parts of a config change.
// Catalog and mode changes affect sessions created from now on.
func applyReload(d config.ConfigDiff, logLevel *slog.LevelVar, sessions *app.SessionManager) {
	if !d.Changed() {
		return
	}
	if d.LogLevelChanged {
		logLevel.Set(slogLevel(d.NewLogLevel))
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.CatalogChanged {
		catalog, err := menu.LoadCatalogFile(d.NewCatalogPath)
		if err != nil {
			slog.Warn("catalog reload failed, keeping previous catalog", "path", d.NewCatalogPath, "err", err)
		} else {
			sessions.SetMatcher(menu.NewMatcher(catalog.Products))
			slog.Info("catalog reloaded", "menu", catalog.Menu.Name, "products", len(catalog.Products))
		}
	}
	if d.ModeChanged {
		sessions.SetNoisy(d.NewMode == config.ModeNoisy)
		slog.Info("matching mode changed", "mode", d.NewMode)
	}
	if d.PaymentMethodsChanged {
		slog.Info("payment methods changed (applies to new sessions after restart)", "methods", d.NewPaymentMethods)
	}
}

// submitOrder is the hand-off for confirmed orders. Order persistence
// and payment backends are out of scope; confirmed orders are logged
// for the POS integration to consume.
func submitOrder(_ context.Context, items []order.Item, payment string) error {
	for _, it := range items {
		slog.Info("order line", "name", it.Name, "qty", it.Qty, "group", it.GroupLabel, "notes", it.Notes)
	}
	slog.Info("order submitted", "lines", len(items), "payment", payment)
	return nil
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config, products int) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║         ordervox — startup summary    ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printRow("Listen addr", cfg.Server.ListenAddr)
	printRow("Language", string(lang.Coerce(lang.Code(cfg.Order.DefaultLanguage))))
	printRow("Mode", string(activeMode(cfg)))
	printRow("Products", fmt.Sprintf("%d", products))
	printRow("Payments", fmt.Sprintf("%d methods", len(cfg.Order.PaymentMethods)))
	if cfg.Server.TLS != nil {
		printRow("TLS", "enabled")
	} else {
		printRow("TLS", "(disabled)")
	}
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printRow(label, value string) {
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-14s  : %-19s ║\n", label, value)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// activeMode reports the effective matching mode, defaulting to normal.
func activeMode(cfg *config.Config) config.Mode {
	if cfg.Order.Mode == config.ModeNoisy {
		return config.ModeNoisy
	}
	return config.ModeNormal
}

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
