package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/bot"
	"github.com/Raahin414/fpl-autonomous-bot/internal/cfg"
	"github.com/Raahin414/fpl-autonomous-bot/internal/dashboard"
	"github.com/Raahin414/fpl-autonomous-bot/internal/exec"
	"github.com/Raahin414/fpl-autonomous-bot/internal/fpl"
	"github.com/Raahin414/fpl-autonomous-bot/internal/metrics"
	"github.com/Raahin414/fpl-autonomous-bot/internal/runner"
	"github.com/Raahin414/fpl-autonomous-bot/internal/sentiment"
	"github.com/Raahin414/fpl-autonomous-bot/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		runNow   = flag.Bool("run-now", false, "perform one manual run and exit")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Local development convenience; secrets come from the real
	// environment in production.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	startMetricsServer(ctx, c)

	client := fpl.NewClient(c.Email, c.Password, c.LoginURL, c.BaseURL, c.TeamID, c.RESTTimeout)

	executor := exec.New(client, c.TeamID, c.DryRun, mw)
	if store != nil {
		executor.SetStorage(store)
	}

	weekly := bot.New(c, client, executor, mw)
	if store != nil {
		weekly.SetStorage(store)
	}
	if c.SentimentEnabled {
		weekly.SetScraper(sentiment.NewScraper(c.NewsSources, c.RESTTimeout, mw))
	}

	provisioner := sentiment.NewProvisioner(c.LexiconURL, c.LexiconPath, c.RESTTimeout)
	provisioner.SetMetrics(mw)

	run := runner.New(weekly, provisioner, c.RunHour, m)
	run.SetDependencyCheck(func() error { return ensureDataPath(c.DataPath) })
	if store != nil {
		run.SetStorage(store)
	}

	if *runNow {
		result := run.RunOnce(ctx, runner.TriggerManual)
		if result.Failed() {
			os.Exit(1)
		}
		return
	}

	dash := dashboard.New(run, weekly, store, c.DashboardPort)
	if err := dash.Start(); err != nil {
		log.Error().Err(err).Msg("dashboard start failed")
	}
	defer dash.Stop()

	go func() {
		if err := run.Start(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("scheduler stopped")
		}
	}()

	waitForShutdown(ctx, cancel)
}

// initializeStorage opens the run history store if DATA_PATH is usable
func initializeStorage(c cfg.Settings) *storage.Store {
	if err := ensureDataPath(c.DataPath); err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without persistence")
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without persistence")
		return nil
	}
	return store
}

func ensureDataPath(path string) error {
	if path == "" {
		return fmt.Errorf("data path is empty")
	}
	return os.MkdirAll(path, 0o755)
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()

		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown waits for shutdown signals and cancels the context
func waitForShutdown(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
	cancel()
}
