package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"technician-dispatch-service/internal/adapters/repositories"
	"technician-dispatch-service/internal/api"
	"technician-dispatch-service/internal/application"
	"technician-dispatch-service/internal/config"
	"technician-dispatch-service/internal/platform/db"
	"technician-dispatch-service/internal/platform/logging"
	"technician-dispatch-service/internal/platform/metrics"
	"technician-dispatch-service/internal/platform/obs"
)

// main is the application composition root.
// It wires the Postgres adapters behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Env, cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := obs.SetupTracing(ctx, "technician-dispatch-service")
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if cfg.Env == "development" {
		if err := initAndSeed(ctx, conn, cfg.SeedPath); err != nil {
			return err
		}
	}

	window, err := cfg.Window()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	appts := repositories.NewPostgresAppointmentRepository(conn)
	absences := repositories.NewPostgresAbsenceRepository(conn)
	sched, err := application.NewScheduler(appts, absences, appts, application.Settings{
		Window:     window,
		Route:      cfg.RouteParams(),
		Suggestion: cfg.SuggestionParams(),
		Metrics:    metrics.NewSchedulingMetrics(reg),
	})
	if err != nil {
		return err
	}

	deps := api.Deps{
		Scheduler: sched,
		Location:  window.Loc(),
		Ready:     db.ReadyCheck(conn),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		deps.RateLimiter = api.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, true)
	} else {
		log.Warn().Msg("REDIS_URL not set, rate limiting disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("timezone", window.Loc().String()).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
