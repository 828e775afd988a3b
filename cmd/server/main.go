// Command server wires the clinicore backend: storage, the audit engine,
// business surfaces, the HTTP router, and the retention scheduler. Business
// logic lives in the internal packages; main only composes them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"clinicore/internal/audit"
	audithandler "clinicore/internal/audit/handler"
	auditmemory "clinicore/internal/audit/store/memory"
	auditpostgres "clinicore/internal/audit/store/postgres"
	"clinicore/internal/audit/store/rediscache"
	"clinicore/internal/booking"
	bookinghandler "clinicore/internal/booking/handler"
	"clinicore/internal/calllog"
	callloghandler "clinicore/internal/calllog/handler"
	"clinicore/internal/platform/config"
	"clinicore/internal/platform/httpserver"
	"clinicore/internal/platform/logger"
	"clinicore/internal/platform/postgres"
	platformredis "clinicore/internal/platform/redis"
	"clinicore/pkg/platform/middleware/metadata"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		auditStore  audit.Store
		policyStore audit.PolicyStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := auditpostgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
		auditStore = auditpostgres.New(db)
		policyStore = auditpostgres.NewPolicyStore(db)
	} else {
		log.Warn("DATABASE_URL not set, running on in-memory stores")
		auditStore = auditmemory.NewStore()
		policyStore = auditmemory.NewPolicyStore()
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		policyStore = rediscache.New(policyStore, redisClient.Client, 0, log)
	}

	if err := audit.SeedDefaultPolicies(ctx, policyStore, log); err != nil {
		log.Error("retention policy seeding failed", "error", err)
		os.Exit(1)
	}

	// Audit engine.
	metrics := audit.NewMetrics()
	resolver := audit.NewResolver(policyStore, log, metrics)
	recorder := audit.NewRecorder(auditStore, resolver,
		audit.WithRecorderLogger(log),
		audit.WithRecorderMetrics(metrics),
	)
	reader := audit.NewReader(auditStore, log, metrics)
	sweeper := audit.NewSweeper(auditStore, recorder,
		audit.WithSweeperLogger(log),
		audit.WithSweeperMetrics(metrics),
	)
	scheduler := audit.NewScheduler(sweeper, cfg.CleanupSchedule, log)

	// Business surfaces.
	bookingSvc := booking.NewService(booking.NewInMemoryStore(), recorder, log)
	calllogSvc := calllog.NewService(calllog.NewInMemoryStore(), recorder, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(metadata.ClientMetadata)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	audithandler.New(reader, sweeper, log).Register(r)
	bookinghandler.New(bookingSvc, log).Register(r)
	callloghandler.New(calllogSvc, log).Register(r)

	srv := httpserver.New(cfg.Addr, r)

	if err := scheduler.Start(ctx); err != nil {
		log.Error("retention scheduler failed to start", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting clinicore", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scheduler.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("clinicore stopped")
}
