package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/awd2211/lnkday-privacy/internal/artifact"
	"github.com/awd2211/lnkday-privacy/internal/audit"
	consentmetrics "github.com/awd2211/lnkday-privacy/internal/consent/metrics"
	consentservice "github.com/awd2211/lnkday-privacy/internal/consent/service"
	consentstore "github.com/awd2211/lnkday-privacy/internal/consent/store"
	"github.com/awd2211/lnkday-privacy/internal/directory"
	"github.com/awd2211/lnkday-privacy/internal/notify"
	"github.com/awd2211/lnkday-privacy/internal/platform/config"
	"github.com/awd2211/lnkday-privacy/internal/platform/database"
	"github.com/awd2211/lnkday-privacy/internal/platform/logger"
	requestmetrics "github.com/awd2211/lnkday-privacy/internal/request/metrics"
	"github.com/awd2211/lnkday-privacy/internal/request/scheduler"
	"github.com/awd2211/lnkday-privacy/internal/request/service"
	requeststore "github.com/awd2211/lnkday-privacy/internal/request/store"
	"github.com/awd2211/lnkday-privacy/internal/seeder"
	httptransport "github.com/awd2211/lnkday-privacy/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing privacy service",
		"addr", cfg.Addr,
		"postgres", cfg.DatabaseURL != "",
		"cooling_off_period", cfg.CoolingOffPeriod.String(),
		"export_retention", cfg.ExportRetention.String(),
	)

	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		consents consentservice.Store = consentstore.New()
		requests service.Store        = requeststore.New()
		health   httptransport.HealthChecker
	)
	if pool != nil {
		consents = consentstore.NewPostgres(pool.DB())
		requests = requeststore.NewPostgres(pool.DB())
		health = pool
		defer pool.Close()
	}

	auditor := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	registry := consentservice.NewRegistry(consents, auditor, log,
		consentservice.WithMetrics(consentmetrics.New()),
		consentservice.WithPolicyVersion(cfg.PolicyVersion),
	)

	issuer, err := artifact.NewIssuer(cfg.DownloadTokenKey)
	if err != nil {
		log.Error("download token issuer init failed", "error", err)
		os.Exit(1)
	}
	bundles := artifact.NewInMemoryBundleStore()

	users := directory.NewUserDirectory()
	memberships := directory.NewMembershipDirectory()

	if cfg.SeedDemoData {
		if err := seeder.New(users, memberships, registry, log).SeedAll(context.Background()); err != nil {
			log.Error("demo data seeding failed", "error", err)
			os.Exit(1)
		}
	}

	lifecycleMetrics := requestmetrics.New()

	orchestrator, err := service.NewService(
		requests, registry, users, memberships,
		notify.NewLogNotifier(log), issuer, bundles, log,
		service.WithAuditor(auditor),
		service.WithMetrics(lifecycleMetrics),
		service.WithCoolingOffPeriod(cfg.CoolingOffPeriod),
		service.WithExportRetention(cfg.ExportRetention),
	)
	if err != nil {
		log.Error("request service init failed", "error", err)
		os.Exit(1)
	}

	sweeps, err := scheduler.New(orchestrator, requests, log,
		scheduler.WithDeletionInterval(cfg.DeletionSweepInterval),
		scheduler.WithCleanupInterval(cfg.CleanupSweepInterval),
		scheduler.WithMetrics(lifecycleMetrics),
		scheduler.WithAuditor(auditor),
		scheduler.WithBundleStore(bundles),
	)
	if err != nil {
		log.Error("scheduler init failed", "error", err)
		os.Exit(1)
	}
	if err := sweeps.Start(context.Background()); err != nil {
		log.Error("scheduler start failed", "error", err)
		os.Exit(1)
	}
	defer sweeps.Stop()

	router := httptransport.NewRouter(
		httptransport.NewConsentHandler(registry, log),
		httptransport.NewRequestHandler(orchestrator, issuer, bundles, log),
		health, log,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
