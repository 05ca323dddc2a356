package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/config"
	"github.com/aminata-dev/lottostock/internal/repository/sqlite"
	"github.com/aminata-dev/lottostock/internal/scheduler"
	"github.com/aminata-dev/lottostock/internal/server/handlers"
	"github.com/aminata-dev/lottostock/internal/server/router"
	aggregationsvc "github.com/aminata-dev/lottostock/internal/service/aggregation"
	ledgersvc "github.com/aminata-dev/lottostock/internal/service/ledger"
	reconciliationsvc "github.com/aminata-dev/lottostock/internal/service/reconciliation"
	"github.com/aminata-dev/lottostock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	for _, name := range cfg.InsecureDefaults() {
		baseLogger.Warn("running with insecure development default", zap.String("setting", name))
	}

	repo, err := sqlite.New(cfg.Database.Path, baseLogger.Named("repo.sqlite"))
	if err != nil {
		baseLogger.Fatal("failed to init sqlite repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()

	ledgerSvc := ledgersvc.NewService(repo, baseLogger.Named("svc.ledger"))
	aggSvc := aggregationsvc.NewService(repo, baseLogger.Named("svc.aggregation"))
	reconSvc := reconciliationsvc.NewService(repo, repo, aggSvc, baseLogger.Named("svc.reconciliation"))

	engine := router.New(router.Handlers{
		Stock:          handlers.NewStockHandler(ledgerSvc, baseLogger.Named("handlers.stock")),
		Reports:        handlers.NewReportsHandler(ledgerSvc, aggSvc, baseLogger.Named("handlers.reports")),
		Reconciliation: handlers.NewReconciliationHandler(reconSvc, aggSvc, baseLogger.Named("handlers.reconciliation")),
		Admin:          handlers.NewAdminHandler(cfg.Admin.Passcode, baseLogger.Named("handlers.admin")),
	}, cfg.Session.Secret, "web/templates/*.html", baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reminder, ledgerSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
