// Command dealdesk runs the auction and bidding engine API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dealdeskai/dealdesk/internal/api"
	"github.com/dealdeskai/dealdesk/internal/config"
	"github.com/dealdeskai/dealdesk/internal/db"
	"github.com/dealdeskai/dealdesk/internal/db/migrations"
	"github.com/dealdeskai/dealdesk/internal/dbpool"
	"github.com/dealdeskai/dealdesk/internal/service"
	"github.com/dealdeskai/dealdesk/internal/store"
	"github.com/dealdeskai/dealdesk/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("dealdesk exited with error")
	}
}

func run(log *logrus.Logger) error {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"version":        config.Version,
		"schema_version": db.SchemaVersion(),
	}).Info("dealdesk starting")

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	bridge := db.NewNotifyBridge(log, pool, hub)
	if err := bridge.Start(ctx); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	auctionStore := store.NewAuctionStore(base)
	auditStore := store.NewAuditStore(base)
	analysisStore := store.NewAnalysisStore(base)

	auctionSvc := service.NewAuctionService(auctionStore, analysisStore, log, cfg.LeaderboardSize)
	auditSvc := service.NewAuditService(auditStore, log)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Auctions:    auctionSvc,
		Audit:       auditSvc,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", cfg.Addr()).Info("http server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("dealdesk stopped")

	return nil
}
