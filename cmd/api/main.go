package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/db"
	httpx "github.com/sriganeshautocars/ganesh-cars-backend/internal/http"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/observability"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is optional; without a collector the global provider is a no-op
	var tracerShutdown func(context.Context) error

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "ganesh-cars-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		tracerShutdown = shutdown
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	seedCtx, seedCancel := config.WithTimeout(5 * time.Second)
	err = db.EnsureAdminUser(seedCtx, pool, cfg)
	seedCancel()

	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	uploader, err := storage.New(cfg.Storage, prom)

	if err != nil {
		log.Error("storage client init failed", "err", err)
		os.Exit(1)
	}

	router := httpx.NewRouter(pool, cfg, prom, reg, uploader)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads can be slow on bad links
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		pool.Close()

		if tracerShutdown != nil {
			if err := tracerShutdown(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
