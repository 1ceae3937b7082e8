// Package server boots the HTTP process: configuration, database, cache,
// storage, log sinks, routes, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prasetyowidi/selaras/app/routes"
	"github.com/prasetyowidi/selaras/config"
	"github.com/prasetyowidi/selaras/pkg/cache"
	"github.com/prasetyowidi/selaras/pkg/database"
	"github.com/prasetyowidi/selaras/pkg/logger"
	"github.com/prasetyowidi/selaras/pkg/metrics"
	"github.com/prasetyowidi/selaras/pkg/middleware"
	"github.com/prasetyowidi/selaras/pkg/reqid"
	"github.com/prasetyowidi/selaras/pkg/response"
	"github.com/prasetyowidi/selaras/pkg/router"
	"github.com/prasetyowidi/selaras/pkg/storage"
)

const shutdownGrace = 15 * time.Second

func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		sink, err := logger.AttachMongoSink(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink unavailable", "err", err)
		} else {
			defer sink.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "err", err)
	}
	storage.Connect()

	r := router.New()
	r.Use(middleware.Recovery, reqid.Middleware(), middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()), metrics.Middleware())

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, db, storage.Default())

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
