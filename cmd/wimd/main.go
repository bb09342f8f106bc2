package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wim-pipeline/client"
	"wim-pipeline/config"
	"wim-pipeline/handlers"
	"wim-pipeline/ingest"
	"wim-pipeline/logger"
	"wim-pipeline/services"
	"wim-pipeline/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to set up logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := store.Open(cfg.Database.GetDSN())
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	st := store.New(db, zlog)
	if err := st.Migrate(); err != nil {
		zlog.Fatal("schema migration failed", zap.Error(err))
	}

	// Simulated station
	counter, err := services.NewCounter(cfg.Station.CounterFile)
	if err != nil {
		zlog.Fatal("identity counter init failed", zap.Error(err))
	}
	gen := services.NewGenerator(counter, cfg.Station.GenerateInterval, zlog)
	go gen.Run(ctx)

	live := services.NewLivePublisher(cfg.Redis.URL, cfg.Redis.LiveChannel, zlog)
	defer live.Close()

	gin.SetMode(gin.ReleaseMode)
	h := handlers.NewStationHandler(gen, zlog)
	routes := append(h.Routes(),
		handlers.Route{Method: http.MethodGet, Path: "/metrics", Handler: gin.WrapH(promhttp.Handler())},
		handlers.Route{Method: http.MethodGet, Path: "/live", Handler: handlers.LiveWebSocket(live, zlog)},
	)
	router := handlers.NewRouter(cfg.CORS, routes)

	addr := fmt.Sprintf(":%d", cfg.Station.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zlog.Info("station server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("station server failed", zap.Error(err))
		}
	}()

	// Acquisition pipeline
	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Station.Port)
	src := client.New(baseURL, cfg.Pipeline.HTTPTimeout, zlog)
	loop := ingest.NewLoop(src, st, live, cfg.Pipeline, zlog)

	err = loop.Run(ctx)
	switch {
	case errors.Is(err, ingest.ErrRetriesExhausted):
		zlog.Error("acquisition loop gave up", zap.Error(err))
	case errors.Is(err, context.Canceled):
		zlog.Info("interrupted, shutting down")
	case err != nil:
		zlog.Error("acquisition loop exited", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("station server shutdown failed", zap.Error(err))
	}
}
