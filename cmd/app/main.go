package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mauv0809/finmetrics/internal/bootstrap"
	"github.com/mauv0809/finmetrics/internal/config"
	"github.com/mauv0809/finmetrics/internal/handlers"
	"github.com/mauv0809/finmetrics/internal/ingest"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := bootstrap.OpenDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer ds.Close()

	e := newServer(cfg, logger, ds)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.String("dataset", cfg.Dataset.Source),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(cfg *config.Config, logger *zap.Logger, ds *bootstrap.Dataset) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error == nil {
				logger.Info("request", fields...)
			} else {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())

	h := handlers.New(ds.Source, logger, cfg.Server.IsProduction())

	// Routes
	e.GET("/health", h.Health)
	e.GET("/", h.Index)
	e.GET("/chart.svg", h.ChartSVG)
	e.GET("/chart.png", h.ChartPNG)

	api := e.Group("/api")
	api.GET("/companies", h.Companies)
	api.GET("/metrics", h.Metrics)
	api.GET("/data", h.Data)

	// Admin routes need a writable store
	if ds.Repo != nil {
		admin := handlers.NewAdminHandler(ds.Repo, ingest.EmbeddedSource{}, logger)
		g := e.Group("/admin")
		g.GET("/status", admin.Status)
		g.POST("/seed", admin.Seed)
		logger.Info("admin endpoints registered")
	}

	return e
}
