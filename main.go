package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aashish23092/taxease-analyzer/config"
	"github.com/Aashish23092/taxease-analyzer/handler"
	"github.com/Aashish23092/taxease-analyzer/middleware"
	"github.com/Aashish23092/taxease-analyzer/service"
	"github.com/Aashish23092/taxease-analyzer/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Initialize OCR engine
	ocrEngine, err := service.NewOCREngine(cfg.OCR, logger)
	if err != nil {
		logger.Error("Failed to initialize OCR engine", "error", err)
		os.Exit(1)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	// Upload size is enforced by the handlers; this only bounds memory use
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	var metrics *service.Metrics
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
		if err != nil {
			logger.Error("Failed to register HTTP metrics", "error", err)
			os.Exit(1)
		}
		router.Use(promMiddleware.Handler())

		if metrics, err = service.NewMetrics(reg); err != nil {
			logger.Error("Failed to register pipeline metrics", "error", err)
			os.Exit(1)
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	// Initialize service layer
	analyzer, err := service.NewPipeline(cfg, ocrEngine, metrics, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Initialize handler layer
	apiHandler := handler.NewAnalyzeHandler(analyzer, cfg.MaxUploadBytes, logger)
	handler.RegisterRoutes(router, apiHandler, handler.NewPageHandler(apiHandler), metricsHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	go func() {
		logger.Info("Starting TaxEase Analyzer",
			"port", cfg.ServerPort,
			"threshold", cfg.FlagThreshold.String(),
			"ocr_engine", ocrEngine.Name(),
			"pdf_engine", cfg.PDF.Engine,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracing shutdown failed", "error", err)
	}
}
