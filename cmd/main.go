package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/jobmatch/internal/adapters/http/api"
	"github.com/okian/jobmatch/internal/adapters/inference"
	"github.com/okian/jobmatch/internal/adapters/market"
	"github.com/okian/jobmatch/internal/adapters/store"
	app "github.com/okian/jobmatch/internal/app"
	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/pkg/logger"
	"github.com/okian/jobmatch/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	engineMetricsInterval     = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics.
	// We collect our own custom system metrics instead.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		// Logger isn't available yet, write straight to stderr.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Text inference runs against Gemini when a key is configured and
	// degrades to neutral scores otherwise.
	var inferenceClient inference.Client = inference.NeutralClient{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := inference.NewGeminiClient(ctx, cfg.GeminiAPIKey,
			inference.WithModel(cfg.GeminiModel),
			inference.WithTimeout(time.Duration(cfg.InferenceTimeoutMS)*time.Millisecond),
		)
		if err != nil {
			loggerInstance.Warn(ctx, "gemini client unavailable; using neutral inference", logger.Error(err))
		} else {
			inferenceClient = gemini
		}
	}

	signals := market.NewStaticProvider(market.WithDemandTable(cfg.MarketDemand))

	// Create and start the engine with configuration options.
	engine := app.New(store.NewMemoryStore(),
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.FeedbackQueueSize),
		app.WithFeedbackBatchSize(cfg.FeedbackBatchSize),
		app.WithRetrainThreshold(cfg.RetrainThreshold),
		app.WithCandidatePoolSize(cfg.CandidatePoolSize),
		app.WithScoringParallelism(cfg.ScoringParallelism),
		app.WithProfileCacheTTL(time.Duration(cfg.ProfileCacheTTLMinutes)*time.Minute),
		app.WithRecommendationCacheTTL(time.Duration(cfg.RecommendationCacheTTLSeconds)*time.Second),
		app.WithInitialWeights(cfg.InitialWeights),
		app.WithInferenceClient(inferenceClient),
		app.WithMarketSignals(signals),
	)
	if err := engine.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start engine: " + err.Error() + "\n")
		return
	}
	defer engine.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start engine metrics updater
	go startEngineMetricsUpdater(ctx, engine)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the engine dependency.
	apiServer := api.NewServer(engine, engine)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startEngineMetricsUpdater starts a background goroutine that updates engine metrics.
func startEngineMetricsUpdater(ctx context.Context, engine *app.Engine) {
	ticker := time.NewTicker(engineMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateEngineMetrics(engine)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateEngineMetrics updates engine-level metrics.
func updateEngineMetrics(engine *app.Engine) {
	stats := engine.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}

	if version, ok := stats["modelVersion"].(int); ok {
		metrics.UpdateModelVersion(version)
	}

	if accuracy, ok := stats["modelAccuracy"].(float64); ok {
		metrics.UpdateModelAccuracy(accuracy)
	}
}
