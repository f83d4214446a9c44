package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/ComposerOS/backend/internal/api/http"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/api/ws"
	annotclient "github.com/GriffinCanCode/ComposerOS/backend/internal/clients/annotation"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/annotation"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/benchmark"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/composer"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/domain/history"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/ComposerOS/backend/internal/ingest"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	services  *catalog.Store
	requests  *catalog.RequestStore
	solutions *benchmark.Store
	history   *history.Store
	engine    *composer.Engine
	annotator *annotation.Annotator
	remote    *annotclient.Client
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing ComposerOS Server",
		zap.String("port", cfg.Server.Port),
		zap.String("data_root", cfg.Data.Root),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Initialize distributed tracing
	tracer := tracing.New("backend", logger.Logger)

	// Stores
	services := catalog.NewStore().WithMetrics(metrics)
	requests := catalog.NewRequestStore().WithMetrics(metrics)
	solutions := benchmark.NewStore().WithMetrics(metrics)
	hist := history.NewStore()

	// Composition engine
	limits := composer.Limits{
		MaxExpansions:  cfg.Engine.MaxExpansions,
		MaxGreedySteps: cfg.Engine.MaxGreedySteps,
		Timeout:        cfg.Engine.Timeout,
		TraceExplores:  cfg.Engine.TraceExplores,
		TraceExpands:   cfg.Engine.TraceExpands,
	}
	engine := composer.New(services, limits).
		WithLogger(logger).
		WithMetrics(metrics).
		WithTracing(tracer)

	// Deterministic annotator
	annotator := annotation.New(services).
		WithLogger(logger).
		WithMetrics(metrics)

	// Optional remote annotation service
	var remote *annotclient.Client
	if cfg.Annotator.Address != "" {
		remote = annotclient.New(annotclient.Config{
			Address:  cfg.Annotator.Address,
			Timeout:  cfg.Annotator.Timeout,
			RetryMax: cfg.Annotator.RetryMax,
		}).WithLogger(logger).WithMetrics(metrics)
		logger.Info("Remote annotation service configured",
			zap.String("addr", cfg.Annotator.Address),
		)
	}

	// Seed the stores from the dataset directory
	if cfg.Data.AutoLoad && cfg.Data.Root != "" {
		loader := ingest.NewLoader(services, requests, solutions).
			WithLogger(logger).
			WithMetrics(metrics)
		if _, err := loader.LoadDataset(context.Background(), cfg.Data.Root); err != nil {
			logger.Warn("Failed to load dataset", zap.Error(err))
		}
	}

	// Enrich the booted catalog from the remote service in the background
	if remote != nil && services.Len() > 0 {
		go func() {
			if _, err := remote.Sync(context.Background(), services, nil); err != nil {
				logger.Warn("Remote annotation sync failed", zap.Error(err))
			}
		}()
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.Server.CORSOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Uploads share one limiter across clients; whole datasets arrive here
	uploadLimit := middleware.GlobalRateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	// Create handlers
	handlers := apihttp.NewHandlers(services, requests, engine, annotator, hist, solutions)
	reporter := apihttp.NewMetricsReporter(metrics)
	wsHandler := ws.NewHandler(engine, requests, hist).
		WithLogger(logger).
		WithMetrics(metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/json", reporter.GetMetricsJSON)

	// Catalog
	router.POST("/services/upload", uploadLimit, handlers.UploadServices)
	router.GET("/services", handlers.ListServices)
	router.GET("/services/:id", handlers.GetService)
	router.GET("/services/:id/export", handlers.ExportService)

	// Annotation
	router.POST("/annotate/start", handlers.StartAnnotation)
	router.GET("/annotate/progress", handlers.AnnotationProgress)

	// Requests
	router.POST("/requests/upload", uploadLimit, handlers.UploadRequests)
	router.GET("/requests", handlers.ListRequests)

	// Composition
	router.POST("/compose", handlers.Compose)
	router.POST("/compose/all", handlers.ComposeAll)
	router.GET("/compositions", handlers.ListCompositions)
	router.GET("/compositions/:id", handlers.GetComposition)

	// Benchmark
	router.POST("/solutions/upload", uploadLimit, handlers.UploadSolutions)
	router.GET("/comparison", handlers.GetComparison)

	// WebSocket
	router.GET("/ws/compose", wsHandler.HandleConnection)

	logger.Info("Server initialized successfully",
		zap.Int("services", services.Len()),
		zap.Int("requests", requests.Len()),
		zap.Int("solutions", solutions.Len()),
	)

	return &Server{
		router:    router,
		services:  services,
		requests:  requests,
		solutions: solutions,
		history:   hist,
		engine:    engine,
		annotator: annotator,
		remote:    remote,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Router exposes the gin engine, used by the integration tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}
