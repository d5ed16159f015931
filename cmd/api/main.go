package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luandafin/finance-dashboard/internal/analysis"
	"github.com/luandafin/finance-dashboard/internal/api/handlers"
	"github.com/luandafin/finance-dashboard/internal/api/middleware"
	"github.com/luandafin/finance-dashboard/internal/config"
	"github.com/luandafin/finance-dashboard/internal/ingest"
	"github.com/luandafin/finance-dashboard/internal/logger"
	"github.com/luandafin/finance-dashboard/internal/store/mongodb"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to MongoDB
	connectCtx, cancelConnect := context.WithTimeout(ctx, 10*time.Second)
	defer cancelConnect()

	store, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDBName, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	// The AI provider is optional; without a key the analysis endpoints fall
	// back to sample payloads.
	var generator analysis.Generator
	if cfg.HasGeminiKey() {
		gen, err := analysis.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create AI client")
		}
		generator = gen
	} else {
		log.Warn().Msg("GEMINI_API_KEY not configured - analysis endpoints will return sample data")
	}

	analysisSvc := analysis.NewService(store, generator, log)
	pipeline := ingest.New(store, log)

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	uploadHandler := handlers.NewUploadHandler(pipeline, log)
	analysisHandler := handlers.NewAnalysisHandler(analysisSvc, log)
	reportsHandler := handlers.NewReportsHandler(store, log)
	staticHandler := handlers.NewStaticHandler(cfg.StaticDir)

	// Create router
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.List(w, r)
		case http.MethodPost:
			transactionsHandler.Create(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/upload_transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			uploadHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// AI analysis endpoints
	mux.HandleFunc("/api/analyze_cashflow", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.AnalyzeCashflow(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/detect_fraud", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.DetectFraud(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/analyze_credit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.AnalyzeCredit(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Stored report endpoints
	mux.HandleFunc("/api/reports/forecast", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.LatestForecast(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports/credit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.LatestCredit(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/reports/risk", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.LatestRisk(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Front-end tabs
	staticHandler.Register(mux)

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close MongoDB connection")
	}

	log.Info().Msg("Server exited")
}
