package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/coinpulse/Internal/database"
	"github.com/fazecat/coinpulse/Internal/strategy/gate"
	"github.com/fazecat/coinpulse/Internal/utils/config"
	"github.com/fazecat/coinpulse/Internal/utils/scanner"
	"github.com/fazecat/coinpulse/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := datafeed.InitDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer datafeed.CloseDatabase()

	fetcher := datafeed.NewAlpacaFetcher()
	basketScanner := scanner.NewBasketScanner(fetcher, cfg.Screener, cfg.VCP)
	evaluator := gate.NewEvaluator(cfg.Gate)

	jwtManager := internal.NewJWTManager()

	apiServer := &internal.API{
		Config:     cfg,
		Scanner:    basketScanner,
		Evaluator:  evaluator,
		JWTManager: jwtManager,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    "healthy",
		})
	})

	// Public routes
	r.Get("/api/market-gate", apiServer.HandleGetMarketGate)
	r.Get("/api/vcp-signals", apiServer.HandleGetVCPSignals)
	r.Post("/api/token", apiServer.HandleGenerateToken)

	// Scan trigger is authenticated: it fans out to the market data API
	r.Group(func(r chi.Router) {
		r.Use(internal.JWTAuthMiddleware(jwtManager))
		r.Post("/api/scan", apiServer.HandleRunScan)
	})

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting API server on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
