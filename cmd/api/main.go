package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	datafeed "github.com/bajutae/Findupbitjewel/Internal/database"
	"github.com/bajutae/Findupbitjewel/Internal/utils/config"
	"github.com/bajutae/Findupbitjewel/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// The screener degrades without a database (market caps come back unknown),
	// so a failed connection is a warning, not a fatal error.
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, market caps will be unknown: %v", err)
	} else {
		defer datafeed.CloseDatabase()
	}

	if err := datafeed.InitAlpacaClient(); err != nil {
		log.Printf("Warning: Alpaca client initialization failed: %v", err)
	}

	apiServer := &internal.API{Config: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", apiServer.HandleHealth)
	r.Post("/api/screener/run", apiServer.HandleRunScreener)
	r.Get("/api/screener/results", apiServer.HandleGetResults)
	r.Get("/api/criteria", apiServer.HandleGetCriteria)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Screener API listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
