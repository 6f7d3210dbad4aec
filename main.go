package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	datafeed "github.com/bajutae/Findupbitjewel/Internal/database"
	"github.com/bajutae/Findupbitjewel/Internal/utils/config"
	"github.com/bajutae/Findupbitjewel/Internal/utils/formatting"
	"github.com/bajutae/Findupbitjewel/Internal/utils/scanner"
)

func main() {
	profile := flag.String("profile", "default", "screening profile from config.yaml")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Market caps come from the database; without one every cap is unknown and
	// the related checks are skipped, so keep going.
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, market caps will be unknown: %v", err)
	} else {
		defer datafeed.CloseDatabase()
	}

	if err := datafeed.InitAlpacaClient(); err != nil {
		log.Fatalf("Alpaca client initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scanner.PerformScan(ctx, *profile, cfg)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	fmt.Print(formatting.RenderReport(report))

	if len(report.Rejections) > 0 {
		fmt.Printf("Rejected by criteria: %d markets (run the API for per-symbol reasons)\n", len(report.Rejections))
	}
	if len(report.Errors) > 0 {
		fmt.Printf("Excluded for data problems: %d markets\n", len(report.Errors))
	}
}
