// cmd/migrate/main.go
// Applies the schema, reports table sizes and optionally repairs match records

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/config"
	"github.com/imadgeboyega/roommate-finder/internal/matching"
	"github.com/imadgeboyega/roommate-finder/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file [env: CONFIG_PATH]")
	reconcile := flag.Bool("reconcile", false, "Rebuild match records from mutual likes")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg.Storage, true, appLog)
	if err != nil {
		appLog.Fatal("failed to open storage", "error", err)
	}
	defer st.Close()

	if st.SQL != nil {
		counts, err := database.TableCounts(ctx, st.SQL)
		if err != nil {
			appLog.Fatal("failed to count rows", "error", err)
		}
		appLog.Info("schema ready",
			"profiles", counts["profiles"],
			"listings", counts["listings"],
			"likes", counts["likes"],
			"matches", counts["matches"],
		)
	}

	if *reconcile {
		report, err := matching.NewReconciler(st.Likes, appLog).Run(ctx)
		if err != nil {
			appLog.Fatal("reconcile failed", "error", err)
		}
		appLog.Info("reconcile complete", "missing", report.Missing, "orphaned", report.Orphaned)
	}
}
