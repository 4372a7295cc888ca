// Command seed loads a ledger CSV file into the Postgres ledger database.
//
//	go run ./cmd/seed ledger.csv
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"splitledger-backend/config"
	"splitledger-backend/internal/logger"
	"splitledger-backend/internal/postgres"
)

func main() {
	path := "ledger.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	appLogger := logger.New(cfg)
	if cfg.Database.DSN == "" {
		appLogger.Fatal().Msg("DATABASE_DSN must be set to seed the ledger")
	}

	file, err := os.Open(path)
	if err != nil {
		appLogger.Fatal().Err(err).Str("path", path).Msg("Error opening CSV file")
	}
	defer file.Close()

	rows, err := postgres.ReadLedgerCSV(file)
	if err != nil {
		appLogger.Fatal().Err(err).Str("path", path).Msg("Error reading ledger CSV")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to connect to ledger database")
	}
	defer pool.Close()

	if err := postgres.ImportLedger(ctx, pool, rows, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to import ledger")
	}
}
