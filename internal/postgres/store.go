package postgres

import (
	"context"
	"fmt"
	"time"

	"splitledger-backend/config"

	"github.com/cenkalti/backoff"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	expensesTableName     = "expenses"
	userExpensesTableName = "user_expenses"
)

// ProvidePool connects to the ledger database and ensures its schema. It
// returns a nil pool when no DSN is configured.
func ProvidePool(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.Database.DSN == "" {
		logger.Warn().Msg("DATABASE_DSN not set, ledger repository disabled")
		return nil, nil
	}

	pool, err := Connect(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing ledger connection pool...")
			pool.Close()
			return nil
		},
	})
	return pool, nil
}

// Connect opens a pool, waits for the database with exponential backoff and
// ensures the ledger schema. The caller owns the returned pool.
func Connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse ledger database DSN")
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to create ledger connection pool")
		return nil, fmt.Errorf("failed to create ledger pool: %w", err)
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 1 * time.Second
	connectBackoff.MaxInterval = 10 * time.Second
	connectBackoff.MaxElapsedTime = cfg.Database.ConnectTimeout

	err = backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if errPing := pool.Ping(pingCtx); errPing != nil {
			logger.Warn().Err(errPing).Msg("Attempt failed: ledger database ping")
			return errPing
		}
		return nil
	}, connectBackoff)
	if err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("Failed to reach ledger database after retries")
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	setupCtx, cancelSetup := context.WithTimeout(ctx, 30*time.Second)
	defer cancelSetup()
	if err := ensureSchema(setupCtx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed ensuring ledger schema: %w", err)
	}
	logger.Info().Msg("Ledger connection pool created and verified.")
	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			total_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
			group_id BIGINT
		);
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			expense_id BIGINT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			amount_owed NUMERIC(12, 2) NOT NULL DEFAULT 0,
			amount_lent NUMERIC(12, 2) NOT NULL DEFAULT 0
		);`,
		expensesTableName, userExpensesTableName, expensesTableName)
	if _, err := pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create ledger tables: %w", err)
	}
	logger.Info().Str("tables", expensesTableName+","+userExpensesTableName).Msg("Ensured ledger tables exist.")

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_user ON %s (user_id);
		CREATE INDEX IF NOT EXISTS idx_%s_expense ON %s (expense_id);
		CREATE INDEX IF NOT EXISTS idx_%s_group ON %s (group_id);
	`, userExpensesTableName, userExpensesTableName,
		userExpensesTableName, userExpensesTableName,
		expensesTableName, expensesTableName)
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		logger.Warn().Err(err).Msg("Failed to create ledger indexes (continuing)")
	}
	return nil
}
