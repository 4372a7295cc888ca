package postgres

import (
	"context"
	"errors"
	"fmt"

	"splitledger-backend/internal/model"
	"splitledger-backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLedgerRepository returns nil when pool is nil so callers can treat the
// ledger as unavailable.
func NewLedgerRepository(pool *pgxpool.Pool, logger zerolog.Logger) repository.LedgerRepository {
	if pool == nil {
		return nil
	}
	return &ledgerRepository{
		pool:   pool,
		logger: logger.With().Str("component", "ledger_repository").Logger(),
	}
}

// Numerics are read as text so no precision is lost on the way to decimal.Decimal.
var (
	participantEntriesSQL = fmt.Sprintf(`
		SELECT ue.expense_id, ue.user_id, ue.amount_lent::text, ue.amount_owed::text
		FROM %s ue
		WHERE ue.expense_id IN (SELECT expense_id FROM %s WHERE user_id = $1)
		ORDER BY ue.expense_id, ue.id`, userExpensesTableName, userExpensesTableName)

	groupEntriesSQL = fmt.Sprintf(`
		SELECT ue.expense_id, ue.user_id, ue.amount_lent::text, ue.amount_owed::text
		FROM %s ue
		JOIN %s e ON e.id = ue.expense_id
		WHERE e.group_id = $1
		ORDER BY ue.expense_id, ue.id`, userExpensesTableName, expensesTableName)
)

func (r *ledgerRepository) LedgerEntriesForParticipant(ctx context.Context, userID int64) ([]model.LedgerEntry, error) {
	return r.query(ctx, participantEntriesSQL, userID)
}

func (r *ledgerRepository) LedgerEntriesForGroup(ctx context.Context, groupID int64) ([]model.LedgerEntry, error) {
	return r.query(ctx, groupEntriesSQL, groupID)
}

func (r *ledgerRepository) query(ctx context.Context, sql string, id int64) ([]model.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("Failed to query ledger entries")
		return nil, fmt.Errorf("ledger query failed: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanLedgerEntry)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("Failed to scan ledger entries")
		return nil, fmt.Errorf("ledger scan failed: %w", err)
	}
	r.logger.Debug().Int64("id", id).Int("entries", len(entries)).Msg("Loaded ledger entries")
	return entries, nil
}

func scanLedgerEntry(row pgx.CollectableRow) (model.LedgerEntry, error) {
	var entry model.LedgerEntry
	var lent, owed string
	if err := row.Scan(&entry.ExpenseID, &entry.ParticipantID, &lent, &owed); err != nil {
		return entry, err
	}
	var errLent, errOwed error
	entry.AmountLent, errLent = decimal.NewFromString(lent)
	entry.AmountOwed, errOwed = decimal.NewFromString(owed)
	if err := errors.Join(errLent, errOwed); err != nil {
		return entry, fmt.Errorf("invalid amount on expense %d: %w", entry.ExpenseID, err)
	}
	return entry, nil
}
