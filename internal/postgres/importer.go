package postgres

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"splitledger-backend/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrExpenseUnbalanced is returned when the shares of one expense do not sum
// to what was lent for it.
var ErrExpenseUnbalanced = errors.New("expense shares do not balance")

// LedgerRow is one line of a ledger import file:
// expense_id,group_id,user_id,amount_lent,amount_owed
type LedgerRow struct {
	GroupID int64
	Entry   model.LedgerEntry
}

// ReadLedgerCSV parses an import file. A first line starting with
// "expense_id" is treated as a header. Every expense must balance.
func ReadLedgerCSV(r io.Reader) ([]LedgerRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.TrimLeadingSpace = true

	var rows []LedgerRow
	sums := make(map[int64]decimal.Decimal)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(record[0], "expense_id") {
			continue
		}

		row, err := parseLedgerRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
		net := row.Entry.AmountLent.Sub(row.Entry.AmountOwed)
		sums[row.Entry.ExpenseID] = sums[row.Entry.ExpenseID].Add(net)
	}

	for expenseID, sum := range sums {
		if !sum.IsZero() {
			return nil, fmt.Errorf("%w: expense %d off by %s", ErrExpenseUnbalanced, expenseID, sum.String())
		}
	}
	return rows, nil
}

func parseLedgerRecord(record []string) (LedgerRow, error) {
	var ids [3]int64
	for i := range ids {
		id, err := strconv.ParseInt(record[i], 10, 64)
		if err != nil {
			return LedgerRow{}, fmt.Errorf("invalid id %q: %w", record[i], err)
		}
		ids[i] = id
	}
	lent, err := decimal.NewFromString(record[3])
	if err != nil {
		return LedgerRow{}, fmt.Errorf("invalid amount_lent %q: %w", record[3], err)
	}
	owed, err := decimal.NewFromString(record[4])
	if err != nil {
		return LedgerRow{}, fmt.Errorf("invalid amount_owed %q: %w", record[4], err)
	}
	if !model.HasAmountPrecision(lent) || !model.HasAmountPrecision(owed) {
		return LedgerRow{}, fmt.Errorf("amounts %q/%q exceed %d decimal places", record[3], record[4], model.AmountPlaces)
	}
	return LedgerRow{
		GroupID: ids[1],
		Entry: model.LedgerEntry{
			ExpenseID:     ids[0],
			ParticipantID: ids[2],
			AmountLent:    lent,
			AmountOwed:    owed,
		},
	}, nil
}

// Group id 0 means no group. Every id parameter is bigint.
var (
	insertExpenseSQL = fmt.Sprintf(`
		INSERT INTO %s (id, total_amount, group_id)
		VALUES ($1::bigint, $2::numeric, NULLIF($3::bigint, 0))
		ON CONFLICT (id) DO NOTHING`, expensesTableName)
	insertShareSQL = fmt.Sprintf(`
		INSERT INTO %s (expense_id, user_id, amount_lent, amount_owed)
		VALUES ($1::bigint, $2::bigint, $3::numeric, $4::numeric)`, userExpensesTableName)
)

// ImportLedger writes the rows in a single transaction. Expenses that already
// exist are kept as they are; their shares are appended.
func ImportLedger(ctx context.Context, pool *pgxpool.Pool, rows []LedgerRow, logger zerolog.Logger) error {
	totals := make(map[int64]decimal.Decimal)
	for _, row := range rows {
		totals[row.Entry.ExpenseID] = totals[row.Entry.ExpenseID].Add(row.Entry.AmountLent)
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		seen := make(map[int64]bool)
		for _, row := range rows {
			e := row.Entry
			if !seen[e.ExpenseID] {
				seen[e.ExpenseID] = true
				batch.Queue(insertExpenseSQL, e.ExpenseID, totals[e.ExpenseID].String(), row.GroupID)
			}
			batch.Queue(insertShareSQL, e.ExpenseID, e.ParticipantID, e.AmountLent.String(), e.AmountOwed.String())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("ledger import failed: %w", err)
		}
		logger.Info().Int("expenses", len(seen)).Int("shares", len(rows)).Msg("Imported ledger rows")
		return nil
	})
}
