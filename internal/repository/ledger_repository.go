package repository

import (
	"context"

	"splitledger-backend/internal/model"
)

// LedgerRepository loads ledger entries; each entry carries its ExpenseID.
type LedgerRepository interface {
	// LedgerEntriesForParticipant returns every entry of every expense the user takes part in.
	LedgerEntriesForParticipant(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
	LedgerEntriesForGroup(ctx context.Context, groupID int64) ([]model.LedgerEntry, error)
}
