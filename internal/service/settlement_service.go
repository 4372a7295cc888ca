package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"splitledger-backend/internal/dto"
	"splitledger-backend/internal/model"
	"splitledger-backend/internal/repository"
	"splitledger-backend/internal/settlement"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrLedgerUnavailable = errors.New("ledger repository is not configured")

type SettlementService interface {
	Settle(ctx context.Context, entries []model.LedgerEntry) ([]dto.TransferResponse, error)
	GroupBalances(ctx context.Context, groupID int64) ([]dto.TransferResponse, error)
	UserBalances(ctx context.Context, userID int64) ([]dto.UserBalanceResponse, error)
}

type settlementService struct {
	engine *settlement.Engine
	ledger repository.LedgerRepository
	logger zerolog.Logger
}

// NewSettlementService accepts a nil ledger; the balance lookups then fail
// with ErrLedgerUnavailable.
func NewSettlementService(engine *settlement.Engine, ledger repository.LedgerRepository, logger zerolog.Logger) SettlementService {
	return &settlementService{
		engine: engine,
		ledger: ledger,
		logger: logger.With().Str("component", "settlement_service").Logger(),
	}
}

func (s *settlementService) Settle(ctx context.Context, entries []model.LedgerEntry) ([]dto.TransferResponse, error) {
	transfers, err := s.engine.Settle(entries)
	if err != nil {
		return nil, err
	}
	return toTransferResponses(transfers), nil
}

// GroupBalances nets every entry of the group before settling.
func (s *settlementService) GroupBalances(ctx context.Context, groupID int64) ([]dto.TransferResponse, error) {
	if s.ledger == nil {
		return nil, ErrLedgerUnavailable
	}
	entries, err := s.ledger.LedgerEntriesForGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group %d ledger: %w", groupID, err)
	}
	transfers, err := s.engine.Settle(entries)
	if err != nil {
		return nil, fmt.Errorf("settle group %d: %w", groupID, err)
	}
	s.logger.Info().Int64("group_id", groupID).Int("entries", len(entries)).Int("transfers", len(transfers)).Msg("Group balances computed")
	return toTransferResponses(transfers), nil
}

// UserBalances settles each expense the user is part of on its own and folds
// the transfers touching the user into one signed amount per counterparty.
func (s *settlementService) UserBalances(ctx context.Context, userID int64) ([]dto.UserBalanceResponse, error) {
	if s.ledger == nil {
		return nil, ErrLedgerUnavailable
	}
	entries, err := s.ledger.LedgerEntriesForParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %d ledger: %w", userID, err)
	}

	final := make(map[int64]decimal.Decimal)
	for _, expense := range groupByExpense(entries) {
		transfers, err := s.engine.Settle(expense.entries)
		if err != nil {
			return nil, fmt.Errorf("settle expense %d: %w", expense.id, err)
		}
		for _, t := range transfers {
			if t.FromParticipantID == userID {
				final[t.ToParticipantID] = final[t.ToParticipantID].Sub(t.Amount)
			}
			if t.ToParticipantID == userID {
				final[t.FromParticipantID] = final[t.FromParticipantID].Add(t.Amount)
			}
		}
	}

	balances := make([]dto.UserBalanceResponse, 0, len(final))
	for other, amount := range final {
		if amount.IsZero() {
			continue
		}
		balances = append(balances, dto.UserBalanceResponse{User: other, Amount: amount.StringFixed(2)})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].User < balances[j].User })

	s.logger.Info().Int64("user_id", userID).Int("entries", len(entries)).Int("counterparties", len(balances)).Msg("User balances computed")
	return balances, nil
}

type expenseLedger struct {
	id      int64
	entries []model.LedgerEntry
}

func groupByExpense(entries []model.LedgerEntry) []expenseLedger {
	index := make(map[int64]int)
	var out []expenseLedger
	for _, e := range entries {
		i, ok := index[e.ExpenseID]
		if !ok {
			i = len(out)
			index[e.ExpenseID] = i
			out = append(out, expenseLedger{id: e.ExpenseID})
		}
		out[i].entries = append(out[i].entries, e)
	}
	return out
}

func toTransferResponses(transfers []model.Transfer) []dto.TransferResponse {
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.TransferResponse{
			FromUser: t.FromParticipantID,
			ToUser:   t.ToParticipantID,
			Amount:   t.AmountString(),
		})
	}
	return out
}
