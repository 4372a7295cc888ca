package settlement

import (
	"splitledger-backend/internal/model"

	"github.com/rs/zerolog"
)

// Engine runs the balance fold and the solver for one ledger.
type Engine struct {
	logger zerolog.Logger
}

func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger.With().Str("component", "settlement").Logger()}
}

func (e *Engine) Settle(entries []model.LedgerEntry) ([]model.Transfer, error) {
	balances := NetBalances(entries)
	transfers, err := Solve(balances)
	if err != nil {
		e.logger.Warn().Err(err).Int("entries", len(entries)).Int("participants", len(balances)).Msg("Ledger could not be settled")
		return nil, err
	}
	e.logger.Debug().
		Int("entries", len(entries)).
		Int("participants", len(balances)).
		Int("transfers", len(transfers)).
		Msg("Ledger settled")
	return transfers, nil
}
