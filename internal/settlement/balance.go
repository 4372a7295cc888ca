package settlement

import (
	"splitledger-backend/internal/model"

	"github.com/shopspring/decimal"
)

// NetBalances folds ledger entries into one balance per participant
// (lent minus owed), in order of first appearance.
func NetBalances(entries []model.LedgerEntry) []model.NetBalance {
	index := make(map[int64]int, len(entries))
	balances := make([]model.NetBalance, 0, len(entries))

	for _, e := range entries {
		i, ok := index[e.ParticipantID]
		if !ok {
			i = len(balances)
			index[e.ParticipantID] = i
			balances = append(balances, model.NetBalance{ParticipantID: e.ParticipantID, Net: decimal.Zero})
		}
		balances[i].Net = balances[i].Net.Add(e.AmountLent).Sub(e.AmountOwed)
	}
	return balances
}
