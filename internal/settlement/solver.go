package settlement

import (
	"errors"
	"fmt"
	"sort"

	"splitledger-backend/internal/model"

	"github.com/shopspring/decimal"
)

// ErrUnbalancedLedger is returned when the net balances do not sum to zero.
var ErrUnbalancedLedger = errors.New("ledger does not balance")

// Solve returns transfers that bring every balance to zero.
//
// Balances are sorted ascending and settled greedily from both ends: each step
// moves the smaller of the two magnitudes from the most indebted participant to
// the largest creditor, so a side is cleared on every step and at most n-1
// transfers are produced for n nonzero balances. The result is not guaranteed
// to be the global minimum.
func Solve(balances []model.NetBalance) ([]model.Transfer, error) {
	dues := make([]model.NetBalance, 0, len(balances))
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Net)
		if !b.Net.IsZero() {
			dues = append(dues, b)
		}
	}
	if !sum.IsZero() {
		return nil, fmt.Errorf("%w: residue %s across %d balances", ErrUnbalancedLedger, sum.String(), len(dues))
	}

	sort.SliceStable(dues, func(i, j int) bool {
		if c := dues[i].Net.Cmp(dues[j].Net); c != 0 {
			return c < 0
		}
		return dues[i].ParticipantID < dues[j].ParticipantID
	})

	transfers := make([]model.Transfer, 0, max(0, len(dues)-1))
	low, high := 0, len(dues)-1
	for low < high {
		debtor, creditor := dues[low], dues[high]
		if !debtor.Net.IsNegative() || !creditor.Net.IsPositive() {
			return nil, fmt.Errorf("%w: cursors crossed at %d/%d", ErrUnbalancedLedger, low, high)
		}

		amount := decimal.Min(debtor.Net.Abs(), creditor.Net)
		transfers = append(transfers, model.Transfer{
			FromParticipantID: debtor.ParticipantID,
			ToParticipantID:   creditor.ParticipantID,
			Amount:            amount,
		})

		dues[low].Net = debtor.Net.Add(amount)
		dues[high].Net = creditor.Net.Sub(amount)
		if dues[low].Net.IsZero() {
			low++
		}
		if dues[high].Net.IsZero() {
			high--
		}
	}
	return transfers, nil
}
