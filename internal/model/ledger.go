package model

import "github.com/shopspring/decimal"

// LedgerEntry is one participant's share of a single expense.
type LedgerEntry struct {
	ExpenseID     int64           `json:"expense_id,omitempty"`
	ParticipantID int64           `json:"participant_id"`
	AmountLent    decimal.Decimal `json:"amount_lent"`
	AmountOwed    decimal.Decimal `json:"amount_owed"`
}

type NetBalance struct {
	ParticipantID int64           `json:"participant_id"`
	Net           decimal.Decimal `json:"net"`
}

// AmountPlaces is the precision of every amount accepted into a ledger.
const AmountPlaces = 2

// Transfer moves Amount from a debtor to a creditor. Amount is kept exact;
// use AmountString when reporting.
type Transfer struct {
	FromParticipantID int64           `json:"from_user"`
	ToParticipantID   int64           `json:"to_user"`
	Amount            decimal.Decimal `json:"amount"`
}

// AmountString rounds half to even, so 0.125 reports as "0.12".
func (t Transfer) AmountString() string {
	return t.Amount.StringFixedBank(AmountPlaces)
}

// HasAmountPrecision reports whether d needs no more than AmountPlaces
// decimal places. Transfers between such amounts are exact in cents.
func HasAmountPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountPlaces))
}
