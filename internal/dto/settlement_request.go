package dto

type LedgerEntryRequest struct {
	ParticipantID int64  `json:"participantId" binding:"required"`
	AmountLent    string `json:"amountLent"`
	AmountOwed    string `json:"amountOwed"`
}

type SettlementRequest struct {
	Entries []LedgerEntryRequest `json:"entries" binding:"required"`
}
