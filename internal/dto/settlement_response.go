package dto

// TransferResponse carries participant ids and a 2dp amount string.
type TransferResponse struct {
	FromUser int64  `json:"from_user"`
	ToUser   int64  `json:"to_user"`
	Amount   string `json:"amount"`
}

// UserBalanceResponse is a signed amount: positive means the user is owed.
type UserBalanceResponse struct {
	User   int64  `json:"user"`
	Amount string `json:"amount"`
}
