package ledger

type AccountInfo struct {
	Address    string `json:"address"`
	Amount     uint64 `json:"amount"`
	MinBalance uint64 `json:"min-balance"`
}

// Available is the balance above the minimum the account must keep.
func (a AccountInfo) Available() uint64 {
	if a.Amount < a.MinBalance {
		return 0
	}
	return a.Amount - a.MinBalance
}

type Confirmation struct {
	TxId           string `json:"txId"`
	ConfirmedRound uint64 `json:"confirmedRound"`
}

type viewCall struct {
	AppId  uint64        `json:"appId"`
	Method string        `json:"method"`
	Args   []interface{} `json:"args"`
}

type listingView struct {
	ListingId uint64 `json:"listingId"`
	Seller    string `json:"seller"`
	Price     uint64 `json:"price"`
}

type simulationResult struct {
	Success        bool     `json:"success"`
	FailureMessage string   `json:"failureMessage"`
	EstimatedFee   uint64   `json:"estimatedFee"`
	Unsigned       [][]byte `json:"txns"`
}
