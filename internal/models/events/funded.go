package events

import "time"

type Funded struct {
	TxID       string    `json:"tx_id"`
	Funder     string    `json:"funder"`
	AmountWei  string    `json:"amount_wei"`
	TotalWei   string    `json:"total_wei"` // funder's cumulative amount after this call
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Funded) PartitionKey() string {
	return e.Funder
}
