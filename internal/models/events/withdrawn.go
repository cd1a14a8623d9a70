package events

import "time"

type Withdrawn struct {
	TxID       string    `json:"tx_id"`
	Owner      string    `json:"owner"`
	AmountWei  string    `json:"amount_wei"`
	Funders    int       `json:"funders"` // length of the funder sequence that was cleared
	Cheap      bool      `json:"cheap"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Withdrawn) PartitionKey() string {
	return e.Owner
}
