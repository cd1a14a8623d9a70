package models

import "math/big"

// Movement moves native value between two identities.
type Movement struct {
	From   string
	To     string
	Amount *big.Int
}
