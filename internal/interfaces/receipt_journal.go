package interfaces

import (
	"context"

	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

type ReceiptJournal interface {
	Record(ctx context.Context, receipt models.Receipt) error
	Receipts(ctx context.Context) ([]models.Receipt, error)
}
