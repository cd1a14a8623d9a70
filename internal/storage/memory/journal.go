package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/models"
)

// MemoryReceiptJournal keeps receipts in call order for the life of the process.
type MemoryReceiptJournal struct {
	mu       sync.Mutex
	receipts []models.Receipt
}

func NewMemoryReceiptJournal() *MemoryReceiptJournal {
	return &MemoryReceiptJournal{receipts: make([]models.Receipt, 0)}
}

func (j *MemoryReceiptJournal) Record(ctx context.Context, receipt models.Receipt) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.receipts = append(j.receipts, receipt)
	return nil
}

func (j *MemoryReceiptJournal) Receipts(ctx context.Context) ([]models.Receipt, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	copied := make([]models.Receipt, len(j.receipts))
	copy(copied, j.receipts)
	return copied, nil
}

var _ interfaces.ReceiptJournal = (*MemoryReceiptJournal)(nil)
