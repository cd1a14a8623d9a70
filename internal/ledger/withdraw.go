package ledger

import (
	"context"
	"fmt"
	"log"
	"math/big"

	"github.com/sheikh-saqib/funding-ledger/internal/models"
	"github.com/sheikh-saqib/funding-ledger/internal/models/events"
	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

// funderScan collects the identities whose records a withdrawal must zero.
type funderScan func(ctx context.Context, m *meter) ([]string, error)

// Withdraw pays the whole balance to the owner and resets every record.
// The funder sequence is read back from the store one element at a time,
// re-reading its length on every iteration.
func (l *Ledger) Withdraw(ctx context.Context, caller string) (models.Receipt, error) {
	return l.withdraw(ctx, caller, models.CallWithdraw, scanEachFunder)
}

// CheapWithdraw behaves exactly like Withdraw but copies the funder sequence
// in a single read, which costs less gas.
func (l *Ledger) CheapWithdraw(ctx context.Context, caller string) (models.Receipt, error) {
	return l.withdraw(ctx, caller, models.CallCheapWithdraw, scanAllFunders)
}

func scanEachFunder(ctx context.Context, m *meter) ([]string, error) {
	var funders []string
	for i := 0; ; i++ {
		n, err := m.FunderCount(ctx)
		if err != nil {
			return nil, err
		}
		if i >= n {
			break
		}
		f, err := m.FunderAt(ctx, i)
		if err != nil {
			return nil, err
		}
		funders = append(funders, f)
		m.writes(1)
	}
	m.writes(1)
	return funders, nil
}

func scanAllFunders(ctx context.Context, m *meter) ([]string, error) {
	funders, err := m.Funders(ctx)
	if err != nil {
		return nil, err
	}
	m.writes(len(funders) + 1)
	return funders, nil
}

func (l *Ledger) withdraw(ctx context.Context, caller string, kind models.CallKind, scan funderScan) (models.Receipt, error) {
	receipt := l.newReceipt(kind, caller, new(big.Int))
	if caller != l.owner {
		return l.revert(ctx, receipt, ErrNotOwner)
	}

	m := newMeter(l.store)
	funders, err := scan(ctx, m)
	if err != nil {
		return l.revert(ctx, receipt, fmt.Errorf("read funders: %w", err))
	}
	balance, err := l.custody.BalanceOf(ctx, l.address)
	if err != nil {
		return l.revert(ctx, receipt, fmt.Errorf("read contract balance: %w", err))
	}
	receipt.Value = new(big.Int).Set(balance)

	l.charge(&receipt, m)
	movements := []models.Movement{
		{From: l.address, To: l.owner, Amount: balance},
		{From: l.owner, To: l.custody.FeeRecipient(), Amount: receipt.Fee},
	}
	if err := l.custody.Settle(ctx, movements); err != nil {
		return l.revert(ctx, receipt, fmt.Errorf("%w: %v", ErrTransferFailed, err))
	}
	if err := l.store.ResetFunders(ctx, funders); err != nil {
		l.compensate(ctx, movements)
		return l.revert(ctx, receipt, fmt.Errorf("reset funders: %w", err))
	}

	l.succeed(ctx, &receipt)
	log.Printf("ledger: %s paid %s ETH to owner, cleared %d funder entries (tx %s, gas %d)",
		kind, units.FormatEther(balance), len(funders), receipt.TxID, receipt.GasUsed)
	l.publish(ctx, l.topics.Withdrawn, events.Withdrawn{
		TxID:       receipt.TxID,
		Owner:      l.owner,
		AmountWei:  balance.String(),
		Funders:    len(funders),
		Cheap:      kind == models.CallCheapWithdraw,
		OccurredAt: receipt.CreatedAt,
	})
	return receipt, nil
}
