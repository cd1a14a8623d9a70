package ledger

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/models"
	"github.com/sheikh-saqib/funding-ledger/internal/models/events"
	"github.com/sheikh-saqib/funding-ledger/internal/priceconverter"
	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

// MinimumReference is the default minimum contribution, 50 reference units.
var MinimumReference = units.MustParseEther("50")

type Topics struct {
	Funded    string
	Withdrawn string
}

var DefaultTopics = Topics{Funded: "fundme.funded", Withdrawn: "fundme.withdrawn"}

// Ledger accepts contributions from anyone and lets its owner withdraw the
// whole balance. It takes no locks: callers must run one call at a time,
// which chain.Chain.Exec provides.
type Ledger struct {
	owner     string
	address   string
	converter *priceconverter.Converter
	custody   interfaces.Custody
	store     interfaces.LedgerStore

	minimum   *big.Int
	publisher interfaces.EventPublisher
	topics    Topics
	journal   interfaces.ReceiptJournal
	now       func() time.Time
}

type Option func(*Ledger)

func WithMinimumReference(amount *big.Int) Option {
	return func(l *Ledger) { l.minimum = new(big.Int).Set(amount) }
}

func WithPublisher(p interfaces.EventPublisher, topics Topics) Option {
	return func(l *Ledger) {
		l.publisher = p
		l.topics = topics
	}
}

func WithJournal(j interfaces.ReceiptJournal) Option {
	return func(l *Ledger) { l.journal = j }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger binds a ledger held in custody at address to its owner and price feed.
func NewLedger(owner, address string, feed interfaces.PriceFeed, custody interfaces.Custody, store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		owner:     owner,
		address:   address,
		converter: priceconverter.New(feed),
		custody:   custody,
		store:     store,
		minimum:   new(big.Int).Set(MinimumReference),
		topics:    DefaultTopics,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Owner() string { return l.owner }
func (l *Ledger) Address() string { return l.address }

func (l *Ledger) MinimumReference() *big.Int {
	return new(big.Int).Set(l.minimum)
}

// Fund credits amount to caller. The reference value of amount must be at
// least the ledger minimum.
func (l *Ledger) Fund(ctx context.Context, caller string, amount *big.Int) (models.Receipt, error) {
	if amount == nil {
		amount = new(big.Int)
	}
	receipt := l.newReceipt(models.CallFund, caller, amount)
	m := newMeter(l.store)

	m.oracleCall()
	value, err := l.converter.GetConversionRate(ctx, amount)
	if err != nil {
		return l.revert(ctx, receipt, err)
	}
	if value.Cmp(l.minimum) < 0 {
		return l.revert(ctx, receipt, fmt.Errorf("%w: %s is worth %s, minimum is %s",
			ErrInsufficientContribution, units.FormatEther(amount), units.FormatReference(value), units.FormatReference(l.minimum)))
	}

	prev, err := m.AmountFunded(ctx, caller)
	if err != nil {
		return l.revert(ctx, receipt, fmt.Errorf("read funded amount: %w", err))
	}
	total := new(big.Int).Add(prev, amount)
	m.writes(3) // record, sequence length, sequence slot

	l.charge(&receipt, m)
	movements := []models.Movement{
		{From: caller, To: l.address, Amount: amount},
		{From: caller, To: l.custody.FeeRecipient(), Amount: receipt.Fee},
	}
	if err := l.custody.Settle(ctx, movements); err != nil {
		return l.revert(ctx, receipt, fmt.Errorf("settle contribution: %w", err))
	}
	if err := l.store.RecordFunding(ctx, caller, amount); err != nil {
		l.compensate(ctx, movements)
		return l.revert(ctx, receipt, fmt.Errorf("record contribution: %w", err))
	}

	l.succeed(ctx, &receipt)
	log.Printf("ledger: %s funded %s ETH (tx %s)", caller, units.FormatEther(amount), receipt.TxID)
	l.publish(ctx, l.topics.Funded, events.Funded{
		TxID:       receipt.TxID,
		Funder:     caller,
		AmountWei:  amount.String(),
		TotalWei:   total.String(),
		OccurredAt: receipt.CreatedAt,
	})
	return receipt, nil
}

// GetFunder returns the identity of the index-th fund call since the last
// withdrawal.
func (l *Ledger) GetFunder(ctx context.Context, index int) (string, error) {
	n, err := l.store.FunderCount(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNoFunders
	}
	if index < 0 || index >= n {
		return "", fmt.Errorf("%w: index %d, %d funders", ErrIndexOutOfRange, index, n)
	}
	return l.store.FunderAt(ctx, index)
}

func (l *Ledger) GetAddressToAmountFunded(ctx context.Context, identity string) (*big.Int, error) {
	return l.store.AmountFunded(ctx, identity)
}

func (l *Ledger) GetPriceFeed() interfaces.PriceFeed {
	return l.converter.Feed()
}

func (l *Ledger) GetContractBalance(ctx context.Context) (*big.Int, error) {
	return l.custody.BalanceOf(ctx, l.address)
}

// GetBalance returns the native balance of any identity.
func (l *Ledger) GetBalance(ctx context.Context, identity string) (*big.Int, error) {
	return l.custody.BalanceOf(ctx, identity)
}

// GetConversionRate exposes the reference value of amount at the current price.
func (l *Ledger) GetConversionRate(ctx context.Context, amount *big.Int) (*big.Int, error) {
	return l.converter.GetConversionRate(ctx, amount)
}

func (l *Ledger) newReceipt(kind models.CallKind, caller string, value *big.Int) models.Receipt {
	return models.Receipt{
		TxID:      uuid.NewString(),
		Kind:      kind,
		Caller:    caller,
		Value:     new(big.Int).Set(value),
		GasPrice:  l.custody.GasPrice(),
		Fee:       new(big.Int),
		Status:    models.StatusReverted,
		CreatedAt: l.now(),
	}
}

func (l *Ledger) charge(r *models.Receipt, m *meter) {
	r.GasUsed = m.gas
	r.Fee = m.fee(r.GasPrice)
}

func (l *Ledger) succeed(ctx context.Context, r *models.Receipt) {
	r.Status = models.StatusSucceeded
	l.record(ctx, *r)
}

// revert journals a failed call. Reverted calls use no gas and pay no fee.
func (l *Ledger) revert(ctx context.Context, r models.Receipt, err error) (models.Receipt, error) {
	r.Status = models.StatusReverted
	r.Reason = err.Error()
	r.GasUsed = 0
	r.Fee = new(big.Int)
	l.record(ctx, r)
	log.Printf("ledger: %s by %s reverted: %v", r.Kind, r.Caller, err)
	return r, err
}

// compensate undoes a settlement whose state change could not be applied.
func (l *Ledger) compensate(ctx context.Context, settled []models.Movement) {
	if err := l.custody.Revert(ctx, settled); err != nil {
		log.Printf("ledger: CRITICAL: could not reverse settlement %+v: %v", settled, err)
	}
}

func (l *Ledger) record(ctx context.Context, r models.Receipt) {
	if l.journal == nil {
		return
	}
	if err := l.journal.Record(ctx, r); err != nil {
		log.Printf("ledger: journal receipt %s: %v", r.TxID, err)
	}
}

func (l *Ledger) publish(ctx context.Context, topic string, event any) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, topic, event); err != nil {
		log.Printf("ledger: publish to %s: %v", topic, err)
	}
}
