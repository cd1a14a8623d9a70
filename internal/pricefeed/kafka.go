package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
)

var (
	ErrNoAnswer    = errors.New("price feed has not reported yet")
	ErrStaleAnswer = errors.New("price feed answer is stale")
)

// PriceUpdate is the message published on the price topic.
type PriceUpdate struct {
	Answer    string    `json:"answer"`
	Decimals  uint8     `json:"decimals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KafkaFeed serves the latest price update read from a Kafka topic.
type KafkaFeed struct {
	address string
	reader  *kafka.Reader
	maxAge  time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	answer    *big.Int
	decimals  uint8
	updatedAt time.Time
}

func NewKafkaFeed(address string, brokers []string, topic, groupID string, maxAge time.Duration) *KafkaFeed {
	return &KafkaFeed{
		address: address,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Run consumes updates until ctx is cancelled.
func (f *KafkaFeed) Run(ctx context.Context) error {
	for {
		msg, err := f.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read price update: %w", err)
		}
		if err := f.Apply(msg.Value); err != nil {
			log.Printf("pricefeed: dropping update at offset %d: %v", msg.Offset, err)
		}
	}
}

// Apply decodes one update and keeps it if it is newer than the current one.
func (f *KafkaFeed) Apply(data []byte) error {
	var u PriceUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("decode price update: %w", err)
	}
	answer, ok := new(big.Int).SetString(u.Answer, 10)
	if !ok {
		return fmt.Errorf("invalid answer %q", u.Answer)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.answer != nil && u.UpdatedAt.Before(f.updatedAt) {
		return nil
	}
	f.answer = answer
	f.decimals = u.Decimals
	f.updatedAt = u.UpdatedAt
	return nil
}

func (f *KafkaFeed) Address() string {
	return f.address
}

func (f *KafkaFeed) Decimals(ctx context.Context) (uint8, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.answer == nil {
		return 0, ErrNoAnswer
	}
	return f.decimals, nil
}

func (f *KafkaFeed) LatestAnswer(ctx context.Context) (*big.Int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.answer == nil {
		return nil, ErrNoAnswer
	}
	if f.maxAge > 0 && f.now().Sub(f.updatedAt) > f.maxAge {
		return nil, fmt.Errorf("%w: last update %s", ErrStaleAnswer, f.updatedAt.Format(time.RFC3339))
	}
	return new(big.Int).Set(f.answer), nil
}

func (f *KafkaFeed) Close() error {
	if f.reader == nil {
		return nil
	}
	return f.reader.Close()
}

var _ interfaces.PriceFeed = (*KafkaFeed)(nil)
