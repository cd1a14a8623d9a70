package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/sheikh-saqib/funding-ledger/internal/api"
	"github.com/sheikh-saqib/funding-ledger/internal/chain"
	"github.com/sheikh-saqib/funding-ledger/internal/config"
	"github.com/sheikh-saqib/funding-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/funding-ledger/internal/interfaces"
	"github.com/sheikh-saqib/funding-ledger/internal/ledger"
	"github.com/sheikh-saqib/funding-ledger/internal/pricefeed"
	"github.com/sheikh-saqib/funding-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/funding-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gasPrice, _ := cfg.GasPrice()
	minimum, _ := cfg.Minimum()
	c := chain.New(gasPrice)

	var (
		feed   interfaces.PriceFeed
		faucet api.Faucet
	)
	if cfg.IsDevelopment() {
		log.Printf("Local network %q (chain %d) detected, deploying mock price feed", cfg.Network, cfg.ChainID)
		answer, _ := cfg.MockAnswer()
		feed = pricefeed.NewMockAggregator(cfg.MockDecimals, answer)

		balance, _ := cfg.DevBalance()
		for _, a := range cfg.DevAccounts {
			if err := c.Mint(a, balance); err != nil {
				log.Fatalf("fund dev account %s: %v", a, err)
			}
		}
		log.Printf("Funded %d dev accounts with %s ETH each", len(cfg.DevAccounts), units.FormatEther(balance))
		faucet = c
	} else {
		kf := pricefeed.NewKafkaFeed(cfg.PriceFeedAddress, cfg.KafkaBrokers, cfg.PriceTopic, "fundme-"+cfg.Address, cfg.PriceMaxAge)
		defer kf.Close()
		go func() {
			if err := kf.Run(ctx); err != nil {
				log.Printf("price feed stopped: %v", err)
			}
		}()
		feed = kf
	}

	var publisher interfaces.EventPublisher = kafka.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		defer p.Close()
		publisher = p
	}

	var journal interfaces.ReceiptJournal = memory.NewMemoryReceiptJournal()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		pj := postgres.NewPostgresReceiptJournal(db)
		if err := pj.Migrate(ctx); err != nil {
			log.Fatalf("migrate receipts: %v", err)
		}
		journal = pj
	}

	l := ledger.NewLedger(cfg.Owner, cfg.Address, feed, c, memory.NewMemoryLedgerStore(),
		ledger.WithMinimumReference(minimum),
		ledger.WithJournal(journal),
		ledger.WithPublisher(publisher, ledger.Topics{Funded: cfg.FundedTopic, Withdrawn: cfg.WithdrawnTopic}),
	)
	log.Printf("fundMe deployed at %s (owner %s, price feed %s, minimum %s USD, gas price %s wei)",
		l.Address(), l.Owner(), feed.Address(), units.FormatReference(minimum), gasPrice)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(l, c, journal, faucet).Router(),
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
