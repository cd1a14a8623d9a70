package config

import (
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sheikh-saqib/funding-ledger/internal/units"
)

// DevelopmentNetworks run against a mock price feed.
var DevelopmentNetworks = []string{"hardhat", "localhost"}

// DevelopmentChainID is the chain id of a local development node.
const DevelopmentChainID = 31337

type Config struct {
	Port    string `env:"FUNDME_PORT"     envDefault:"8080"`
	Network string `env:"FUNDME_NETWORK"  envDefault:"hardhat"`
	ChainID uint64 `env:"FUNDME_CHAIN_ID" envDefault:"31337"`
	Owner   string `env:"FUNDME_OWNER"    envDefault:"0xdeployer"`
	Address string `env:"FUNDME_ADDRESS"  envDefault:"0xfundme"`

	MinimumReference string `env:"FUNDME_MINIMUM_USD" envDefault:"50"`
	GasPriceWei      string `env:"FUNDME_GAS_PRICE_WEI" envDefault:"0"`

	MockDecimals      uint8  `env:"FUNDME_MOCK_DECIMALS"       envDefault:"8"`
	MockInitialAnswer string `env:"FUNDME_MOCK_INITIAL_ANSWER" envDefault:"2000"`

	PriceFeedAddress string        `env:"FUNDME_PRICE_FEED_ADDRESS"`
	PriceTopic       string        `env:"FUNDME_PRICE_TOPIC"   envDefault:"prices.eth_usd"`
	PriceMaxAge      time.Duration `env:"FUNDME_PRICE_MAX_AGE" envDefault:"1h"`

	KafkaBrokers   []string `env:"FUNDME_KAFKA_BROKERS" envSeparator:","`
	FundedTopic    string   `env:"FUNDME_FUNDED_TOPIC"    envDefault:"fundme.funded"`
	WithdrawnTopic string   `env:"FUNDME_WITHDRAWN_TOPIC" envDefault:"fundme.withdrawn"`

	DatabaseURL string `env:"FUNDME_DATABASE_URL"`

	DevAccounts       []string `env:"FUNDME_DEV_ACCOUNTS" envSeparator:"," envDefault:"0xdeployer"`
	DevAccountBalance string   `env:"FUNDME_DEV_ACCOUNT_BALANCE" envDefault:"10000"`
}

// Load reads an optional .env file and then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// a missing .env is fine; variables may come from the environment
		_ = godotenv.Load(f)
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("FUNDME_OWNER must be set")
	}
	if c.Address == "" || c.Address == c.Owner {
		return fmt.Errorf("FUNDME_ADDRESS must be set and differ from the owner")
	}
	if _, err := c.Minimum(); err != nil {
		return err
	}
	if _, err := c.GasPrice(); err != nil {
		return err
	}
	if c.IsDevelopment() {
		if _, err := c.MockAnswer(); err != nil {
			return err
		}
		if _, err := c.DevBalance(); err != nil {
			return err
		}
		return nil
	}
	if c.PriceFeedAddress == "" {
		return fmt.Errorf("FUNDME_PRICE_FEED_ADDRESS is required on network %q", c.Network)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("FUNDME_KAFKA_BROKERS is required on network %q", c.Network)
	}
	return nil
}

// IsDevelopment reports whether the mock feed should be used: either the
// network is a known local one or the chain id is the local node's.
func (c Config) IsDevelopment() bool {
	return slices.Contains(DevelopmentNetworks, c.Network) || c.ChainID == DevelopmentChainID
}

// Minimum is the minimum contribution in 18-decimal reference units.
func (c Config) Minimum() (*big.Int, error) {
	v, err := units.ScaleInteger(c.MinimumReference, units.Decimals)
	if err != nil {
		return nil, fmt.Errorf("FUNDME_MINIMUM_USD: %w", err)
	}
	return v, nil
}

func (c Config) GasPrice() (*big.Int, error) {
	v, ok := new(big.Int).SetString(c.GasPriceWei, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("FUNDME_GAS_PRICE_WEI: invalid value %q", c.GasPriceWei)
	}
	return v, nil
}

// MockAnswer is the mock feed's initial price scaled to MockDecimals.
func (c Config) MockAnswer() (*big.Int, error) {
	v, err := units.ScaleInteger(c.MockInitialAnswer, int32(c.MockDecimals))
	if err != nil {
		return nil, fmt.Errorf("FUNDME_MOCK_INITIAL_ANSWER: %w", err)
	}
	return v, nil
}

func (c Config) DevBalance() (*big.Int, error) {
	v, err := units.ParseEther(c.DevAccountBalance)
	if err != nil {
		return nil, fmt.Errorf("FUNDME_DEV_ACCOUNT_BALANCE: %w", err)
	}
	return v, nil
}
