package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/ADhailu/Biruh-ken-bot/core/config"
	coredatabase "github.com/ADhailu/Biruh-ken-bot/core/database"
	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
	"github.com/ADhailu/Biruh-ken-bot/internal/messages"
)

// AccountConfig is one deposit option shown in manual-mode instructions.
type AccountConfig struct {
	Label  string `yaml:"label"`
	Number string `yaml:"number"`
	Holder string `yaml:"holder"`
}

// PaymentConfig describes the access fee and how it is collected.
type PaymentConfig struct {
	// Mode is "manual" (receipt photo + reviewer) or "invoice" (provider).
	Mode     string `yaml:"mode" envconfig:"PAYMENT_MODE"`
	Amount   int    `yaml:"amount" envconfig:"PAYMENT_AMOUNT"`
	Currency string `yaml:"currency" envconfig:"PAYMENT_CURRENCY"`
	// ProviderToken is required only in invoice mode.
	ProviderToken string          `yaml:"provider_token" envconfig:"PAYMENT_PROVIDER_TOKEN"`
	Accounts      []AccountConfig `yaml:"accounts"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	// Backend is "memory" or "postgres".
	Backend string `yaml:"backend" envconfig:"STORE_BACKEND"`
}

// Config aggregates core settings with the onboarding-specific sections.
type Config struct {
	Core coreconfig.Config `yaml:",inline"`

	// ChannelID is the restricted channel invite links are minted for.
	ChannelID int64 `yaml:"channel_id" envconfig:"CHANNEL_ID"`

	Payment  PaymentConfig       `yaml:"payment"`
	Store    StoreConfig         `yaml:"store"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig satisfies the runner's ConfigCarrier interface.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Mode returns the validated payment mode.
func (c *Config) Mode() domain.Mode {
	return domain.Mode(c.Payment.Mode)
}

// DepositAccounts converts the configured accounts into message values.
func (c *Config) DepositAccounts() []messages.DepositAccount {
	accounts := make([]messages.DepositAccount, 0, len(c.Payment.Accounts))
	for _, a := range c.Payment.Accounts {
		accounts = append(accounts, messages.DepositAccount{
			Label:  a.Label,
			Number: a.Number,
			Holder: a.Holder,
		})
	}
	return accounts
}

// LoadConfig reads the YAML file, overlays environment variables, and
// validates both the core and the app-specific sections.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if cfg.ChannelID == 0 {
		return fmt.Errorf("channel_id is required")
	}
	if cfg.Core.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Payment.Mode))
	if mode == "" {
		mode = string(domain.ModeManual)
	}
	switch domain.Mode(mode) {
	case domain.ModeManual:
		if len(cfg.Payment.Accounts) == 0 {
			return fmt.Errorf("payment.accounts is required when payment.mode is 'manual'")
		}
	case domain.ModeInvoice:
		if strings.TrimSpace(cfg.Payment.ProviderToken) == "" {
			return fmt.Errorf("payment.provider_token is required when payment.mode is 'invoice'")
		}
	default:
		return fmt.Errorf("invalid payment.mode %q; allowed: manual, invoice", cfg.Payment.Mode)
	}
	cfg.Payment.Mode = mode

	if cfg.Payment.Amount <= 0 {
		cfg.Payment.Amount = 300
	}
	if strings.TrimSpace(cfg.Payment.Currency) == "" {
		cfg.Payment.Currency = "ETB"
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if backend == "" {
		backend = "memory"
	}
	switch backend {
	case "memory":
	case "postgres":
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when store.backend is 'postgres'")
		}
		if strings.TrimSpace(cfg.Database.Name) == "" {
			return fmt.Errorf("database.name is required when store.backend is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid store.backend %q; allowed: memory, postgres", cfg.Store.Backend)
	}
	cfg.Store.Backend = backend

	return nil
}
