package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for mobitrace.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Repetition RepetitionConfig `yaml:"repetition"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
}

// IngestConfig holds feed ingestion configuration.
type IngestConfig struct {
	// BatchSize bounds how many rows are normalized and held in memory at
	// once while scanning a feed.
	BatchSize int `yaml:"batch_size"`
}

// ScoringConfig holds risk scoring configuration. Profile selects one of
// the named weight tables ("base" or "escalated"); individual weights can
// be overridden on top of the selected profile.
type ScoringConfig struct {
	Profile             string        `yaml:"profile"`
	FastCashoutWindow   time.Duration `yaml:"fast_cashout_window"`
	HighAmountThreshold float64       `yaml:"high_amount_threshold"`
	Overrides           Weights       `yaml:"weights"`
}

// Weights is the additive scoring weight table for cash-out chains.
// A zero field in an override set means "keep the profile value".
type Weights struct {
	FastCashout       int `yaml:"fast_cashout" json:"fast_cashout"`
	HighAmount        int `yaml:"high_amount" json:"high_amount"`
	ClientIsRecipient int `yaml:"client_is_recipient" json:"client_is_recipient"`
	SameDistributor   int `yaml:"same_distributor" json:"same_distributor"`
	Baseline          int `yaml:"baseline" json:"baseline"`
}

// The two weight tables observed across versions of the scoring scheme.
// They are never merged; Profile picks one.
var (
	BaseWeights = Weights{
		FastCashout:       40,
		HighAmount:        30,
		ClientIsRecipient: 30,
		SameDistributor:   50,
		Baseline:          10,
	}
	EscalatedWeights = Weights{
		FastCashout:       40,
		HighAmount:        90,
		ClientIsRecipient: 30,
		SameDistributor:   100,
		Baseline:          10,
	}
)

// ResolveWeights returns the effective weight table: the named profile with
// any non-zero overrides applied.
func (c *ScoringConfig) ResolveWeights() (Weights, error) {
	var w Weights
	switch c.Profile {
	case "", "base":
		w = BaseWeights
	case "escalated":
		w = EscalatedWeights
	default:
		return Weights{}, fmt.Errorf("unknown scoring profile %q", c.Profile)
	}

	if c.Overrides.FastCashout != 0 {
		w.FastCashout = c.Overrides.FastCashout
	}
	if c.Overrides.HighAmount != 0 {
		w.HighAmount = c.Overrides.HighAmount
	}
	if c.Overrides.ClientIsRecipient != 0 {
		w.ClientIsRecipient = c.Overrides.ClientIsRecipient
	}
	if c.Overrides.SameDistributor != 0 {
		w.SameDistributor = c.Overrides.SameDistributor
	}
	if c.Overrides.Baseline != 0 {
		w.Baseline = c.Overrides.Baseline
	}

	return w, nil
}

// RepetitionConfig holds the minimum per-day occurrence counts at which a
// party pair is reported by each counting scan.
type RepetitionConfig struct {
	MerchantPaymentMin int `yaml:"merchant_payment_min"`
	CashinMin          int `yaml:"cashin_min"`
	WalletToBankMin    int `yaml:"wallet_to_bank_min"`
	RedeemMin          int `yaml:"redeem_min"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := LoadFromEnv()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvInt("PORT", 3010),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Ingest: IngestConfig{
			BatchSize: getEnvInt("INGEST_BATCH_SIZE", 100000),
		},
		Scoring: ScoringConfig{
			Profile:             getEnv("SCORING_PROFILE", "base"),
			FastCashoutWindow:   getEnvDuration("SCORING_FAST_CASHOUT_WINDOW", 10*time.Minute),
			HighAmountThreshold: getEnvFloat("SCORING_HIGH_AMOUNT", 20000),
		},
		Repetition: RepetitionConfig{
			MerchantPaymentMin: getEnvInt("REPETITION_MERCHANT_MIN", 3),
			CashinMin:          getEnvInt("REPETITION_CASHIN_MIN", 2),
			WalletToBankMin:    getEnvInt("REPETITION_W2B_MIN", 2),
			RedeemMin:          getEnvInt("REPETITION_REDEEM_MIN", 2),
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 100000
	}
	if c.Scoring.FastCashoutWindow <= 0 {
		c.Scoring.FastCashoutWindow = 10 * time.Minute
	}
	if c.Scoring.HighAmountThreshold <= 0 {
		c.Scoring.HighAmountThreshold = 20000
	}
	if c.Repetition.MerchantPaymentMin <= 0 {
		c.Repetition.MerchantPaymentMin = 3
	}
	if c.Repetition.CashinMin <= 0 {
		c.Repetition.CashinMin = 2
	}
	if c.Repetition.WalletToBankMin <= 0 {
		c.Repetition.WalletToBankMin = 2
	}
	if c.Repetition.RedeemMin <= 0 {
		c.Repetition.RedeemMin = 2
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
