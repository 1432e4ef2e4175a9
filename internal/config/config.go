// Package config defines the top-level configuration for the commodex
// backend and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by COMMODEX_* environment
// variables.
type Config struct {
	EVM      EVMConfig      `toml:"evm"`
	Solana   SolanaConfig   `toml:"solana"`
	Jupiter  JupiterConfig  `toml:"jupiter"`
	Trading  TradingConfig  `toml:"trading"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	Feed     FeedConfig     `toml:"feed"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// EVMConfig holds the EVM chain connection, wallet, and venue parameters.
type EVMConfig struct {
	RPCURL           string `toml:"rpc_url"`
	ChainID          int64  `toml:"chain_id"`
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
	// USDCAddress is the reference stable asset the venue trades against.
	USDCAddress string `toml:"usdc_address"`
	// PoolAddress is the constant-product pool used as the liquidity venue.
	PoolAddress string `toml:"pool_address"`
}

// SolanaConfig holds the Solana connection and wallet parameters.
type SolanaConfig struct {
	RPCURL           string `toml:"rpc_url"`
	PrivateKey       string `toml:"private_key"` // base58-encoded ed25519 key
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
	USDCMint         string `toml:"usdc_mint"`
}

// JupiterConfig holds the swap-aggregator API parameters.
type JupiterConfig struct {
	BaseURL string `toml:"base_url"`
}

// TradingConfig holds trade execution parameters shared by both executors.
type TradingConfig struct {
	// SlippageBps is the tolerance applied to quote/estimate output bounds.
	SlippageBps int `toml:"slippage_bps"`
	// DeadlineMinutes bounds how long a submitted EVM swap stays valid.
	DeadlineMinutes int `toml:"deadline_minutes"`
	// USDCDecimals is the reference asset's decimal count on both chains.
	USDCDecimals int `toml:"usdc_decimals"`
	// TokenDecimals is the commodity token decimal count.
	TokenDecimals int `toml:"token_decimals"`
	// PoolFeeBps is the venue's swap fee in basis points (30 = 0.30%).
	PoolFeeBps int `toml:"pool_fee_bps"`
}

// CatalogConfig selects the commodity catalog source.
type CatalogConfig struct {
	// Source is "static" (built-in table) or "postgres".
	Source string `toml:"source"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// FeedConfig holds the reference-price feed parameters.
type FeedConfig struct {
	Enabled bool `toml:"enabled"`
	// IntervalSeconds is how often reference prices are refreshed.
	IntervalSeconds int `toml:"interval_seconds"`
	// MaxChangePercent bounds the per-tick random price change (±).
	MaxChangePercent float64 `toml:"max_change_percent"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		EVM: EVMConfig{
			RPCURL:  "https://mainnet.base.org",
			ChainID: 8453,
		},
		Solana: SolanaConfig{
			RPCURL:   "https://api.devnet.solana.com",
			USDCMint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		},
		Jupiter: JupiterConfig{
			BaseURL: "https://quote-api.jup.ag",
		},
		Trading: TradingConfig{
			SlippageBps:     50,
			DeadlineMinutes: 20,
			USDCDecimals:    6,
			TokenDecimals:   18,
			PoolFeeBps:      30,
		},
		Catalog: CatalogConfig{
			Source: "static",
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "commodex",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Feed: FeedConfig{
			Enabled:          true,
			IntervalSeconds:  15,
			MaxChangePercent: 3.0,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"trade_submitted", "trade_confirmed", "trade_failed", "approval_submitted", "fallback_executed"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve": true,
	"trade": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, trade)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Trade mode needs at least one signing key.
	if strings.ToLower(c.Mode) == "trade" {
		evmKey := c.EVM.PrivateKey != "" || c.EVM.EncryptedKeyPath != ""
		solKey := c.Solana.PrivateKey != "" || c.Solana.EncryptedKeyPath != ""
		if !evmKey && !solKey {
			errs = append(errs, "trade mode requires an evm or solana signing key")
		}
	}
	if c.EVM.EncryptedKeyPath != "" && c.EVM.KeyPassword == "" {
		errs = append(errs, "evm: key_password is required when encrypted_key_path is set")
	}
	if c.Solana.EncryptedKeyPath != "" && c.Solana.KeyPassword == "" {
		errs = append(errs, "solana: key_password is required when encrypted_key_path is set")
	}

	// Chain endpoints
	if c.EVM.RPCURL == "" {
		errs = append(errs, "evm: rpc_url must not be empty")
	}
	if c.EVM.ChainID <= 0 {
		errs = append(errs, fmt.Sprintf("evm: chain_id must be positive, got %d", c.EVM.ChainID))
	}
	if c.Solana.RPCURL == "" {
		errs = append(errs, "solana: rpc_url must not be empty")
	}
	if c.Solana.USDCMint == "" {
		errs = append(errs, "solana: usdc_mint must not be empty")
	}
	if c.Jupiter.BaseURL == "" {
		errs = append(errs, "jupiter: base_url must not be empty")
	}

	// Trading
	if c.Trading.SlippageBps < 0 || c.Trading.SlippageBps >= 10_000 {
		errs = append(errs, fmt.Sprintf("trading: slippage_bps must be 0-9999, got %d", c.Trading.SlippageBps))
	}
	if c.Trading.DeadlineMinutes <= 0 {
		errs = append(errs, "trading: deadline_minutes must be > 0")
	}
	if c.Trading.USDCDecimals <= 0 || c.Trading.USDCDecimals > 18 {
		errs = append(errs, fmt.Sprintf("trading: usdc_decimals must be 1-18, got %d", c.Trading.USDCDecimals))
	}
	if c.Trading.TokenDecimals <= 0 || c.Trading.TokenDecimals > 18 {
		errs = append(errs, fmt.Sprintf("trading: token_decimals must be 1-18, got %d", c.Trading.TokenDecimals))
	}
	if c.Trading.PoolFeeBps < 0 || c.Trading.PoolFeeBps >= 10_000 {
		errs = append(errs, fmt.Sprintf("trading: pool_fee_bps must be 0-9999, got %d", c.Trading.PoolFeeBps))
	}

	// Catalog
	switch strings.ToLower(c.Catalog.Source) {
	case "", "static":
	case "postgres":
		if strings.TrimSpace(c.Postgres.DSN) == "" && c.Postgres.Host == "" {
			errs = append(errs, "catalog: source=postgres requires postgres connection parameters")
		}
	default:
		errs = append(errs, fmt.Sprintf("catalog: unknown source %q (valid: static, postgres)", c.Catalog.Source))
	}

	// Postgres pool sizing (only meaningful when the catalog uses it).
	if strings.ToLower(c.Catalog.Source) == "postgres" {
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Redis
	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Feed
	if c.Feed.Enabled {
		if c.Feed.IntervalSeconds <= 0 {
			errs = append(errs, "feed: interval_seconds must be > 0 when enabled")
		}
		if c.Feed.MaxChangePercent <= 0 || c.Feed.MaxChangePercent > 100 {
			errs = append(errs, fmt.Sprintf("feed: max_change_percent must be in (0,100], got %v", c.Feed.MaxChangePercent))
		}
	}

	// Server
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
