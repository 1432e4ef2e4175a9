package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies COMMODEX_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known COMMODEX_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── EVM ──
	setStr(&cfg.EVM.RPCURL, "COMMODEX_EVM_RPC_URL")
	setInt64(&cfg.EVM.ChainID, "COMMODEX_EVM_CHAIN_ID")
	setStr(&cfg.EVM.PrivateKey, "COMMODEX_EVM_PRIVATE_KEY")
	setStr(&cfg.EVM.EncryptedKeyPath, "COMMODEX_EVM_ENCRYPTED_KEY_PATH")
	setStr(&cfg.EVM.KeyPassword, "COMMODEX_EVM_KEY_PASSWORD")
	setStr(&cfg.EVM.USDCAddress, "COMMODEX_EVM_USDC_ADDRESS")
	setStr(&cfg.EVM.PoolAddress, "COMMODEX_EVM_POOL_ADDRESS")

	// ── Solana ──
	setStr(&cfg.Solana.RPCURL, "COMMODEX_SOLANA_RPC_URL")
	setStr(&cfg.Solana.PrivateKey, "COMMODEX_SOLANA_PRIVATE_KEY")
	setStr(&cfg.Solana.EncryptedKeyPath, "COMMODEX_SOLANA_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Solana.KeyPassword, "COMMODEX_SOLANA_KEY_PASSWORD")
	setStr(&cfg.Solana.USDCMint, "COMMODEX_SOLANA_USDC_MINT")

	// ── Jupiter ──
	setStr(&cfg.Jupiter.BaseURL, "COMMODEX_JUPITER_BASE_URL")

	// ── Trading ──
	setInt(&cfg.Trading.SlippageBps, "COMMODEX_TRADING_SLIPPAGE_BPS")
	setInt(&cfg.Trading.DeadlineMinutes, "COMMODEX_TRADING_DEADLINE_MINUTES")
	setInt(&cfg.Trading.USDCDecimals, "COMMODEX_TRADING_USDC_DECIMALS")
	setInt(&cfg.Trading.TokenDecimals, "COMMODEX_TRADING_TOKEN_DECIMALS")
	setInt(&cfg.Trading.PoolFeeBps, "COMMODEX_TRADING_POOL_FEE_BPS")

	// ── Catalog ──
	setStr(&cfg.Catalog.Source, "COMMODEX_CATALOG_SOURCE")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "COMMODEX_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "COMMODEX_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "COMMODEX_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "COMMODEX_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "COMMODEX_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "COMMODEX_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "COMMODEX_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "COMMODEX_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "COMMODEX_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "COMMODEX_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "COMMODEX_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "COMMODEX_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "COMMODEX_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "COMMODEX_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "COMMODEX_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "COMMODEX_REDIS_TLS_ENABLED")

	// ── Feed ──
	setBool(&cfg.Feed.Enabled, "COMMODEX_FEED_ENABLED")
	setInt(&cfg.Feed.IntervalSeconds, "COMMODEX_FEED_INTERVAL_SECONDS")
	setFloat64(&cfg.Feed.MaxChangePercent, "COMMODEX_FEED_MAX_CHANGE_PERCENT")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "COMMODEX_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "COMMODEX_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "COMMODEX_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "COMMODEX_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "COMMODEX_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "COMMODEX_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "COMMODEX_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "COMMODEX_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "COMMODEX_MODE")
	setStr(&cfg.LogLevel, "COMMODEX_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
