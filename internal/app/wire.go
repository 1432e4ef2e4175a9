package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/commodex/internal/cache/redis"
	"github.com/alanyoungcy/commodex/internal/catalog"
	"github.com/alanyoungcy/commodex/internal/config"
	"github.com/alanyoungcy/commodex/internal/directory"
	"github.com/alanyoungcy/commodex/internal/domain"
	evmexec "github.com/alanyoungcy/commodex/internal/executor/evm"
	solexec "github.com/alanyoungcy/commodex/internal/executor/solana"
	"github.com/alanyoungcy/commodex/internal/keys"
	"github.com/alanyoungcy/commodex/internal/notify"
	"github.com/alanyoungcy/commodex/internal/platform/jupiter"
	"github.com/alanyoungcy/commodex/internal/service"
	"github.com/alanyoungcy/commodex/internal/store/postgres"
	"github.com/alanyoungcy/commodex/internal/trade"
	evmwallet "github.com/alanyoungcy/commodex/internal/wallet/evm"
	solwallet "github.com/alanyoungcy/commodex/internal/wallet/solana"
)

// orchestratorTimeout bounds one trade invocation end to end. Confirmation
// watching continues asynchronously past this bound.
const orchestratorTimeout = 2 * time.Minute

// Dependencies bundles every domain-level dependency that the application
// modes need to operate. It is constructed by Wire and torn down by the
// returned cleanup function.
type Dependencies struct {
	// Catalog
	CommodityStore domain.CommodityStore
	Catalog        *service.CatalogService

	// Caches
	PriceCache  domain.PriceCache
	RateLimiter domain.RateLimiter
	SignalBus   domain.SignalBus

	// Wallets
	EVMWallet    *evmwallet.Session
	SolanaWallet *solwallet.Session

	// Trading
	Orchestrator *trade.Orchestrator

	// Notifications
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.PriceCache = redis.NewPriceCache(redisClient)
	deps.RateLimiter = redis.NewRateLimiter(redisClient)
	deps.SignalBus = redis.NewSignalBus(redisClient)

	// --- Commodity store ---
	switch cfg.Catalog.Source {
	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		deps.CommodityStore = postgres.NewCommodityStore(pgClient.Pool())
	default:
		deps.CommodityStore = catalog.NewStaticStore()
	}

	// --- Catalog service, seeded with the built-in table ---
	deps.Catalog = service.NewCatalogService(deps.CommodityStore, deps.PriceCache, deps.SignalBus, logger)
	if err := deps.Catalog.Seed(ctx, catalog.Static()); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: seed catalog: %w", err)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Wallet sessions ---
	// A wallet that fails to connect is left in the disconnected state
	// rather than aborting startup; trades on that chain are rejected with
	// a wallet-not-connected result.
	deps.EVMWallet = dialEVMWallet(ctx, cfg, logger)
	closers = append(closers, deps.EVMWallet.Close)
	deps.SolanaWallet = dialSolanaWallet(ctx, cfg, logger)

	// --- Executors and orchestrator ---
	evmExecutor, err := evmexec.New(deps.EVMWallet, deps.Notifier, evmexec.Config{
		USDCAddress:   common.HexToAddress(cfg.EVM.USDCAddress),
		PoolAddress:   common.HexToAddress(cfg.EVM.PoolAddress),
		USDCDecimals:  cfg.Trading.USDCDecimals,
		TokenDecimals: cfg.Trading.TokenDecimals,
		PoolFeeBps:    cfg.Trading.PoolFeeBps,
		SlippageBps:   cfg.Trading.SlippageBps,
		ConfirmWindow: time.Duration(cfg.Trading.DeadlineMinutes) * time.Minute,
	}, logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: evm executor: %w", err)
	}

	solExecutor := solexec.New(deps.SolanaWallet, jupiter.New(cfg.Jupiter.BaseURL), deps.Notifier, solexec.Config{
		USDCMint:      cfg.Solana.USDCMint,
		USDCDecimals:  cfg.Trading.USDCDecimals,
		TokenDecimals: cfg.Trading.TokenDecimals,
		SlippageBps:   cfg.Trading.SlippageBps,
	}, logger)

	deps.Orchestrator = trade.New(
		directory.New(catalog.StaticAddresses()),
		deps.EVMWallet,
		deps.SolanaWallet,
		evmExecutor,
		solExecutor,
		deps.Notifier,
		orchestratorTimeout,
		logger,
	)

	return deps, cleanup, nil
}

// dialEVMWallet resolves the signing key and opens the RPC session. Any
// failure yields a disconnected session.
func dialEVMWallet(ctx context.Context, cfg *config.Config, logger *slog.Logger) *evmwallet.Session {
	if cfg.EVM.PrivateKey == "" && cfg.EVM.EncryptedKeyPath == "" {
		logger.Info("evm wallet not configured, starting disconnected")
		return &evmwallet.Session{}
	}

	key, err := keys.Load(keys.Config{
		RawKey:           cfg.EVM.PrivateKey,
		EncryptedKeyPath: cfg.EVM.EncryptedKeyPath,
		Password:         cfg.EVM.KeyPassword,
		Encoding:         keys.EncodingHex,
	})
	if err != nil {
		logger.Warn("evm key load failed, starting disconnected",
			slog.String("error", err.Error()))
		return &evmwallet.Session{}
	}

	session, err := evmwallet.Dial(ctx, evmwallet.Config{
		RPCURL:        cfg.EVM.RPCURL,
		ChainID:       cfg.EVM.ChainID,
		PrivateKeyHex: key,
	}, logger)
	if err != nil {
		logger.Warn("evm wallet dial failed, starting disconnected",
			slog.String("rpc_url", cfg.EVM.RPCURL),
			slog.String("error", err.Error()))
		return &evmwallet.Session{}
	}
	return session
}

// dialSolanaWallet resolves the signing keypair and opens the RPC session.
// Any failure yields a disconnected session.
func dialSolanaWallet(ctx context.Context, cfg *config.Config, logger *slog.Logger) *solwallet.Session {
	if cfg.Solana.PrivateKey == "" && cfg.Solana.EncryptedKeyPath == "" {
		logger.Info("solana wallet not configured, starting disconnected")
		return &solwallet.Session{}
	}

	key, err := keys.Load(keys.Config{
		RawKey:           cfg.Solana.PrivateKey,
		EncryptedKeyPath: cfg.Solana.EncryptedKeyPath,
		Password:         cfg.Solana.KeyPassword,
		Encoding:         keys.EncodingBase58,
	})
	if err != nil {
		logger.Warn("solana key load failed, starting disconnected",
			slog.String("error", err.Error()))
		return &solwallet.Session{}
	}

	session, err := solwallet.Dial(ctx, solwallet.Config{
		RPCURL:           cfg.Solana.RPCURL,
		PrivateKeyBase58: key,
	}, logger)
	if err != nil {
		logger.Warn("solana wallet dial failed, starting disconnected",
			slog.String("rpc_url", cfg.Solana.RPCURL),
			slog.String("error", err.Error()))
		return &solwallet.Session{}
	}
	return session
}
