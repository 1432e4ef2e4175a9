// Package trade is the entry point for trade execution. The orchestrator
// validates preconditions, resolves the commodity's on-chain address and
// dispatches to the chain-specific executor. Every invocation terminates in
// exactly one TradeResult; executor errors never propagate past this
// boundary. Failures are terminal per invocation, never retried internally.
package trade

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/alanyoungcy/commodex/internal/directory"
	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/notify"
)

// ChainWallet is the connection-state surface the orchestrator checks before
// doing anything else for a trade.
type ChainWallet interface {
	Connected() bool
}

// EVMExecutor runs a trade against the EVM venue. Satisfied by
// *executor/evm.Executor.
type EVMExecutor interface {
	Execute(ctx context.Context, req domain.TradeRequest, tokenAddr common.Address) (string, error)
}

// SolanaExecutor runs a trade through the Solana aggregator. Satisfied by
// *executor/solana.Executor.
type SolanaExecutor interface {
	Execute(ctx context.Context, req domain.TradeRequest, mint string) (string, error)
}

// Notifier receives fire-and-forget trade lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Orchestrator validates, dispatches and normalizes trades.
type Orchestrator struct {
	dir       *directory.Directory
	evmWallet ChainWallet
	solWallet ChainWallet
	evm       EVMExecutor
	sol       SolanaExecutor
	notifier  Notifier
	timeout   time.Duration
	log       *slog.Logger
}

// New wires the orchestrator. timeout bounds one trade invocation end to end;
// zero means no bound beyond the caller's context.
func New(
	dir *directory.Directory,
	evmWallet, solWallet ChainWallet,
	evm EVMExecutor,
	sol SolanaExecutor,
	notifier Notifier,
	timeout time.Duration,
	log *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		dir:       dir,
		evmWallet: evmWallet,
		solWallet: solWallet,
		evm:       evm,
		sol:       sol,
		notifier:  notifier,
		timeout:   timeout,
		log:       log.With(slog.String("component", "orchestrator")),
	}
}

// Buy executes a buy trade for the request.
func (o *Orchestrator) Buy(ctx context.Context, req domain.TradeRequest) domain.TradeResult {
	req.Side = domain.SideBuy
	return o.execute(ctx, req)
}

// Sell executes a sell trade for the request.
func (o *Orchestrator) Sell(ctx context.Context, req domain.TradeRequest) domain.TradeResult {
	req.Side = domain.SideSell
	return o.execute(ctx, req)
}

// execute runs one invocation: Validating -> Dispatching -> Executing ->
// Completed. Concurrent invocations are not serialized here; nonce and
// signature sequencing belong to the wallet sessions.
func (o *Orchestrator) execute(ctx context.Context, req domain.TradeRequest) domain.TradeResult {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	log := o.log.With(
		slog.String("trade_id", req.ID),
		slog.String("commodity", req.CommodityID),
		slog.String("chain", string(req.Chain)),
		slog.String("side", string(req.Side)))

	msg, err := o.run(ctx, req)
	if err != nil {
		log.Warn("trade failed", slog.String("error", err.Error()))
		_ = o.notifier.Notify(ctx, notify.EventTradeFailed,
			"Trade failed",
			fmt.Sprintf("%s of %s on %s: %v", req.Side, req.CommodityName, req.Chain, err))
		return domain.TradeResult{Success: false, Message: err.Error()}
	}

	log.Info("trade completed", slog.String("message", msg))
	_ = o.notifier.Notify(ctx, notify.EventTradeSubmitted,
		"Trade submitted",
		fmt.Sprintf("%s of %s on %s: %s", req.Side, req.CommodityName, req.Chain, msg))
	return domain.TradeResult{Success: true, Message: msg}
}

func (o *Orchestrator) run(ctx context.Context, req domain.TradeRequest) (string, error) {
	if !req.Chain.Valid() {
		return "", fmt.Errorf("trade: unsupported chain %q", req.Chain)
	}
	if !req.Side.Valid() {
		return "", fmt.Errorf("trade: unsupported side %q", req.Side)
	}

	// Connection state is checked before address resolution so a
	// disconnected wallet never depends on catalog contents.
	wallet := o.evmWallet
	if req.Chain == domain.ChainSolana {
		wallet = o.solWallet
	}
	if wallet == nil || !wallet.Connected() {
		return "", fmt.Errorf("%w: %s wallet", domain.ErrWalletNotConnected, req.Chain)
	}

	addrs, err := o.dir.Resolve(req.CommodityID, req.Addresses)
	if err != nil {
		return "", err
	}
	addr := addrs.ForChain(req.Chain)
	if addr == "" {
		return "", fmt.Errorf("%w: %s has no %s address", domain.ErrAddressNotFound, req.CommodityID, req.Chain)
	}

	if req.Amount <= 0 {
		return "", fmt.Errorf("%w: got %v", domain.ErrInvalidAmount, req.Amount)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var msg string
	switch req.Chain {
	case domain.ChainEVM:
		if !common.IsHexAddress(addr) {
			return "", fmt.Errorf("%w: %q is not a valid EVM address", domain.ErrAddressNotFound, addr)
		}
		msg, err = o.evm.Execute(ctx, req, common.HexToAddress(addr))
	default:
		msg, err = o.sol.Execute(ctx, req, addr)
	}
	if err != nil && ctx.Err() != nil {
		return "", fmt.Errorf("%w: %s trade %s: %v", domain.ErrContextDone, req.Chain, req.ID, err)
	}
	return msg, err
}
