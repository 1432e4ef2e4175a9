// Package evm executes commodity trades against a constant-product pool on an
// EVM chain. A trade is a two-phase protocol: allowance and balance prechecks
// first, then a pre-transfer of the input asset to the pool followed by the
// raw swap call. The two submissions are not atomic; a failure between them is
// classified separately so it is never mistaken for an ordinary rejection.
package evm

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/notify"
)

// Wallet is the session capability surface the executor needs. Satisfied by
// *wallet/evm.Session.
type Wallet interface {
	Connected() bool
	Address() common.Address
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) error
}

// Notifier receives fire-and-forget trade events. Satisfied by
// *notify.Notifier; the result contract does not depend on delivery.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Config holds the venue parameters for the executor.
type Config struct {
	// USDCAddress is the reference stable asset all trades are denominated in.
	USDCAddress common.Address
	// PoolAddress is the constant-product pair holding USDC and the
	// commodity tokens.
	PoolAddress common.Address

	USDCDecimals  int
	TokenDecimals int
	PoolFeeBps    int
	SlippageBps   int

	// ConfirmWindow bounds the asynchronous receipt watch after a swap is
	// accepted for sending.
	ConfirmWindow time.Duration
}

// Executor runs buy and sell orders through the configured pool.
type Executor struct {
	wallet   Wallet
	notifier Notifier
	cfg      Config
	erc20    abi.ABI
	pool     abi.ABI
	log      *slog.Logger
}

// New parses the contract ABIs and returns a ready executor.
func New(wallet Wallet, notifier Notifier, cfg Config, log *slog.Logger) (*Executor, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("executor/evm: parsing erc20 abi: %w", err)
	}
	pool, err := abi.JSON(strings.NewReader(poolABIJSON))
	if err != nil {
		return nil, fmt.Errorf("executor/evm: parsing pool abi: %w", err)
	}

	if cfg.ConfirmWindow <= 0 {
		cfg.ConfirmWindow = 20 * time.Minute
	}

	return &Executor{
		wallet:   wallet,
		notifier: notifier,
		cfg:      cfg,
		erc20:    erc20,
		pool:     pool,
		log:      log.With(slog.String("component", "executor.evm")),
	}, nil
}

// Execute runs one trade invocation end to end. tokenAddr is the commodity's
// resolved EVM contract address. On success the returned message describes the
// accepted swap; confirmation is tracked asynchronously and surfaced through
// the notifier, never through the return value.
func (e *Executor) Execute(ctx context.Context, req domain.TradeRequest, tokenAddr common.Address) (string, error) {
	if !e.wallet.Connected() {
		return "", domain.ErrWalletNotConnected
	}
	if req.Amount <= 0 {
		return "", domain.ErrInvalidAmount
	}

	// Buy spends USDC for commodity tokens; sell is the mirror.
	var inToken, outToken common.Address
	var inDecimals int
	switch req.Side {
	case domain.SideBuy:
		inToken, outToken, inDecimals = e.cfg.USDCAddress, tokenAddr, e.cfg.USDCDecimals
	case domain.SideSell:
		inToken, outToken, inDecimals = tokenAddr, e.cfg.USDCAddress, e.cfg.TokenDecimals
	default:
		return "", fmt.Errorf("executor/evm: unknown side %q", req.Side)
	}

	amountIn, err := ToBaseUnits(req.Amount, inDecimals)
	if err != nil {
		return "", err
	}
	if amountIn.Sign() <= 0 {
		return "", fmt.Errorf("%w: %v is below the asset's smallest unit", domain.ErrInvalidAmount, req.Amount)
	}

	owner := e.wallet.Address()

	// Allowance gate. A shortfall submits a buffered approval and ends this
	// invocation; the caller re-invokes once the approval confirms.
	allowance, err := e.readUint(ctx, e.erc20, inToken, "allowance", owner, e.cfg.PoolAddress)
	if err != nil {
		return "", fmt.Errorf("executor/evm: reading allowance: %w", err)
	}
	if allowance.Cmp(amountIn) < 0 {
		return "", e.submitApproval(ctx, req, inToken, amountIn)
	}

	balance, err := e.readUint(ctx, e.erc20, inToken, "balanceOf", owner)
	if err != nil {
		return "", fmt.Errorf("executor/evm: reading balance: %w", err)
	}
	if balance.Cmp(amountIn) < 0 {
		shortfall := new(big.Int).Sub(amountIn, balance)
		return "", fmt.Errorf("%w: short %s base units of %s",
			domain.ErrInsufficientBalance, shortfall, inToken.Hex())
	}

	minOut, err := e.estimateOut(ctx, inToken, amountIn)
	if err != nil {
		// No reserve data means no output bound; a blind swap against a raw
		// pool would forfeit the input, so fail closed instead.
		return "", fmt.Errorf("%w: %v", domain.ErrNoPoolData, err)
	}

	swapHash, err := e.transferAndSwap(ctx, outToken, inToken, amountIn, minOut)
	if err != nil {
		return "", err
	}

	e.log.Info("swap accepted",
		slog.String("trade_id", req.ID),
		slog.String("commodity", req.CommodityID),
		slog.String("side", string(req.Side)),
		slog.String("tx", swapHash.Hex()))

	go e.watchConfirmation(req, swapHash)

	return fmt.Sprintf("%s order for %s submitted: swap %s (min out %s)",
		req.Side, req.CommodityName, swapHash.Hex(), minOut), nil
}

// submitApproval grants the pool a 2x buffered allowance so the next few
// trades skip the approval round-trip, then reports the designed terminal
// "approval required" outcome for this invocation.
func (e *Executor) submitApproval(ctx context.Context, req domain.TradeRequest, inToken common.Address, amountIn *big.Int) error {
	buffered := new(big.Int).Lsh(amountIn, 1)

	data, err := e.erc20.Pack("approve", e.cfg.PoolAddress, buffered)
	if err != nil {
		return fmt.Errorf("executor/evm: packing approve: %w", err)
	}

	hash, err := e.wallet.SendTransaction(ctx, inToken, data, nil)
	if err != nil {
		return fmt.Errorf("%w: approval submission: %v", domain.ErrSubmissionFailed, err)
	}

	e.log.Info("approval submitted",
		slog.String("trade_id", req.ID),
		slog.String("token", inToken.Hex()),
		slog.String("tx", hash.Hex()))

	_ = e.notifier.Notify(ctx, notify.EventApprovalSubmitted,
		"Approval required",
		fmt.Sprintf("Approval for %s submitted (%s). Re-submit the trade once it confirms.",
			req.CommodityName, hash.Hex()))

	return fmt.Errorf("%w: approval %s submitted, re-invoke the trade after it confirms",
		domain.ErrApprovalRequired, hash.Hex())
}

// estimateOut reads the pool reserves, orients them around the input token
// and returns the slippage-adjusted minimum acceptable output.
func (e *Executor) estimateOut(ctx context.Context, inToken common.Address, amountIn *big.Int) (*big.Int, error) {
	data, err := e.pool.Pack("getReserves")
	if err != nil {
		return nil, fmt.Errorf("packing getReserves: %w", err)
	}
	raw, err := e.wallet.Call(ctx, e.cfg.PoolAddress, data)
	if err != nil {
		return nil, fmt.Errorf("reading reserves: %w", err)
	}

	outs, err := e.pool.Unpack("getReserves", raw)
	if err != nil || len(outs) < 2 {
		return nil, fmt.Errorf("decoding reserves: %w", err)
	}
	reserve0, ok0 := outs[0].(*big.Int)
	reserve1, ok1 := outs[1].(*big.Int)
	if !ok0 || !ok1 || reserve0.Sign() == 0 || reserve1.Sign() == 0 {
		return nil, fmt.Errorf("pool %s has empty reserves", e.cfg.PoolAddress.Hex())
	}

	token0, err := e.readAddress(ctx, e.pool, e.cfg.PoolAddress, "token0")
	if err != nil {
		return nil, fmt.Errorf("reading token0: %w", err)
	}

	reserveIn, reserveOut := reserve0, reserve1
	if token0 != inToken {
		reserveIn, reserveOut = reserve1, reserve0
	}

	out := ConstantProductOut(amountIn, reserveIn, reserveOut, e.cfg.PoolFeeBps)
	return ApplySlippage(out, e.cfg.SlippageBps), nil
}

// transferAndSwap performs the non-atomic pool protocol: move the input asset
// to the pool, then call swap with the output assigned to whichever token
// slot holds the output asset. A swap failure after the transfer landed is a
// partial trade, not a plain submission error.
func (e *Executor) transferAndSwap(ctx context.Context, outToken, inToken common.Address, amountIn, minOut *big.Int) (common.Hash, error) {
	transferData, err := e.erc20.Pack("transfer", e.cfg.PoolAddress, amountIn)
	if err != nil {
		return common.Hash{}, fmt.Errorf("executor/evm: packing transfer: %w", err)
	}
	transferHash, err := e.wallet.SendTransaction(ctx, inToken, transferData, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: pre-transfer: %v", domain.ErrSubmissionFailed, err)
	}

	token0, err := e.readAddress(ctx, e.pool, e.cfg.PoolAddress, "token0")
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: resolving output slot after transfer %s: %v",
			domain.ErrPartialTrade, transferHash.Hex(), err)
	}

	amount0Out, amount1Out := big.NewInt(0), big.NewInt(0)
	if token0 == outToken {
		amount0Out = minOut
	} else {
		amount1Out = minOut
	}

	swapData, err := e.pool.Pack("swap", amount0Out, amount1Out, e.wallet.Address(), []byte{})
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: packing swap after transfer %s: %v",
			domain.ErrPartialTrade, transferHash.Hex(), err)
	}
	swapHash, err := e.wallet.SendTransaction(ctx, e.cfg.PoolAddress, swapData, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: transfer %s landed, swap rejected: %v",
			domain.ErrPartialTrade, transferHash.Hex(), err)
	}

	return swapHash, nil
}

// watchConfirmation follows the accepted swap to a receipt in the background
// and surfaces the outcome through the notifier. Runs detached from the trade
// invocation's context.
func (e *Executor) watchConfirmation(req domain.TradeRequest, hash common.Hash) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.ConfirmWindow)
	defer cancel()

	if err := e.wallet.WaitMined(ctx, hash); err != nil {
		e.log.Warn("swap did not confirm",
			slog.String("trade_id", req.ID),
			slog.String("tx", hash.Hex()),
			slog.String("error", err.Error()))
		_ = e.notifier.Notify(ctx, notify.EventTradeFailed,
			"Trade failed on chain",
			fmt.Sprintf("%s of %s (tx %s): %v", req.Side, req.CommodityName, hash.Hex(), err))
		return
	}

	e.log.Info("swap confirmed",
		slog.String("trade_id", req.ID),
		slog.String("tx", hash.Hex()))
	_ = e.notifier.Notify(ctx, notify.EventTradeConfirmed,
		"Trade confirmed",
		fmt.Sprintf("%s of %s confirmed (tx %s)", req.Side, req.CommodityName, hash.Hex()))
}

// --------------------------------------------------------------------------
// Contract read helpers
// --------------------------------------------------------------------------

func (e *Executor) readUint(ctx context.Context, contractABI abi.ABI, to common.Address, method string, args ...any) (*big.Int, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}
	raw, err := e.wallet.Call(ctx, to, data)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	var out *big.Int
	if err := contractABI.UnpackIntoInterface(&out, method, raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return out, nil
}

func (e *Executor) readAddress(ctx context.Context, contractABI abi.ABI, to common.Address, method string) (common.Address, error) {
	data, err := contractABI.Pack(method)
	if err != nil {
		return common.Address{}, fmt.Errorf("packing %s: %w", method, err)
	}
	raw, err := e.wallet.Call(ctx, to, data)
	if err != nil {
		return common.Address{}, fmt.Errorf("calling %s: %w", method, err)
	}
	var out common.Address
	if err := contractABI.UnpackIntoInterface(&out, method, raw); err != nil {
		return common.Address{}, fmt.Errorf("decoding %s: %w", method, err)
	}
	return out, nil
}
