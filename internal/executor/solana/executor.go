// Package solana executes commodity trades through an off-chain swap
// aggregator. When the aggregator path breaks after a route was found, buys
// fall back to a direct native transfer priced at the reference price, while
// sells report a simulated outcome with no on-chain action.
package solana

import (
	"context"
	"fmt"
	"log/slog"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/notify"
	"github.com/alanyoungcy/commodex/internal/platform/jupiter"
)

// Wallet is the session capability surface the executor needs. Satisfied by
// *wallet/solana.Session.
type Wallet interface {
	Connected() bool
	PublicKey() solanago.PublicKey
	LatestBlockhash(ctx context.Context) (solanago.Hash, error)
	SignAndSend(ctx context.Context, tx *solanago.Transaction, commitment rpc.CommitmentType) (solanago.Signature, error)
	Confirm(ctx context.Context, sig solanago.Signature, commitment rpc.CommitmentType) error
}

// Aggregator is the quote and swap-build surface. Satisfied by
// *jupiter.Client.
type Aggregator interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*jupiter.Quote, error)
	BuildSwap(ctx context.Context, quote *jupiter.Quote, userPublicKey string) ([]byte, error)
}

// Notifier receives fire-and-forget trade events.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Config holds the mint and tolerance parameters for the executor.
type Config struct {
	// USDCMint is the reference stable asset all trades are denominated in.
	USDCMint string

	USDCDecimals  int
	TokenDecimals int
	SlippageBps   int
}

// Executor runs buy and sell orders through the aggregator.
type Executor struct {
	wallet     Wallet
	aggregator Aggregator
	notifier   Notifier
	cfg        Config
	log        *slog.Logger
}

func New(wallet Wallet, aggregator Aggregator, notifier Notifier, cfg Config, log *slog.Logger) *Executor {
	return &Executor{
		wallet:     wallet,
		aggregator: aggregator,
		notifier:   notifier,
		cfg:        cfg,
		log:        log.With(slog.String("component", "executor.solana")),
	}
}

// Execute runs one trade invocation. mint is the commodity's resolved token
// mint. A quote that explicitly reports no route is terminal; any other
// aggregator failure, the quote request included, engages the fallback paths.
func (e *Executor) Execute(ctx context.Context, req domain.TradeRequest, mint string) (string, error) {
	if !e.wallet.Connected() {
		return "", domain.ErrWalletNotConnected
	}
	if req.Amount <= 0 {
		return "", domain.ErrInvalidAmount
	}
	mintKey, err := solanago.PublicKeyFromBase58(mint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid mint %q: %v", domain.ErrAddressNotFound, mint, err)
	}

	var inputMint, outputMint string
	var inDecimals int
	switch req.Side {
	case domain.SideBuy:
		inputMint, outputMint, inDecimals = e.cfg.USDCMint, mint, e.cfg.USDCDecimals
	case domain.SideSell:
		inputMint, outputMint, inDecimals = mint, e.cfg.USDCMint, e.cfg.TokenDecimals
	default:
		return "", fmt.Errorf("executor/solana: unknown side %q", req.Side)
	}

	amountIn, err := baseUnits(req.Amount, inDecimals)
	if err != nil {
		return "", err
	}
	if amountIn == 0 {
		return "", fmt.Errorf("%w: %v is below the asset's smallest unit", domain.ErrInvalidAmount, req.Amount)
	}

	quote, err := e.aggregator.GetQuote(ctx, inputMint, outputMint, amountIn, e.cfg.SlippageBps)
	if err != nil {
		return e.fallback(ctx, req, mintKey, fmt.Errorf("quote: %w", err))
	}
	if len(quote.RoutePlan) == 0 {
		return "", fmt.Errorf("%w: no route between %s and %s", domain.ErrNoRoute, inputMint, outputMint)
	}

	msg, swapErr := e.executeSwap(ctx, req, quote)
	if swapErr == nil {
		return msg, nil
	}
	return e.fallback(ctx, req, mintKey, swapErr)
}

// fallback dispatches the side-specific degraded path after an aggregator
// failure: buys transfer, sells simulate.
func (e *Executor) fallback(ctx context.Context, req domain.TradeRequest, mintKey solanago.PublicKey, cause error) (string, error) {
	e.log.Warn("aggregator failed, engaging fallback",
		slog.String("trade_id", req.ID),
		slog.String("side", string(req.Side)),
		slog.String("error", cause.Error()))

	if req.Side == domain.SideSell {
		return e.simulateSell(ctx, req)
	}
	return e.fallbackTransfer(ctx, req, mintKey)
}

// executeSwap drives the aggregator path: build, decode, sign, submit, and
// wait for "confirmed" commitment.
func (e *Executor) executeSwap(ctx context.Context, req domain.TradeRequest, quote *jupiter.Quote) (string, error) {
	raw, err := e.aggregator.BuildSwap(ctx, quote, e.wallet.PublicKey().String())
	if err != nil {
		return "", fmt.Errorf("building swap: %w", err)
	}

	tx, format, err := DecodeTransaction(raw)
	if err != nil {
		return "", err
	}

	sig, err := e.wallet.SignAndSend(ctx, tx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("submitting swap: %w", err)
	}
	if err := e.wallet.Confirm(ctx, sig, rpc.CommitmentConfirmed); err != nil {
		return "", fmt.Errorf("confirming swap %s: %w", sig, err)
	}

	e.log.Info("swap confirmed",
		slog.String("trade_id", req.ID),
		slog.String("signature", sig.String()),
		slog.String("format", string(format)))

	_ = e.notifier.Notify(ctx, notify.EventTradeConfirmed,
		"Trade confirmed",
		fmt.Sprintf("%s of %s confirmed via aggregator (%s)", req.Side, req.CommodityName, sig))

	return fmt.Sprintf("%s of %s executed via aggregator: %s (%s transaction)",
		req.Side, req.CommodityName, sig, format), nil
}

// fallbackTransfer is the buy fallback: a direct native transfer of
// amount x referencePrice to the commodity's mint address, awaited at
// "processed" commitment. Economically a transfer, not a token acquisition,
// so the message says so.
func (e *Executor) fallbackTransfer(ctx context.Context, req domain.TradeRequest, mintKey solanago.PublicKey) (string, error) {
	lamports, err := fallbackLamports(req.Amount, req.ReferencePrice)
	if err != nil {
		return "", err
	}
	if lamports == 0 {
		return "", fmt.Errorf("%w: fallback transfer value rounds to zero", domain.ErrInvalidAmount)
	}

	blockhash, err := e.wallet.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("executor/solana: fallback blockhash: %w", err)
	}

	from := e.wallet.PublicKey()
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{
			system.NewTransferInstruction(lamports, from, mintKey).Build(),
		},
		blockhash,
		solanago.TransactionPayer(from),
	)
	if err != nil {
		return "", fmt.Errorf("executor/solana: building fallback transfer: %w", err)
	}

	sig, err := e.wallet.SignAndSend(ctx, tx, rpc.CommitmentProcessed)
	if err != nil {
		return "", fmt.Errorf("%w: fallback transfer: %v", domain.ErrSubmissionFailed, err)
	}
	if err := e.wallet.Confirm(ctx, sig, rpc.CommitmentProcessed); err != nil {
		return "", fmt.Errorf("%w: fallback transfer %s: %v", domain.ErrSubmissionFailed, sig, err)
	}

	e.log.Info("fallback transfer processed",
		slog.String("trade_id", req.ID),
		slog.String("signature", sig.String()),
		slog.Uint64("lamports", lamports))

	_ = e.notifier.Notify(ctx, notify.EventFallbackExecuted,
		"Fallback transfer completed",
		fmt.Sprintf("Sent %d lamports to %s for %s (aggregator unavailable)",
			lamports, mintKey, req.CommodityName))

	return fmt.Sprintf("fallback transfer completed: %d lamports sent to %s (%s)",
		lamports, mintKey, sig), nil
}

// simulateSell is the sell fallback. No transaction is built or submitted.
func (e *Executor) simulateSell(ctx context.Context, req domain.TradeRequest) (string, error) {
	e.log.Info("sell simulated",
		slog.String("trade_id", req.ID),
		slog.String("commodity", req.CommodityID))

	_ = e.notifier.Notify(ctx, notify.EventFallbackExecuted,
		"Sell simulated",
		fmt.Sprintf("Simulated selling %v units of %s (aggregator unavailable)",
			req.Amount, req.CommodityName))

	return fmt.Sprintf("sell simulated: %v units of %s (aggregator unavailable, no transaction submitted)",
		req.Amount, req.CommodityName), nil
}
