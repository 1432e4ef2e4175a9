package solana

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/commodex/internal/domain"
	"github.com/alanyoungcy/commodex/internal/platform/jupiter"
)

const (
	testUSDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testGasMint  = "HpNnAySB34qEHSBANp8dbUu7UqzPxZG5CktqbdKnC9Qp"
)

type submission struct {
	tx         *solanago.Transaction
	commitment rpc.CommitmentType
}

type fakeWallet struct {
	mu sync.Mutex

	connected  bool
	pub        solanago.PublicKey
	sent       []submission
	confirmed  []rpc.CommitmentType
	sendErr    error
	confirmErr error
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		connected: true,
		pub:       solanago.NewWallet().PublicKey(),
	}
}

func (w *fakeWallet) Connected() bool { return w.connected }

func (w *fakeWallet) PublicKey() solanago.PublicKey { return w.pub }

func (w *fakeWallet) LatestBlockhash(context.Context) (solanago.Hash, error) {
	return solanago.Hash{}, nil
}

func (w *fakeWallet) SignAndSend(_ context.Context, tx *solanago.Transaction, commitment rpc.CommitmentType) (solanago.Signature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sendErr != nil {
		return solanago.Signature{}, w.sendErr
	}
	w.sent = append(w.sent, submission{tx: tx, commitment: commitment})
	return solanago.Signature{}, nil
}

func (w *fakeWallet) Confirm(_ context.Context, _ solanago.Signature, commitment rpc.CommitmentType) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.confirmErr != nil {
		return w.confirmErr
	}
	w.confirmed = append(w.confirmed, commitment)
	return nil
}

type fakeAggregator struct {
	quote      *jupiter.Quote
	quoteErr   error
	quoteCalls int

	buildRaw   []byte
	buildErr   error
	buildCalls int
}

func (a *fakeAggregator) GetQuote(_ context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*jupiter.Quote, error) {
	a.quoteCalls++
	if a.quoteErr != nil {
		return nil, a.quoteErr
	}
	return a.quote, nil
}

func (a *fakeAggregator) BuildSwap(_ context.Context, _ *jupiter.Quote, _ string) ([]byte, error) {
	a.buildCalls++
	if a.buildErr != nil {
		return nil, a.buildErr
	}
	return a.buildRaw, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Notify(_ context.Context, event, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func routedQuote() *jupiter.Quote {
	return &jupiter.Quote{
		InputMint:  testUSDCMint,
		OutputMint: testGasMint,
		RoutePlan:  []jupiter.RoutePlanStep{{Percent: 100}},
	}
}

// rawTransferTx serializes a minimal real transaction in the requested wire
// format so the decode path runs against genuine bytes.
func rawTransferTx(t *testing.T, versioned bool) []byte {
	t.Helper()
	from := solanago.NewWallet().PublicKey()
	to := solanago.NewWallet().PublicKey()
	tx, err := solanago.NewTransaction(
		[]solanago.Instruction{system.NewTransferInstruction(1, from, to).Build()},
		solanago.Hash{},
		solanago.TransactionPayer(from),
	)
	require.NoError(t, err)
	if versioned {
		tx.Message.SetVersion(solanago.MessageVersionV0)
	}
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func newTestExecutor(wallet *fakeWallet, agg *fakeAggregator) (*Executor, *fakeNotifier) {
	notifier := &fakeNotifier{}
	exec := New(wallet, agg, notifier, Config{
		USDCMint:      testUSDCMint,
		USDCDecimals:  6,
		TokenDecimals: 18,
		SlippageBps:   50,
	}, slog.New(slog.DiscardHandler))
	return exec, notifier
}

func buyRequest(amount float64) domain.TradeRequest {
	return domain.TradeRequest{
		ID:             "t-1",
		CommodityID:    "natural-gas",
		CommodityName:  "Natural Gas",
		Side:           domain.SideBuy,
		Chain:          domain.ChainSolana,
		Amount:         amount,
		ReferencePrice: 2.5,
	}
}

func TestExecuteDisconnectedWalletNoIO(t *testing.T) {
	wallet := newFakeWallet()
	wallet.connected = false
	agg := &fakeAggregator{quote: routedQuote()}
	exec, _ := newTestExecutor(wallet, agg)

	_, err := exec.Execute(context.Background(), buyRequest(1), testGasMint)
	assert.ErrorIs(t, err, domain.ErrWalletNotConnected)
	assert.Zero(t, agg.quoteCalls)
	assert.Empty(t, wallet.sent)
}

func TestExecuteNonPositiveAmountNoIO(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: routedQuote()}
	exec, _ := newTestExecutor(wallet, agg)

	for _, amount := range []float64{0, -3} {
		_, err := exec.Execute(context.Background(), buyRequest(amount), testGasMint)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assert.Zero(t, agg.quoteCalls)
	assert.Empty(t, wallet.sent)
}

func TestExecuteInvalidMint(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: routedQuote()}
	exec, _ := newTestExecutor(wallet, agg)

	_, err := exec.Execute(context.Background(), buyRequest(1), "not-a-mint")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	assert.Zero(t, agg.quoteCalls)
}

func TestExecuteEmptyRouteIsTerminal(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: &jupiter.Quote{RoutePlan: nil}}
	exec, _ := newTestExecutor(wallet, agg)

	_, err := exec.Execute(context.Background(), buyRequest(1), testGasMint)
	require.ErrorIs(t, err, domain.ErrNoRoute)

	// No swap build, no fallback transfer: the no-route outcome is terminal.
	assert.Zero(t, agg.buildCalls)
	assert.Empty(t, wallet.sent)
}

func TestExecuteQuoteErrorEngagesBuyFallback(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quoteErr: assert.AnError}
	exec, notifier := newTestExecutor(wallet, agg)

	// 2 units at reference price 2.5 prices the fallback at 5 SOL.
	msg, err := exec.Execute(context.Background(), buyRequest(2), testGasMint)
	require.NoError(t, err)
	assert.Contains(t, msg, "fallback transfer")
	assert.Contains(t, msg, "5000000000")

	// The aggregator path never ran; the fallback transfer did.
	assert.Zero(t, agg.buildCalls)
	require.Len(t, wallet.sent, 1)
	assert.Equal(t, rpc.CommitmentProcessed, wallet.sent[0].commitment)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.events, "fallback_executed")
}

func TestExecuteQuoteErrorSimulatesSell(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quoteErr: assert.AnError}
	exec, _ := newTestExecutor(wallet, agg)

	req := buyRequest(3)
	req.Side = domain.SideSell

	msg, err := exec.Execute(context.Background(), req, testGasMint)
	require.NoError(t, err)
	assert.Contains(t, msg, "simulat")
	assert.Zero(t, agg.buildCalls)
	assert.Empty(t, wallet.sent)
	assert.Empty(t, wallet.confirmed)
}

func TestExecuteBuySwapConfirmed(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: routedQuote(), buildRaw: rawTransferTx(t, true)}
	exec, notifier := newTestExecutor(wallet, agg)

	msg, err := exec.Execute(context.Background(), buyRequest(10), testGasMint)
	require.NoError(t, err)
	assert.Contains(t, msg, "aggregator")
	assert.Contains(t, msg, "versioned")

	require.Len(t, wallet.sent, 1)
	assert.Equal(t, rpc.CommitmentConfirmed, wallet.sent[0].commitment)
	require.Len(t, wallet.confirmed, 1)
	assert.Equal(t, rpc.CommitmentConfirmed, wallet.confirmed[0])

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.events, "trade_confirmed")
}

func TestExecuteBuyFallbackTransferAfterRoute(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: routedQuote(), buildErr: assert.AnError}
	exec, notifier := newTestExecutor(wallet, agg)

	// 2 units at reference price 2.5 prices the fallback at 5 SOL.
	msg, err := exec.Execute(context.Background(), buyRequest(2), testGasMint)
	require.NoError(t, err)
	assert.Contains(t, msg, "fallback transfer")
	assert.Contains(t, msg, "5000000000")

	require.Len(t, wallet.sent, 1)
	assert.Equal(t, rpc.CommitmentProcessed, wallet.sent[0].commitment)
	require.Len(t, wallet.confirmed, 1)
	assert.Equal(t, rpc.CommitmentProcessed, wallet.confirmed[0])

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Contains(t, notifier.events, "fallback_executed")
}

func TestExecuteSellFallbackSimulatesWithoutSubmitting(t *testing.T) {
	wallet := newFakeWallet()
	agg := &fakeAggregator{quote: routedQuote(), buildErr: assert.AnError}
	exec, _ := newTestExecutor(wallet, agg)

	req := buyRequest(3)
	req.Side = domain.SideSell

	msg, err := exec.Execute(context.Background(), req, testGasMint)
	require.NoError(t, err)
	assert.Contains(t, msg, "simulat")
	assert.Empty(t, wallet.sent, "sell fallback must never submit a transaction")
	assert.Empty(t, wallet.confirmed)
}

func TestExecuteSubmitFailureTriggersBuyFallback(t *testing.T) {
	wallet := newFakeWallet()
	wallet.sendErr = assert.AnError
	agg := &fakeAggregator{quote: routedQuote(), buildRaw: rawTransferTx(t, false)}
	exec, _ := newTestExecutor(wallet, agg)

	// Both the swap submission and the fallback submission fail, so the
	// invocation fails as a submission error.
	_, err := exec.Execute(context.Background(), buyRequest(1), testGasMint)
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
}

func TestDecodeTransactionTagsFormat(t *testing.T) {
	tx, format, err := DecodeTransaction(rawTransferTx(t, false))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, TxFormatLegacy, format)

	tx, format, err = DecodeTransaction(rawTransferTx(t, true))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, TxFormatVersioned, format)
}

func TestDecodeTransactionGarbage(t *testing.T) {
	_, _, err := DecodeTransaction([]byte{0xff, 0x01, 0x02})
	assert.Error(t, err)
}

func TestBaseUnits(t *testing.T) {
	got, err := baseUnits(1.5, 6)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000), got)

	got, err = baseUnits(0.25, 18)
	require.NoError(t, err)
	assert.Equal(t, uint64(250_000_000_000_000_000), got)

	// Overflow past uint64 is rejected, not wrapped.
	_, err = baseUnits(1e30, 18)
	assert.Error(t, err)
}

func TestFallbackLamportsTruncates(t *testing.T) {
	got, err := fallbackLamports(2, 2.5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), got)
}
