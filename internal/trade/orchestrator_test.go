package trade

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/commodex/internal/directory"
	"github.com/alanyoungcy/commodex/internal/domain"
)

const (
	testEVMAddr = "0x7D8466C9737A21092d545BEDd5aBc702f7dE9353"
	testMint    = "HpNnAySB34qEHSBANp8dbUu7UqzPxZG5CktqbdKnC9Qp"
)

type fakeWallet struct{ connected bool }

func (w *fakeWallet) Connected() bool { return w.connected }

type fakeEVMExec struct {
	calls []domain.TradeRequest
	addrs []common.Address
	msg   string
	err   error
}

func (e *fakeEVMExec) Execute(_ context.Context, req domain.TradeRequest, addr common.Address) (string, error) {
	e.calls = append(e.calls, req)
	e.addrs = append(e.addrs, addr)
	return e.msg, e.err
}

type fakeSolExec struct {
	calls []domain.TradeRequest
	mints []string
	msg   string
	err   error
}

func (e *fakeSolExec) Execute(_ context.Context, req domain.TradeRequest, mint string) (string, error) {
	e.calls = append(e.calls, req)
	e.mints = append(e.mints, mint)
	return e.msg, e.err
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

type fixture struct {
	orch     *Orchestrator
	evmExec  *fakeEVMExec
	solExec  *fakeSolExec
	evmW     *fakeWallet
	solW     *fakeWallet
	notifier *fakeNotifier
}

func newFixture() *fixture {
	dir := directory.New(map[string]domain.ContractAddresses{
		"natural-gas": {EVM: testEVMAddr, Solana: testMint},
	})
	f := &fixture{
		evmExec:  &fakeEVMExec{msg: "evm ok"},
		solExec:  &fakeSolExec{msg: "solana ok"},
		evmW:     &fakeWallet{connected: true},
		solW:     &fakeWallet{connected: true},
		notifier: &fakeNotifier{},
	}
	f.orch = New(dir, f.evmW, f.solW, f.evmExec, f.solExec, f.notifier, 0,
		slog.New(slog.DiscardHandler))
	return f
}

func request(chain domain.Chain, amount float64) domain.TradeRequest {
	return domain.TradeRequest{
		CommodityID:   "natural-gas",
		CommodityName: "Natural Gas",
		Chain:         chain,
		Amount:        amount,
	}
}

func TestBuyDisconnectedBeforeAddressResolution(t *testing.T) {
	f := newFixture()
	f.solW.connected = false

	// The commodity is unknown, but the disconnected wallet must win: the
	// result names the connection, proving resolution never ran.
	req := request(domain.ChainSolana, 1)
	req.CommodityID = "unknown-commodity"

	res := f.orch.Buy(context.Background(), req)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "wallet not connected")
	assert.NotContains(t, res.Message, "address")
	assert.Empty(t, f.solExec.calls)
}

func TestBuyUnknownCommodity(t *testing.T) {
	f := newFixture()

	req := request(domain.ChainEVM, 1)
	req.CommodityID = "unknown-commodity"

	res := f.orch.Buy(context.Background(), req)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "address not found")
	assert.Empty(t, f.evmExec.calls)
}

func TestBuyMissingChainAddress(t *testing.T) {
	f := newFixture()

	// Caller-supplied addresses fully override the static entry, so a
	// partial map with only an EVM address leaves Solana unresolvable.
	req := request(domain.ChainSolana, 1)
	req.Addresses = domain.ContractAddresses{EVM: testEVMAddr}

	res := f.orch.Buy(context.Background(), req)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "address not found")
	assert.Empty(t, f.solExec.calls)
}

func TestBuyNonPositiveAmount(t *testing.T) {
	f := newFixture()

	for _, amount := range []float64{0, -0.5} {
		res := f.orch.Buy(context.Background(), request(domain.ChainEVM, amount))
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "amount must be positive")
	}
	assert.Empty(t, f.evmExec.calls)
}

func TestBuyDispatchesEVM(t *testing.T) {
	f := newFixture()

	res := f.orch.Buy(context.Background(), request(domain.ChainEVM, 2))
	require.True(t, res.Success)
	assert.Equal(t, "evm ok", res.Message)

	require.Len(t, f.evmExec.calls, 1)
	got := f.evmExec.calls[0]
	assert.Equal(t, domain.SideBuy, got.Side)
	assert.NotEmpty(t, got.ID, "an invocation id is assigned")
	assert.Equal(t, common.HexToAddress(testEVMAddr), f.evmExec.addrs[0])
	assert.Empty(t, f.solExec.calls)
}

func TestSellDispatchesSolana(t *testing.T) {
	f := newFixture()

	res := f.orch.Sell(context.Background(), request(domain.ChainSolana, 2))
	require.True(t, res.Success)
	assert.Equal(t, "solana ok", res.Message)

	require.Len(t, f.solExec.calls, 1)
	assert.Equal(t, domain.SideSell, f.solExec.calls[0].Side)
	assert.Equal(t, testMint, f.solExec.mints[0])
	assert.Empty(t, f.evmExec.calls)
}

func TestSuppliedAddressOverridesStatic(t *testing.T) {
	f := newFixture()

	other := "0x1111111111111111111111111111111111111111"
	req := request(domain.ChainEVM, 1)
	req.Addresses = domain.ContractAddresses{EVM: other}

	res := f.orch.Buy(context.Background(), req)
	require.True(t, res.Success)
	require.Len(t, f.evmExec.addrs, 1)
	assert.Equal(t, common.HexToAddress(other), f.evmExec.addrs[0])
}

func TestExecutorErrorNormalized(t *testing.T) {
	f := newFixture()
	f.evmExec.err = domain.ErrPartialTrade

	res := f.orch.Buy(context.Background(), request(domain.ChainEVM, 1))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "partial trade")

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	assert.Contains(t, f.notifier.events, "trade_failed")
}

func TestUnsupportedChain(t *testing.T) {
	f := newFixture()

	res := f.orch.Buy(context.Background(), request(domain.Chain("bitcoin"), 1))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unsupported chain")
}

// blockingEVMExec waits out the invocation context and reports its error.
type blockingEVMExec struct{}

func (blockingEVMExec) Execute(ctx context.Context, _ domain.TradeRequest, _ common.Address) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestTimeoutClassifiedAsContextDone(t *testing.T) {
	dir := directory.New(map[string]domain.ContractAddresses{
		"natural-gas": {EVM: testEVMAddr, Solana: testMint},
	})
	orch := New(dir, &fakeWallet{connected: true}, &fakeWallet{connected: true},
		blockingEVMExec{}, &fakeSolExec{}, &fakeNotifier{}, time.Millisecond,
		slog.New(slog.DiscardHandler))

	res := orch.Buy(context.Background(), request(domain.ChainEVM, 1))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "context cancelled")
}
