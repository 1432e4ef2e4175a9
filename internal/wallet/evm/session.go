// Package evm provides a signing wallet session bound to a single EVM JSON-RPC
// endpoint. The session owns the private key, the nonce/gas workflow and
// receipt polling; callers hand it raw calldata and get back transaction
// hashes.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// receiptPollInterval controls how often WaitMined polls for a receipt.
const receiptPollInterval = 2 * time.Second

// Session is a connected EVM wallet: an RPC client plus a secp256k1 key.
// The zero value is a disconnected session; all signing operations on it
// return domain.ErrWalletNotConnected.
type Session struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	log     *slog.Logger
}

// Config carries the session parameters. PrivateKeyHex is the already
// resolved key material (see the keys package for encrypted storage).
type Config struct {
	RPCURL        string
	ChainID       int64
	PrivateKeyHex string
}

// Dial connects to the RPC endpoint and derives the wallet address from the
// private key. It verifies the node's chain ID against the configured one so
// a misconfigured endpoint fails at startup instead of at signing time.
func Dial(ctx context.Context, cfg Config, log *slog.Logger) (*Session, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("wallet/evm: rpc url is required")
	}

	keyHex := strings.TrimPrefix(cfg.PrivateKeyHex, "0x")
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("wallet/evm: invalid private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("wallet/evm: dialing %s: %w", cfg.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("wallet/evm: fetching chain id: %w", err)
	}
	if cfg.ChainID != 0 && chainID.Int64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("wallet/evm: endpoint chain id %d does not match configured %d",
			chainID.Int64(), cfg.ChainID)
	}

	addr := ethcrypto.PubkeyToAddress(pk.PublicKey)

	s := &Session{
		client:  client,
		key:     pk,
		address: addr,
		chainID: chainID,
		log:     log.With(slog.String("component", "wallet.evm")),
	}

	s.log.Info("wallet session established",
		slog.String("address", addr.Hex()),
		slog.Int64("chain_id", chainID.Int64()))

	return s, nil
}

// Connected reports whether the session holds both a live client and a key.
func (s *Session) Connected() bool {
	return s != nil && s.client != nil && s.key != nil
}

// Address returns the wallet address derived from the session key.
func (s *Session) Address() common.Address {
	if s == nil {
		return common.Address{}
	}
	return s.address
}

// ChainID returns the chain the session is bound to.
func (s *Session) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Call executes a read-only contract call against the latest block.
func (s *Session) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if !s.Connected() {
		return nil, domain.ErrWalletNotConnected
	}

	out, err := s.client.CallContract(ctx, ethereum.CallMsg{
		From: s.address,
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet/evm: calling %s: %w", to.Hex(), err)
	}
	return out, nil
}

// SendTransaction builds, signs and broadcasts a transaction carrying the
// given calldata. Gas limit and gas price are taken from the node. The hash
// is returned as soon as the node accepts the transaction; use WaitMined to
// confirm inclusion.
func (s *Session) SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	if !s.Connected() {
		return common.Hash{}, domain.ErrWalletNotConnected
	}
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet/evm: fetching nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet/evm: fetching gas price: %w", err)
	}

	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet/evm: estimating gas: %w", err)
	}

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("wallet/evm: signing transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("wallet/evm: broadcasting transaction: %w", err)
	}

	s.log.Debug("transaction sent",
		slog.String("hash", signed.Hash().Hex()),
		slog.String("to", to.Hex()),
		slog.Uint64("nonce", nonce))

	return signed.Hash(), nil
}

// WaitMined polls for the receipt of hash until the context is done. A mined
// transaction with a failed status is returned as an error.
func (s *Session) WaitMined(ctx context.Context, hash common.Hash) error {
	if !s.Connected() {
		return domain.ErrWalletNotConnected
	}

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != ethtypes.ReceiptStatusSuccessful {
				return fmt.Errorf("wallet/evm: transaction %s reverted", hash.Hex())
			}
			return nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return fmt.Errorf("wallet/evm: fetching receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wallet/evm: waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// Close releases the underlying RPC client.
func (s *Session) Close() {
	if s != nil && s.client != nil {
		s.client.Close()
	}
}
