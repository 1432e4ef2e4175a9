// Package solana provides a signing wallet session bound to a Solana RPC
// endpoint. It mirrors the EVM session surface: the session owns the ed25519
// keypair, signs transactions built elsewhere and polls for confirmation.
package solana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/alanyoungcy/commodex/internal/domain"
)

// statusPollInterval controls how often Confirm polls signature statuses.
const statusPollInterval = 2 * time.Second

// Session is a connected Solana wallet. The zero value is disconnected and
// all signing operations on it return domain.ErrWalletNotConnected.
type Session struct {
	client *rpc.Client
	key    solana.PrivateKey
	log    *slog.Logger
}

// Config carries the session parameters. PrivateKeyBase58 is the already
// resolved 64-byte keypair (see the keys package for encrypted storage).
type Config struct {
	RPCURL           string
	PrivateKeyBase58 string
}

// Dial parses the keypair and connects the RPC client. The endpoint is
// health-checked so a dead RPC URL fails at startup.
func Dial(ctx context.Context, cfg Config, log *slog.Logger) (*Session, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("wallet/solana: rpc url is required")
	}

	key, err := solana.PrivateKeyFromBase58(cfg.PrivateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("wallet/solana: invalid private key: %w", err)
	}

	client := rpc.New(cfg.RPCURL)
	if _, err := client.GetHealth(ctx); err != nil {
		return nil, fmt.Errorf("wallet/solana: health check on %s: %w", cfg.RPCURL, err)
	}

	s := &Session{
		client: client,
		key:    key,
		log:    log.With(slog.String("component", "wallet.solana")),
	}

	s.log.Info("wallet session established",
		slog.String("public_key", key.PublicKey().String()))

	return s, nil
}

// Connected reports whether the session holds both a live client and a key.
func (s *Session) Connected() bool {
	return s != nil && s.client != nil && len(s.key) > 0
}

// PublicKey returns the wallet public key.
func (s *Session) PublicKey() solana.PublicKey {
	if s == nil || len(s.key) == 0 {
		return solana.PublicKey{}
	}
	return s.key.PublicKey()
}

// LatestBlockhash fetches a recent blockhash for transaction assembly.
func (s *Session) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	if !s.Connected() {
		return solana.Hash{}, domain.ErrWalletNotConnected
	}
	out, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("wallet/solana: fetching blockhash: %w", err)
	}
	return out.Value.Blockhash, nil
}

// SignAndSend signs the transaction with the session key and broadcasts it.
// Only signatures matching the session key are provided; a transaction that
// requires other signers fails during signing.
func (s *Session) SignAndSend(ctx context.Context, tx *solana.Transaction, commitment rpc.CommitmentType) (solana.Signature, error) {
	if !s.Connected() {
		return solana.Signature{}, domain.ErrWalletNotConnected
	}

	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.key.PublicKey()) {
			return &s.key
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("wallet/solana: signing: %w", err)
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("wallet/solana: broadcasting: %w", err)
	}

	s.log.Debug("transaction sent", slog.String("signature", sig.String()))
	return sig, nil
}

// Confirm polls signature statuses until sig reaches the requested commitment
// level or the context expires. An on-chain execution error is returned as an
// error even though the transaction landed.
func (s *Session) Confirm(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) error {
	if !s.Connected() {
		return domain.ErrWalletNotConnected
	}

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		out, err := s.client.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			return fmt.Errorf("wallet/solana: fetching signature status: %w", err)
		}
		if len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return fmt.Errorf("wallet/solana: transaction %s failed on chain: %v", sig, st.Err)
			}
			if commitmentReached(st.ConfirmationStatus, commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wallet/solana: confirming %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

// commitmentReached reports whether the observed confirmation status is at
// least as final as the requested commitment.
func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case "processed":
			return 1
		case "confirmed":
			return 2
		case "finalized":
			return 3
		}
		return 0
	}
	return rank(string(status)) >= rank(string(want))
}
