package solana

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// TxFormat identifies which of the two Solana wire formats a decoded
// transaction arrived in. Aggregators normally emit the versioned format but
// may fall back to legacy; both are accepted and the chosen variant is
// reported explicitly instead of being inferred later.
type TxFormat string

const (
	TxFormatVersioned TxFormat = "versioned"
	TxFormatLegacy    TxFormat = "legacy"
)

// DecodeTransaction parses raw transaction bytes in either wire format and
// tags the result with the variant that matched.
func DecodeTransaction(raw []byte) (*solanago.Transaction, TxFormat, error) {
	tx, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, "", fmt.Errorf("executor/solana: decoding transaction: %w", err)
	}
	if tx.Message.GetVersion() == solanago.MessageVersionLegacy {
		return tx, TxFormatLegacy, nil
	}
	return tx, TxFormatVersioned, nil
}
