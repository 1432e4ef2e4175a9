package keys

import (
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptHexRoundTrip(t *testing.T) {
	raw := "0x" + "11" + "223344556677889900aabbccddeeff00112233445566778899aabbccddeeff"
	blob, err := Encrypt(raw, "hunter2", EncodingHex)
	require.NoError(t, err)

	got, err := Decrypt(blob, "hunter2")
	require.NoError(t, err)
	// The 0x prefix is normalised away.
	assert.Equal(t, raw[2:], got)
}

func TestEncryptDecryptBase58RoundTrip(t *testing.T) {
	keypair := make([]byte, 64)
	for i := range keypair {
		keypair[i] = byte(i)
	}
	raw := base58.Encode(keypair)

	blob, err := Encrypt(raw, "hunter2", EncodingBase58)
	require.NoError(t, err)

	got, err := Decrypt(blob, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecryptWrongPassword(t *testing.T) {
	raw := hex.EncodeToString(make([]byte, 32))
	blob, err := Encrypt(raw, "correct", EncodingHex)
	require.NoError(t, err)

	_, err = Decrypt(blob, "wrong")
	assert.Error(t, err)
}

func TestEncryptRejectsBadLength(t *testing.T) {
	_, err := Encrypt("deadbeef", "pw", EncodingHex)
	assert.Error(t, err)

	_, err = Encrypt(base58.Encode([]byte{1, 2, 3}), "pw", EncodingBase58)
	assert.Error(t, err)
}

func TestLoadRawKeyPrecedence(t *testing.T) {
	raw := hex.EncodeToString(make([]byte, 32))
	got, err := Load(Config{RawKey: "0x" + raw, Encoding: EncodingHex})
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestLoadNoSource(t *testing.T) {
	_, err := Load(Config{Encoding: EncodingHex})
	assert.Error(t, err)
}
