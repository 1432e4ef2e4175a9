// Package keys provides at-rest encryption for the trading wallet signing
// keys. Both chain families are supported: EVM keys are hex-encoded 32-byte
// secp256k1 scalars, Solana keys are base58-encoded 64-byte ed25519 keypairs.
// Keys are stored as PBKDF2-HMAC-SHA256 + AES-256-GCM encrypted JSON blobs.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// pbkdf2Iterations is the OWASP-recommended minimum for HMAC-SHA256.
	pbkdf2Iterations = 480_000
	// saltLen is the random salt length in bytes.
	saltLen = 16
	// aesKeyLen is the derived AES-256 key length.
	aesKeyLen = 32
	// currentVersion is the encrypted-key JSON schema version.
	currentVersion = 1
)

// Encoding identifies how the plaintext key material is serialized.
type Encoding string

const (
	// EncodingHex is used for EVM secp256k1 private keys (32 bytes).
	EncodingHex Encoding = "hex"
	// EncodingBase58 is used for Solana ed25519 keypairs (64 bytes).
	EncodingBase58 Encoding = "base58"
)

// encryptedKeyJSON is the on-disk format for an encrypted private key.
type encryptedKeyJSON struct {
	Version    int    `json:"version"`
	Encoding   string `json:"encoding"`
	Salt       string `json:"salt"`       // base64 standard encoding
	Nonce      string `json:"nonce"`      // base64 standard encoding
	Ciphertext string `json:"ciphertext"` // base64 standard encoding
}

// Config carries the information Load needs to resolve a private key.
// Populate the fields from environment variables or the config file.
type Config struct {
	// RawKey is the plaintext key in its chain-native encoding (hex with or
	// without 0x prefix for EVM, base58 for Solana). If non-empty, Load
	// returns it directly.
	RawKey string

	// EncryptedKeyPath is the path to a JSON file produced by Encrypt.
	EncryptedKeyPath string

	// Password is used to decrypt the file at EncryptedKeyPath.
	Password string

	// Encoding selects the key material encoding.
	Encoding Encoding
}

// decode parses key material in the given encoding and validates its length.
func decode(raw string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingHex:
		keyBytes, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, fmt.Errorf("keys: invalid private key hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return nil, fmt.Errorf("keys: expected 32-byte key, got %d bytes", len(keyBytes))
		}
		return keyBytes, nil
	case EncodingBase58:
		keyBytes, err := base58.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("keys: invalid private key base58: %w", err)
		}
		if len(keyBytes) != 64 {
			return nil, fmt.Errorf("keys: expected 64-byte keypair, got %d bytes", len(keyBytes))
		}
		return keyBytes, nil
	default:
		return nil, fmt.Errorf("keys: unsupported encoding %q", enc)
	}
}

// encode serializes key material back to its chain-native string form.
func encode(keyBytes []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingHex:
		return hex.EncodeToString(keyBytes), nil
	case EncodingBase58:
		return base58.Encode(keyBytes), nil
	default:
		return "", fmt.Errorf("keys: unsupported encoding %q", enc)
	}
}

// Encrypt encrypts a chain-native private key string with a password using
// PBKDF2-HMAC-SHA256 key derivation and AES-256-GCM authenticated
// encryption. It returns a JSON blob suitable for writing to disk.
func Encrypt(rawKey, password string, enc Encoding) ([]byte, error) {
	if password == "" {
		return nil, errors.New("keys: password must not be empty")
	}

	keyBytes, err := decode(rawKey, enc)
	if err != nil {
		return nil, err
	}

	// Generate random salt and derive AES key.
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keys: generating salt: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("keys: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("keys: creating GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keys: generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, keyBytes, nil)

	out := encryptedKeyJSON{
		Version:    currentVersion,
		Encoding:   string(enc),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}

	return json.MarshalIndent(out, "", "  ")
}

// Decrypt decrypts a JSON blob produced by Encrypt, returning the key in its
// chain-native string encoding.
func Decrypt(encryptedJSON []byte, password string) (string, error) {
	if password == "" {
		return "", errors.New("keys: password must not be empty")
	}

	var stored encryptedKeyJSON
	if err := json.Unmarshal(encryptedJSON, &stored); err != nil {
		return "", fmt.Errorf("keys: parsing encrypted key JSON: %w", err)
	}
	if stored.Version != currentVersion {
		return "", fmt.Errorf("keys: unsupported version %d", stored.Version)
	}

	salt, err := base64.StdEncoding.DecodeString(stored.Salt)
	if err != nil {
		return "", fmt.Errorf("keys: decoding salt: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(stored.Nonce)
	if err != nil {
		return "", fmt.Errorf("keys: decoding nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(stored.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("keys: decoding ciphertext: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aesKeyLen, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return "", fmt.Errorf("keys: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("keys: creating GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("keys: decryption failed (wrong password?): %w", err)
	}

	return encode(plaintext, Encoding(stored.Encoding))
}

// Load resolves a private key from the provided configuration.
//
// Resolution order:
//  1. If RawKey is set, validate and return it.
//  2. If EncryptedKeyPath is set, read the file and decrypt with Password.
//  3. Otherwise, return an error.
func Load(cfg Config) (string, error) {
	if cfg.RawKey != "" {
		keyBytes, err := decode(cfg.RawKey, cfg.Encoding)
		if err != nil {
			return "", err
		}
		return encode(keyBytes, cfg.Encoding)
	}

	if cfg.EncryptedKeyPath != "" {
		data, err := os.ReadFile(cfg.EncryptedKeyPath)
		if err != nil {
			return "", fmt.Errorf("keys: reading encrypted key file: %w", err)
		}
		return Decrypt(data, cfg.Password)
	}

	return "", errors.New("keys: no private key source configured (set RawKey or EncryptedKeyPath)")
}
