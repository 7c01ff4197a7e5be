// Package cryptox seals small secrets, such as the bearer token, before they
// reach the local store.
package cryptox

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/wombguard/wombguard-cli/internal/common"
	"github.com/wombguard/wombguard-cli/internal/filex"
)

// ErrSealed is returned when a sealed value cannot be opened: wrong key,
// truncated or tampered data.
var ErrSealed = errors.New("sealed value cannot be opened")

// passphraseSalt is fixed so that the same passphrase file always yields the
// same key across runs.
var passphraseSalt = []byte("wombguard-cli/credential-key/v1")

// Sealer encrypts and authenticates values at rest.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// NopSealer stores values as they are.
type NopSealer struct{}

func (NopSealer) Seal(p []byte) ([]byte, error) { return p, nil }
func (NopSealer) Open(s []byte) ([]byte, error) { return s, nil }

// AEADSealer is XChaCha20-Poly1305 with a random nonce prepended to every
// ciphertext.
type AEADSealer struct {
	aead cipher.AEAD
}

func NewAEADSealer(key []byte) (*AEADSealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &AEADSealer{aead: aead}, nil
}

func (s *AEADSealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *AEADSealer) Open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrSealed
	}
	out, err := s.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrSealed
	}
	return out, nil
}

// DeriveKey stretches a passphrase into a 32-byte key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
}

// LoadKeyFile returns the key kept at path. A missing file is created with
// fresh random key material (hex, mode 0600). A file holding 64 hex digits is
// used as the raw key; anything else is treated as a passphrase.
func LoadKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("create key file: %w", err)
		}
		key := common.GenerateRandByteArray(chacha20poly1305.KeySize)
		if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0o600); err != nil {
			return nil, fmt.Errorf("create key file: %w", err)
		}
		return key, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("key file %s is empty", path)
	}
	if len(data) == hex.EncodedLen(chacha20poly1305.KeySize) {
		if key, err := hex.DecodeString(string(data)); err == nil {
			return key, nil
		}
	}
	return DeriveKey(data, passphraseSalt), nil
}

// NewSealer returns a NopSealer when keyFile is empty and an AEADSealer
// keyed from keyFile otherwise.
func NewSealer(keyFile string) (Sealer, error) {
	if keyFile == "" {
		return NopSealer{}, nil
	}
	key, err := LoadKeyFile(keyFile)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)
	return NewAEADSealer(key)
}
