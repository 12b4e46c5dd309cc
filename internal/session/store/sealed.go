// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"github.com/samber/oops"
	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts secrets-tier payloads at rest with XChaCha20-Poly1305.
// The stored form is base64(nonce || ciphertext); tampering or a wrong key
// fails authentication on open, which the read path treats as corruption.
type Sealer struct {
	key []byte
}

// NewSealer creates a Sealer from a raw key of chacha20poly1305.KeySize
// bytes.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, oops.Code("AUTH_STORAGE_ERROR").
			With("key_len", len(key)).
			With("want_len", chacha20poly1305.KeySize).
			Errorf("sealing key must be %d bytes", chacha20poly1305.KeySize)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Sealer{key: k}, nil
}

// NewSealerFromHex creates a Sealer from a hex-encoded key, the form the
// configuration file carries.
func NewSealerFromHex(hexKey string) (*Sealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, oops.Code("AUTH_STORAGE_ERROR").
			Errorf("sealing key must be hex encoded")
	}
	return NewSealer(key)
}

// Seal encrypts plaintext for storage.
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", oops.Code("AUTH_STORAGE_ERROR").Wrap(err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a stored value. Any decode or authentication failure is
// reported as-is; callers decide whether that means corruption.
func (s *Sealer) Open(stored string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, oops.Errorf("sealed value is not base64")
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, oops.Wrap(err)
	}
	if len(raw) < aead.NonceSize() {
		return nil, oops.Errorf("sealed value too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, oops.Errorf("sealed value failed authentication")
	}
	return plaintext, nil
}
