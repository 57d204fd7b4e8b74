// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// FieldCodec encrypts and decrypts individual account fields that are stored
// encrypted at rest (phone number, points balance).
//
// # Boundary
//
// Decryption happens exactly once, when an account row is hydrated into an
// [Identity]. Handlers never touch ciphertext and never decrypt ad hoc.
type FieldCodec struct {
	aead cipher.AEAD
}

// NewFieldCodec builds a codec from a 16, 24, or 32 byte AES key.
func NewFieldCodec(key []byte) (*FieldCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid field encryption key: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize AES-GCM: %w", err)
	}

	return &FieldCodec{aead: aead}, nil
}

// EncryptString seals a plaintext field value into a base64 token.
// Empty input stays empty so optional columns remain NULL-like.
func (codec *FieldCodec) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, codec.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	sealed := codec.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString opens a base64 token produced by [FieldCodec.EncryptString].
func (codec *FieldCodec) DecryptString(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("sec: malformed encrypted field: %w", err)
	}

	nonceSize := codec.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("sec: encrypted field too short")
	}

	plaintext, err := codec.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("sec: failed to decrypt field: %w", err)
	}

	return string(plaintext), nil
}
