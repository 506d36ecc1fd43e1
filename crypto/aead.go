// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
)

// GenerateSymmetricKey returns a fresh random 32-byte channel key.
func GenerateSymmetricKey() (SymmetricKey, error) {
	var key SymmetricKey
	if _, err := rand.Read(key[:]); err != nil {
		return SymmetricKey{}, err
	}
	return key, nil
}

// GenerateNonce returns a fresh random 24-byte XChaCha20-Poly1305 nonce.
func GenerateNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// Encrypt seals plaintext under key, returning nonce || ciphertext || tag.
func Encrypt(key SymmetricKey, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, ErrEncryptionFailed
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt. data must be at least NonceSize
// bytes; shorter input is reported as ErrCiphertextTooShort, which wraps
// ErrDecryptionFailed. A wrong key or tampering is reported as
// ErrDecryptionFailed without distinguishing the two.
func Decrypt(key SymmetricKey, data []byte) ([]byte, error) {
	if len(data) < NonceSize {
		return nil, ErrCiphertextTooShort
	}
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
