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

// Package crypto provides the cryptographic primitives shared by every
// liberte component: AEAD encryption, keyed-hash key derivation, and the
// Ed25519 signing keypair used as the system's only notion of identity.
package crypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

// SymmetricKey is a 32-byte XChaCha20-Poly1305 key.
type SymmetricKey [32]byte

// NonceSize is the XChaCha20-Poly1305 extended nonce length.
const NonceSize = 24

// TagSize is the Poly1305 authentication tag length.
const TagSize = 16

// KeyPair is the minimal signing-key abstraction used across the codebase.
// Unlike the multi-algorithm registry this package's ancestor carried,
// liberte has exactly one key type: Ed25519. The interface stays so that
// identity.Identity and test doubles can be swapped without reaching into
// concrete ed25519 types everywhere.
type KeyPair interface {
	PublicKey() ed25519.PublicKey
	Sign(message []byte) []byte
	Verify(message, signature []byte) bool
}

var (
	ErrInvalidSignature  = errors.New("crypto: invalid signature")
	ErrEncryptionFailed  = errors.New("crypto: encryption failed")
	ErrDecryptionFailed  = errors.New("crypto: decryption failed")
	// ErrCiphertextTooShort wraps ErrDecryptionFailed, so errors.Is matches
	// it against either sentinel.
	ErrCiphertextTooShort = fmt.Errorf("crypto: ciphertext shorter than nonce: %w", ErrDecryptionFailed)
)
