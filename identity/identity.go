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

// Package identity implements liberte's only notion of account: a
// self-generated Ed25519 signing keypair. There is no registration, no
// server-side account record, and no recovery path other than the
// identity's exported secret bytes.
package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"

	libertecrypto "github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/crypto/keys"
)

// UserID is the hex encoding of an Ed25519 public key (64 hex chars).
type UserID string

// ErrInvalidSecretLength is returned when importing a secret that is not
// exactly ed25519.SeedSize bytes long.
var ErrInvalidSecretLength = errors.New("identity: secret must be exactly 32 bytes")

// Identity wraps an Ed25519 signing keypair. Values are immutable once
// constructed; there is no rotation.
type Identity struct {
	keyPair libertecrypto.KeyPair
}

// Export is the on-disk/backup representation of an Identity: both key
// halves in raw form, so the export alone is sufficient to fully recover
// an identity (secret bytes alone would also suffice; the public key is
// carried for convenience and is always re-derivable from the secret).
type Export struct {
	SecretKey []byte `json:"secret_key"`
	PublicKey []byte `json:"public_key"`
}

// Generate creates a brand-new random identity.
func Generate() (*Identity, error) {
	kp, err := keys.GenerateEd25519KeyPair()
	if err != nil {
		return nil, err
	}
	return &Identity{keyPair: kp}, nil
}

// FromSecretBytes rebuilds an identity from a 32-byte Ed25519 seed.
func FromSecretBytes(secret []byte) (*Identity, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, ErrInvalidSecretLength
	}
	return &Identity{keyPair: keys.NewEd25519KeyPairFromSeed(secret)}, nil
}

// FromExport rebuilds an identity from a previously exported secret,
// ignoring the carried public key (it is always re-derived).
func FromExport(export Export) (*Identity, error) {
	return FromSecretBytes(export.SecretKey)
}

// UserID returns the hex-encoded public key that uniquely names this peer.
func (id *Identity) UserID() UserID {
	return UserID(hex.EncodeToString(id.keyPair.PublicKey()))
}

// PublicKeyBytes returns the raw 32-byte Ed25519 public key.
func (id *Identity) PublicKeyBytes() []byte {
	pub := id.keyPair.PublicKey()
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// SecretBytes returns the raw 32-byte Ed25519 seed. Callers must treat the
// result as sensitive; it is sufficient to fully reconstruct the identity.
func (id *Identity) SecretBytes() []byte {
	type seeder interface{ Seed() []byte }
	if s, ok := id.keyPair.(seeder); ok {
		seed := s.Seed()
		out := make([]byte, len(seed))
		copy(out, seed)
		return out
	}
	return nil
}

// Sign signs message with the identity's private key.
func (id *Identity) Sign(message []byte) []byte {
	return id.keyPair.Sign(message)
}

// ToExport produces the backup/export representation of this identity.
func (id *Identity) ToExport() Export {
	return Export{
		SecretKey: id.SecretBytes(),
		PublicKey: id.PublicKeyBytes(),
	}
}

// DeriveDBKey derives the local symmetric key used to open this identity's
// encrypted local store, distinct from any channel key or overlay keypair
// derived from the same secret.
func (id *Identity) DeriveDBKey() libertecrypto.SymmetricKey {
	return libertecrypto.DeriveSeed(libertecrypto.ContextDBKey, id.SecretBytes())
}

// DeriveOverlayKeypairSeed derives the 32-byte seed used to build this
// identity's go-libp2p host keypair, so the overlay's network identity is
// deterministic from (and recoverable from) the same secret.
func (id *Identity) DeriveOverlayKeypairSeed() [32]byte {
	return libertecrypto.DeriveSeed(libertecrypto.ContextLibp2pKeypair, id.SecretBytes())
}

// VerifySignature verifies a signature against a UserID's public key,
// without needing an Identity for the verifying party (the common case:
// verifying a message from a remote peer we only know by public key).
func VerifySignature(userID UserID, message, signature []byte) error {
	pub, err := hex.DecodeString(string(userID))
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return libertecrypto.ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), message, signature) {
		return libertecrypto.ErrInvalidSignature
	}
	return nil
}
