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

// Package keys holds the Ed25519 keypair implementation backing identity.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"

	libertecrypto "github.com/liberte-project/liberte/crypto"
)

// ed25519KeyPair implements libertecrypto.KeyPair for Ed25519 keys.
type ed25519KeyPair struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// GenerateEd25519KeyPair generates a new random Ed25519 key pair.
func GenerateEd25519KeyPair() (libertecrypto.KeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &ed25519KeyPair{privateKey: privateKey, publicKey: publicKey}, nil
}

// NewEd25519KeyPairFromSeed rebuilds a key pair from a 32-byte seed, the
// form an exported identity is persisted in.
func NewEd25519KeyPairFromSeed(seed []byte) libertecrypto.KeyPair {
	privateKey := ed25519.NewKeyFromSeed(seed)
	return &ed25519KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.Public().(ed25519.PublicKey),
	}
}

func (kp *ed25519KeyPair) PublicKey() ed25519.PublicKey {
	return kp.publicKey
}

func (kp *ed25519KeyPair) PrivateKey() ed25519.PrivateKey {
	return kp.privateKey
}

func (kp *ed25519KeyPair) Seed() []byte {
	return kp.privateKey.Seed()
}

func (kp *ed25519KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.privateKey, message)
}

func (kp *ed25519KeyPair) Verify(message, signature []byte) bool {
	return ed25519.Verify(kp.publicKey, message, signature)
}
