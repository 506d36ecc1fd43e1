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

import "lukechampine.com/blake3"

// Domain-separation contexts. Each mirrors a distinct derivation purpose so
// that keys produced for one use can never collide with keys produced for
// another, even from the same input secret.
const (
	ContextChannelKey    = "liberte-channel-key-v1"
	ContextDBKey         = "liberte-db-key-v1"
	ContextLibp2pKeypair = "liberte-libp2p-keypair-v1"
)

// deriveKeyed hashes the context string followed by zero or more
// additional inputs with unkeyed BLAKE3 and returns the 32-byte digest.
func deriveKeyed(context string, inputs ...[]byte) SymmetricKey {
	h := blake3.New(32, nil)
	h.Write([]byte(context))
	for _, in := range inputs {
		h.Write(in)
	}
	var key SymmetricKey
	copy(key[:], h.Sum(nil))
	return key
}

// DeriveChannelKey derives a channel's symmetric key from the shared secret
// carried in an invite token and the channel's id, so that knowing the key
// for one channel reveals nothing about any other channel's key.
func DeriveChannelKey(sharedSecret, channelID []byte) SymmetricKey {
	return deriveKeyed(ContextChannelKey, sharedSecret, channelID)
}

// DeriveKeyFromPassphrase derives a key from an arbitrary passphrase under
// the given domain-separation context.
func DeriveKeyFromPassphrase(passphrase []byte, context string) SymmetricKey {
	return deriveKeyed(context, passphrase)
}

// DeriveSeed derives a 32-byte seed from secret under context, used to turn
// the identity signing key into other keys (e.g. the overlay's libp2p
// keypair) without ever sharing raw key material across domains.
func DeriveSeed(context string, secret []byte) [32]byte {
	return deriveKeyed(context, secret)
}
