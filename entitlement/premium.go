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

// Package entitlement verifies and caches premium-tier tokens issued by a
// payment server external to this project: a user's public key plus an
// expiration, signed by the payment server's Ed25519 key.
package entitlement

import (
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/liberte-project/liberte/internal/logger"
)

// adminGrantDuration is how long admin_grant entitles a user for -- chosen
// to be effectively permanent without using a sentinel "never expires"
// value.
const adminGrantDuration = 100 * 365 * 24 * time.Hour

// Token is a premium entitlement as presented by a client: the user's
// public key, an expiration, and the payment server's signature over
// user_pubkey || valid_until formatted as RFC3339.
type Token struct {
	UserPubkey [32]byte
	ValidUntil time.Time
	Signature  []byte
}

func signedPayload(userPubkey [32]byte, validUntil time.Time) []byte {
	payload := make([]byte, 0, 32+32)
	payload = append(payload, userPubkey[:]...)
	payload = append(payload, []byte(validUntil.UTC().Format(time.RFC3339))...)
	return payload
}

// Sign produces the payment-server signature for a token. It exists for
// tests and any in-process token issuance; the production payment server
// is a separate system.
func Sign(serverKey ed25519.PrivateKey, userPubkey [32]byte, validUntil time.Time) Token {
	sig := ed25519.Sign(serverKey, signedPayload(userPubkey, validUntil))
	return Token{UserPubkey: userPubkey, ValidUntil: validUntil, Signature: sig}
}

// CheckWithKey verifies expiration and signature against serverPubkey,
// without touching any cache.
func CheckWithKey(token Token, serverPubkey [32]byte) bool {
	if time.Now().UTC().After(token.ValidUntil) {
		return false
	}
	if len(token.Signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(serverPubkey[:], signedPayload(token.UserPubkey, token.ValidUntil), token.Signature)
}

type cachedStatus struct {
	valid      bool
	validUntil time.Time
	verifiedAt time.Time
}

func (c cachedStatus) isFresh() bool {
	return c.valid && time.Now().UTC().Before(c.validUntil)
}

// Verifier verifies premium tokens against one configured payment-server
// public key, caching each user's outcome until it expires.
type Verifier struct {
	serverPubkey [32]byte
	log          logger.Logger

	mu    sync.RWMutex
	cache map[[32]byte]cachedStatus
}

// NewVerifier creates a verifier bound to serverPubkey.
func NewVerifier(serverPubkey [32]byte, log logger.Logger) *Verifier {
	return &Verifier{
		serverPubkey: serverPubkey,
		log:          log,
		cache:        make(map[[32]byte]cachedStatus),
	}
}

// Verify checks the cache first; on a fresh hit it returns true without
// touching the signature. On a miss (or stale entry) it verifies the
// token and caches the outcome keyed by user pubkey.
func (v *Verifier) Verify(token Token) bool {
	v.mu.RLock()
	entry, ok := v.cache[token.UserPubkey]
	v.mu.RUnlock()
	if ok && entry.isFresh() {
		v.log.Debug("entitlement: premium status served from cache")
		return true
	}

	valid := CheckWithKey(token, v.serverPubkey)

	v.mu.Lock()
	v.cache[token.UserPubkey] = cachedStatus{valid: valid, validUntil: token.ValidUntil, verifiedAt: time.Now().UTC()}
	v.mu.Unlock()

	if valid {
		v.log.Info("entitlement: premium status verified", logger.String("valid_until", token.ValidUntil.Format(time.RFC3339)))
	} else {
		v.log.Debug("entitlement: premium verification failed")
	}
	return valid
}

// IsPremiumCached reports the cached status for userPubkey without
// verifying anything.
func (v *Verifier) IsPremiumCached(userPubkey [32]byte) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	entry, ok := v.cache[userPubkey]
	return ok && entry.isFresh()
}

// AdminGrant inserts a cache entry valid for ~100 years, bypassing
// signature verification entirely.
func (v *Verifier) AdminGrant(userPubkey [32]byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := time.Now().UTC()
	v.cache[userPubkey] = cachedStatus{valid: true, validUntil: now.Add(adminGrantDuration), verifiedAt: now}
}

// AdminRevoke drops any cached entry for userPubkey.
func (v *Verifier) AdminRevoke(userPubkey [32]byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.cache, userPubkey)
}

// PurgeExpired evicts cache entries that are no longer fresh.
func (v *Verifier) PurgeExpired() {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.cache)
	for key, entry := range v.cache {
		if !entry.isFresh() {
			delete(v.cache, key)
		}
	}
	if removed := before - len(v.cache); removed > 0 {
		v.log.Debug("entitlement: purged expired cache entries", logger.Int("removed", removed))
	}
}
