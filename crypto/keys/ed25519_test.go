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

package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519KeyPair(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)
	assert.Len(t, kp.PublicKey(), 32)
}

func TestEd25519SignVerify(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)

	msg := []byte("hello liberte")
	sig := kp.Sign(msg)
	assert.True(t, kp.Verify(msg, sig))
	assert.False(t, kp.Verify([]byte("tampered"), sig))
}

func TestNewEd25519KeyPairFromSeed(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)
	seed := kp.(*ed25519KeyPair).Seed()

	rebuilt := NewEd25519KeyPairFromSeed(seed)
	assert.Equal(t, kp.PublicKey(), rebuilt.PublicKey())

	msg := []byte("round trip")
	sig := rebuilt.Sign(msg)
	assert.True(t, kp.Verify(msg, sig))
}
