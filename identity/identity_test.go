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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndSignVerify(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	msg := []byte("liberte message")
	sig := id.Sign(msg)
	assert.NoError(t, VerifySignature(id.UserID(), msg, sig))
	assert.Error(t, VerifySignature(id.UserID(), []byte("other"), sig))
}

func TestExportRoundtrip(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	export := id.ToExport()
	rebuilt, err := FromExport(export)
	require.NoError(t, err)

	assert.Equal(t, id.UserID(), rebuilt.UserID())
	assert.Equal(t, id.PublicKeyBytes(), rebuilt.PublicKeyBytes())
}

func TestFromSecretBytesRejectsWrongLength(t *testing.T) {
	_, err := FromSecretBytes([]byte("too short"))
	assert.ErrorIs(t, err, ErrInvalidSecretLength)
}

func TestDeriveDBKeyDeterministic(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	k1 := id.DeriveDBKey()
	k2 := id.DeriveDBKey()
	assert.Equal(t, k1, k2)
}

func TestDeriveDBKeyDiffersFromOverlaySeed(t *testing.T) {
	id, err := Generate()
	require.NoError(t, err)

	dbKey := id.DeriveDBKey()
	overlaySeed := id.DeriveOverlayKeypairSeed()
	assert.NotEqual(t, [32]byte(dbKey), overlaySeed)
}

func TestVerifySignatureRejectsMalformedUserID(t *testing.T) {
	assert.Error(t, VerifySignature(UserID("not-hex"), []byte("m"), []byte("s")))
}
