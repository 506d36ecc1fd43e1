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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	plaintext := []byte("Liberte, egalite, fraternite!")
	encrypted, err := Encrypt(key, plaintext)
	require.NoError(t, err)

	decrypted, err := Decrypt(key, encrypted)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	key1, err := GenerateSymmetricKey()
	require.NoError(t, err)
	key2, err := GenerateSymmetricKey()
	require.NoError(t, err)

	encrypted, err := Encrypt(key1, []byte("secret message"))
	require.NoError(t, err)

	_, err = Decrypt(key2, encrypted)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptTamperedCiphertextFails(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	encrypted, err := Encrypt(key, []byte("important data"))
	require.NoError(t, err)
	encrypted[len(encrypted)-1] ^= 0xFF

	_, err = Decrypt(key, encrypted)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptEmptyDataFails(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	_, err = Decrypt(key, nil)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestNoncePrepended(t *testing.T) {
	key, err := GenerateSymmetricKey()
	require.NoError(t, err)

	encrypted, err := Encrypt(key, []byte("test"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(encrypted), NonceSize+4+TagSize)
}

func TestChannelKeyDerivationDeterministic(t *testing.T) {
	secret := []byte("shared-secret-between-peers")
	channelID := []byte("channel-123")

	key1 := DeriveChannelKey(secret, channelID)
	key2 := DeriveChannelKey(secret, channelID)
	assert.Equal(t, key1, key2)
}

func TestDifferentChannelsDifferentKeys(t *testing.T) {
	secret := []byte("shared-secret")
	key1 := DeriveChannelKey(secret, []byte("channel-1"))
	key2 := DeriveChannelKey(secret, []byte("channel-2"))
	assert.NotEqual(t, key1, key2)
}
