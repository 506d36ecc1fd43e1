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

package invite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/identity"
	"github.com/liberte-project/liberte/wire"
)

func TestInviteRoundtrip(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	channelID := wire.NewChannelID()
	channelKey := [32]byte{0xAB}

	token := Create(id, channelID, "test-channel", channelKey)
	code := token.Encode()

	decoded, err := Decode(code)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify())

	assert.Equal(t, channelID, decoded.Payload.ChannelID)
	assert.Equal(t, "test-channel", decoded.Payload.ChannelName)
	assert.Equal(t, channelKey, decoded.Payload.ChannelKey)
	var pubkey [32]byte
	copy(pubkey[:], id.PublicKeyBytes())
	assert.Equal(t, pubkey, decoded.Payload.InviterPubkey)
}

func TestInviteTamperedFails(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	token := Create(id, wire.NewChannelID(), "channel", [32]byte{})
	token.Payload.ChannelName = "hacked"

	assert.Error(t, token.Verify())
}

func TestInviteExpiredFails(t *testing.T) {
	id, err := identity.Generate()
	require.NoError(t, err)

	token := Create(id, wire.NewChannelID(), "channel", [32]byte{})
	token.Payload.ExpiresAt = time.Now().UTC().Add(-time.Second)
	// re-sign so the expiry check, not the signature check, is what fails
	token.Signature = id.Sign(encodePayload(token.Payload))

	assert.ErrorIs(t, token.Verify(), ErrExpired)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("not-valid-base64url!!")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
