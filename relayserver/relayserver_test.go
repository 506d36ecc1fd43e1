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

package relayserver

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/internal/logger"
)

func TestSpawnAndClose(t *testing.T) {
	var seed [32]byte
	_, err := rand.Read(seed[:])
	require.NoError(t, err)

	srv, err := Spawn(context.Background(), seed, "/ip4/127.0.0.1/tcp/0", logger.NewDefaultLogger())
	require.NoError(t, err)
	defer srv.Close()

	assert.NotEmpty(t, srv.PeerID())
}

func TestSpawnIsDeterministicForSameSeed(t *testing.T) {
	var seed [32]byte
	_, err := rand.Read(seed[:])
	require.NoError(t, err)

	srv1, err := Spawn(context.Background(), seed, "/ip4/127.0.0.1/tcp/0", logger.NewDefaultLogger())
	require.NoError(t, err)
	defer srv1.Close()

	srv2, err := Spawn(context.Background(), seed, "/ip4/127.0.0.1/tcp/0", logger.NewDefaultLogger())
	require.NoError(t, err)
	defer srv2.Close()

	assert.Equal(t, srv1.PeerID(), srv2.PeerID())
}
