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

package overlay

import (
	"strings"
	"testing"

	pubsub_pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCircuitAddr(t *testing.T) {
	relayAddr := testAddr(t)
	relayID := testPeerID(t)

	circuit := BuildCircuitAddr(relayAddr, relayID)
	require.NotNil(t, circuit)
	assert.True(t, strings.HasSuffix(circuit.String(), "/p2p-circuit"))
	assert.Contains(t, circuit.String(), relayID.String())
}

func TestBuildRelayedAddr(t *testing.T) {
	relayAddr := testAddr(t)
	relayID := testPeerID(t)
	targetID := testPeerID(t)

	relayed := BuildRelayedAddr(relayAddr, relayID, targetID)
	require.NotNil(t, relayed)
	assert.Contains(t, relayed.String(), "/p2p-circuit/p2p/"+targetID.String())
}

func TestStableMessageIDDeterministic(t *testing.T) {
	msg := &pubsub_pb.Message{Data: []byte("hello"), From: []byte("peer-a")}
	id1 := stableMessageID(msg)
	id2 := stableMessageID(msg)
	assert.Equal(t, id1, id2)

	other := &pubsub_pb.Message{Data: []byte("hello"), From: []byte("peer-b")}
	assert.NotEqual(t, id1, stableMessageID(other))
}
