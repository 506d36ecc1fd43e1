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

package sfu

import (
	"testing"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/internal/logger"
)

func TestRoomJoinLeave(t *testing.T) {
	m := NewManager(logger.NewDefaultLogger())
	roomID := m.CreateRoom()
	peerID, err := test.RandPeerID()
	require.NoError(t, err)

	_ = m.JoinRoom(roomID, peerID)
	assert.Equal(t, 1, m.ParticipantCount(roomID))

	m.LeaveRoom(roomID, peerID)
	assert.Len(t, m.ListRooms(), 0)
}

func TestFrameRouting(t *testing.T) {
	m := NewManager(logger.NewDefaultLogger())
	roomID := m.CreateRoom()
	sender, err := test.RandPeerID()
	require.NoError(t, err)
	receiver, err := test.RandPeerID()
	require.NoError(t, err)

	_ = m.JoinRoom(roomID, sender)
	receiverCh := m.JoinRoom(roomID, receiver)

	frame := EncryptedFrame{Sender: sender, Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	m.RouteFrame(roomID, frame)

	select {
	case got := <-receiverCh:
		assert.Equal(t, frame.Payload, got.Payload)
	default:
		t.Fatal("expected a routed frame")
	}
}

func TestFrameNotRoutedToSender(t *testing.T) {
	m := NewManager(logger.NewDefaultLogger())
	roomID := m.CreateRoom()
	sender, err := test.RandPeerID()
	require.NoError(t, err)

	senderCh := m.JoinRoom(roomID, sender)
	m.RouteFrame(roomID, EncryptedFrame{Sender: sender, Payload: []byte{1}})

	select {
	case <-senderCh:
		t.Fatal("sender should not receive its own frame")
	default:
	}
}

func TestRouteFrameToNonexistentRoomIsNoop(t *testing.T) {
	m := NewManager(logger.NewDefaultLogger())
	peerID, err := test.RandPeerID()
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RouteFrame(uuid.UUID{}, EncryptedFrame{Sender: peerID, Payload: []byte{1}})
	})
}

func TestDropsFrameWhenQueueFull(t *testing.T) {
	m := NewManager(logger.NewDefaultLogger())
	roomID := m.CreateRoom()
	sender, err := test.RandPeerID()
	require.NoError(t, err)
	receiver, err := test.RandPeerID()
	require.NoError(t, err)

	_ = m.JoinRoom(roomID, sender)
	receiverCh := m.JoinRoom(roomID, receiver)

	for i := 0; i < frameBufferSize+10; i++ {
		m.RouteFrame(roomID, EncryptedFrame{Sender: sender, Payload: []byte{byte(i)}})
	}
	assert.Equal(t, 2, m.ParticipantCount(roomID))
	assert.Len(t, receiverCh, frameBufferSize)
}
