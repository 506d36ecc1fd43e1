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

package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/channelkeys"
	"github.com/liberte-project/liberte/identity"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/overlay"
	"github.com/liberte-project/liberte/pkg/storage/memory"
	"github.com/liberte-project/liberte/wire"
)

// fakeOverlay is a minimal in-process stand-in for *overlay.Node: it
// records every Publish call so a test can manually redeliver the bytes
// to another Bridge's notifCh, simulating what a real gossipsub mesh
// would forward between two connected peers.
type fakeOverlay struct {
	mu         sync.Mutex
	published  []publishedMsg
	subscribed []string
	notifCh    chan overlay.Notification
}

type publishedMsg struct {
	Topic string
	Data  []byte
}

func newFakeOverlay() *fakeOverlay {
	return &fakeOverlay{notifCh: make(chan overlay.Notification, 16)}
}

func (f *fakeOverlay) Publish(topic string, data []byte) {
	f.mu.Lock()
	f.published = append(f.published, publishedMsg{Topic: topic, Data: data})
	f.mu.Unlock()
}

func (f *fakeOverlay) Subscribe(topic string) {
	f.mu.Lock()
	f.subscribed = append(f.subscribed, topic)
	f.mu.Unlock()
}

func (f *fakeOverlay) Notifications() <-chan overlay.Notification { return f.notifCh }

func newTestBridge(t *testing.T) (*Bridge, *fakeOverlay) {
	t.Helper()
	id, err := identity.Generate()
	require.NoError(t, err)

	ov := newFakeOverlay()
	bridge := NewBridge(id, ov, channelkeys.NewMemoryTable(), memory.NewStore(), logger.NewDefaultLogger())
	return bridge, ov
}

func TestCreateChannelPersistsKeyAndSubscribes(t *testing.T) {
	bridge, ov := newTestBridge(t)
	ctx := context.Background()

	channelID, err := bridge.CreateChannel(ctx, "general")
	require.NoError(t, err)
	require.True(t, bridge.Keys.Exists(channelID))
	require.Contains(t, ov.subscribed, channelID.Topic())

	keyHex, err := bridge.Store.GetChannelKey(ctx, uuid.UUID(channelID))
	require.NoError(t, err)
	require.NotEmpty(t, keyHex)
}

func TestInviteRoundTripJoinsChannel(t *testing.T) {
	inviter, _ := newTestBridge(t)
	joiner, _ := newTestBridge(t)
	ctx := context.Background()

	channelID, err := inviter.CreateChannel(ctx, "general")
	require.NoError(t, err)

	token, err := inviter.Invite(channelID, "general")
	require.NoError(t, err)

	joined, err := joiner.JoinChannel(ctx, token)
	require.NoError(t, err)
	require.Equal(t, channelID, joined)
	require.True(t, joiner.Keys.Exists(joined))
}

func TestSendChatMessagePublishesAndStoresLocally(t *testing.T) {
	bridge, ov := newTestBridge(t)
	ctx := context.Background()

	channelID, err := bridge.CreateChannel(ctx, "general")
	require.NoError(t, err)

	msgID, err := bridge.SendChatMessage(ctx, channelID, "hello")
	require.NoError(t, err)

	require.Len(t, ov.published, 1)
	require.Equal(t, channelID.Topic(), ov.published[0].Topic)

	stored, err := bridge.Store.GetMessage(ctx, msgID)
	require.NoError(t, err)
	require.NotEqual(t, "hello", string(stored.EncryptedContent)) // stored ciphertext, not plaintext
}

func TestHandleIncomingMessageFromPeerEmitsEvent(t *testing.T) {
	sender, senderOverlay := newTestBridge(t)
	receiver, recvOverlay := newTestBridge(t)
	ctx := context.Background()

	channelID, err := sender.CreateChannel(ctx, "general")
	require.NoError(t, err)
	token, err := sender.Invite(channelID, "general")
	require.NoError(t, err)
	_, err = receiver.JoinChannel(ctx, token)
	require.NoError(t, err)

	go receiver.Run(contextWithTimeout(t))

	msgID, err := sender.SendChatMessage(ctx, channelID, "hi there")
	require.NoError(t, err)
	require.Len(t, senderOverlay.published, 1)

	// Deliver the published bytes to the receiver as if gossip forwarded them.
	recvOverlay.notifCh <- overlay.MessageReceived{Topic: channelID.Topic(), Data: senderOverlay.published[0].Data}

	select {
	case evt := <-receiver.Events():
		require.Equal(t, EventNewMessage, evt.Kind)
		require.Equal(t, msgID.String(), evt.Fields["message_id"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for new_message event")
	}
}

func contextWithTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestChannelIDTopicRoundTrip(t *testing.T) {
	id := wire.NewChannelID()
	require.Equal(t, "channel:"+id.String(), id.Topic())
}
