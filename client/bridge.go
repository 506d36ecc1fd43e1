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
	"strings"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/overlay"
	"github.com/liberte-project/liberte/wire"
)

const channelTopicPrefix = "channel:"

// Run subscribes to every channel the local key table already holds a key
// for, then drains the overlay's notification stream until ctx is
// cancelled or the node's notification channel is closed. It is meant to
// be run in its own goroutine.
func (b *Bridge) Run(ctx context.Context) {
	b.subscribeAllChannels()
	b.log.Info("client bridge started")

	notifs := b.Node.Notifications()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notifs:
			if !ok {
				b.log.Warn("client: overlay notification stream closed")
				return
			}
			b.handleNotification(n)
		}
	}
}

// subscribeIfOnline subscribes to a channel's gossip topic when a live
// overlay node is attached. Bridges built for one-shot CLI commands (create
// a channel, accept an invite) without starting the daemon have a nil
// Node; the next "run" picks up the new key via subscribeAllChannels.
func (b *Bridge) subscribeIfOnline(channelID wire.ChannelID) {
	if b.Node != nil {
		b.Node.Subscribe(channelID.Topic())
	}
}

func (b *Bridge) subscribeAllChannels() {
	ids := b.Keys.List()
	for _, id := range ids {
		b.Node.Subscribe(id.Topic())
	}
	b.log.Info("subscribed to existing channels", logger.Int("count", len(ids)))
}

func (b *Bridge) handleNotification(n overlay.Notification) {
	switch evt := n.(type) {
	case overlay.PeerConnected:
		b.log.Info("peer connected", logger.String("peer", evt.PeerID.String()))
		b.emit(EventPeerConnected, map[string]string{"peer_id": evt.PeerID.String()})

	case overlay.PeerDisconnected:
		b.log.Info("peer disconnected", logger.String("peer", evt.PeerID.String()))
		b.emit(EventPeerDisconnected, map[string]string{"peer_id": evt.PeerID.String()})

	case overlay.MessageReceived:
		b.handleIncomingMessage(evt.Topic, evt.Data)

	case overlay.RelayReservation:
		b.log.Info("relay reservation granted", logger.String("relay", evt.RelayPeer.String()))
	}
}

// handleIncomingMessage decodes one gossip payload. The payload is usually
// a plain wire.Message (chat content is encrypted inside ChatMessage, not
// at the transport level), but falls back to channel-key decryption first
// if the bytes don't parse as a bare wire message.
func (b *Bridge) handleIncomingMessage(topic string, data []byte) {
	channelIDStr, ok := strings.CutPrefix(topic, channelTopicPrefix)
	if !ok {
		return
	}
	parsed, err := uuid.Parse(channelIDStr)
	if err != nil {
		b.log.Warn("client: invalid channel id in topic", logger.String("topic", topic))
		return
	}
	channelID := wire.ChannelID(parsed)

	key, err := b.Keys.Load(channelID)
	if err != nil {
		return
	}

	msg, err := wire.Decode(data)
	if err != nil {
		plaintext, decErr := crypto.Decrypt(key, data)
		if decErr != nil {
			b.log.Debug("client: failed to parse or decrypt message", logger.Error(err))
			return
		}
		msg, err = wire.Decode(plaintext)
		if err != nil {
			b.log.Debug("client: failed to decode decrypted message", logger.Error(err))
			return
		}
	}

	b.dispatchWireMessage(channelID, msg)
}

func (b *Bridge) dispatchWireMessage(channelID wire.ChannelID, msg wire.Message) {
	switch m := msg.(type) {
	case wire.ChatMessage:
		b.handleChatMessage(channelID, m)
	case wire.TypingIndicator:
		b.emit(EventTypingIndicator, map[string]string{
			"channel_id": channelID.String(),
			"user_id":    string(m.Sender),
		})
	case wire.StatusUpdate:
		b.emit(EventStatusChanged, map[string]string{
			"user_id": string(m.Sender),
			"status":  m.Status,
		})
	case wire.MessageReaction:
		b.handleReaction(channelID, m)
	case wire.VoiceEvent:
		b.handleVoiceEvent(channelID, m)
	default:
		b.log.Debug("client: unhandled wire message type on bridge")
	}
}
