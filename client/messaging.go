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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/pkg/storage"
	"github.com/liberte-project/liberte/wire"
)

// ErrOffline is returned by operations that publish to the overlay when
// the Bridge was built without a live node (a one-shot CLI invocation that
// never started the daemon).
var ErrOffline = errors.New("client: overlay node not running")

// SendChatMessage encrypts plaintext under the channel's key, publishes it
// to the channel's gossip topic, and stores it locally as already-sent
// history (an incoming copy of the sender's own message is ignored by
// handleChatMessage).
func (b *Bridge) SendChatMessage(ctx context.Context, channelID wire.ChannelID, plaintext string) (uuid.UUID, error) {
	if b.Node == nil {
		return uuid.Nil, ErrOffline
	}
	key, err := b.Keys.Load(channelID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("client: no key for channel: %w", err)
	}

	encrypted, err := crypto.Encrypt(key, []byte(plaintext))
	if err != nil {
		return uuid.Nil, fmt.Errorf("client: encrypt message: %w", err)
	}

	msgID := uuid.New()
	now := time.Now().UTC()
	chat := wire.ChatMessage{
		Sender:           b.Identity.UserID(),
		ChannelID:        channelID,
		EncryptedContent: encrypted,
		Timestamp:        now,
		MessageID:        msgID,
	}

	encoded, err := wire.Encode(chat)
	if err != nil {
		return uuid.Nil, fmt.Errorf("client: encode message: %w", err)
	}
	b.Node.Publish(channelID.Topic(), encoded)

	var senderPubkey [32]byte
	copy(senderPubkey[:], b.Identity.PublicKeyBytes())
	if err := b.Store.InsertMessage(ctx, &storage.Message{
		ID:               msgID,
		ChannelID:        uuid.UUID(channelID),
		SenderPubkey:     senderPubkey,
		EncryptedContent: encrypted,
		Timestamp:        now,
	}); err != nil {
		b.log.Warn("client: failed to store own message", logger.Error(err))
	}

	return msgID, nil
}

// SendTyping publishes a typing indicator for channelID. Typing indicators
// are not stored; they are purely a live presence signal.
func (b *Bridge) SendTyping(channelID wire.ChannelID) error {
	if b.Node == nil {
		return ErrOffline
	}
	indicator := wire.TypingIndicator{
		Sender:    b.Identity.UserID(),
		ChannelID: channelID,
		Timestamp: time.Now().UTC(),
	}
	encoded, err := wire.Encode(indicator)
	if err != nil {
		return fmt.Errorf("client: encode typing indicator: %w", err)
	}
	b.Node.Publish(channelID.Topic(), encoded)
	return nil
}

// React publishes an add/remove emoji reaction on messageID and updates
// local storage optimistically; a reaction echoed back by a peer is
// idempotent against AddReaction's upsert semantics.
func (b *Bridge) React(ctx context.Context, channelID wire.ChannelID, messageID uuid.UUID, emoji string, remove bool) error {
	if b.Node == nil {
		return ErrOffline
	}
	reaction := wire.MessageReaction{
		Sender:    b.Identity.UserID(),
		ChannelID: channelID,
		MessageID: messageID,
		Emoji:     emoji,
		Timestamp: time.Now().UTC(),
		Removed:   remove,
	}
	encoded, err := wire.Encode(reaction)
	if err != nil {
		return fmt.Errorf("client: encode reaction: %w", err)
	}
	b.Node.Publish(channelID.Topic(), encoded)

	userHex := string(b.Identity.UserID())
	if remove {
		_, err = b.Store.RemoveReaction(ctx, messageID, userHex, emoji)
	} else {
		_, err = b.Store.AddReaction(ctx, messageID, uuid.UUID(channelID), userHex, emoji)
	}
	return err
}

func (b *Bridge) handleChatMessage(channelID wire.ChannelID, chat wire.ChatMessage) {
	if chat.Sender == b.Identity.UserID() {
		return
	}

	var senderPubkey [32]byte
	pubBytes, err := hexDecodeUserID(chat.Sender)
	if err == nil {
		copy(senderPubkey[:], pubBytes)
	}

	msg := &storage.Message{
		ID:               chat.MessageID,
		ChannelID:        uuid.UUID(channelID),
		SenderPubkey:     senderPubkey,
		EncryptedContent: chat.EncryptedContent,
		Timestamp:        chat.Timestamp,
	}

	if err := b.Store.InsertMessage(context.Background(), msg); err != nil {
		b.log.Debug("client: failed to store incoming message (may be duplicate)", logger.Error(err))
	}

	b.log.Info("received message from peer",
		logger.String("message_id", chat.MessageID.String()),
		logger.String("channel_id", channelID.String()),
	)
	b.emit(EventNewMessage, map[string]string{
		"channel_id": channelID.String(),
		"sender":     string(chat.Sender),
		"message_id": chat.MessageID.String(),
		"timestamp":  chat.Timestamp.Format(time.RFC3339),
	})
}

func (b *Bridge) handleReaction(channelID wire.ChannelID, reaction wire.MessageReaction) {
	userHex := string(reaction.Sender)
	action := "add"
	var err error
	if reaction.Removed {
		action = "remove"
		_, err = b.Store.RemoveReaction(context.Background(), reaction.MessageID, userHex, reaction.Emoji)
	} else {
		_, err = b.Store.AddReaction(context.Background(), reaction.MessageID, uuid.UUID(channelID), userHex, reaction.Emoji)
	}
	if err != nil {
		b.log.Debug("client: failed to apply incoming reaction", logger.Error(err))
	}

	b.emit(EventMessageReaction, map[string]string{
		"channel_id": channelID.String(),
		"message_id": reaction.MessageID.String(),
		"user_id":    userHex,
		"emoji":      reaction.Emoji,
		"action":     action,
	})
}

func (b *Bridge) handleVoiceEvent(channelID wire.ChannelID, evt wire.VoiceEvent) {
	userHex := string(evt.Sender)
	switch evt.Kind {
	case wire.VoiceJoin:
		b.emit(EventVoicePeerJoined, map[string]string{"channel_id": channelID.String(), "user_id": userHex})
	case wire.VoiceLeave:
		b.emit(EventVoicePeerLeft, map[string]string{"channel_id": channelID.String(), "user_id": userHex})
	case wire.VoiceMute:
		b.emit(EventVoicePeerMuted, map[string]string{"channel_id": channelID.String(), "user_id": userHex, "muted": "true"})
	case wire.VoiceUnmute:
		b.emit(EventVoicePeerMuted, map[string]string{"channel_id": channelID.String(), "user_id": userHex, "muted": "false"})
	}
}
