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
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/invite"
	"github.com/liberte-project/liberte/pkg/storage"
	"github.com/liberte-project/liberte/wire"
)

// CreateChannel mints a fresh channel id and symmetric key, persists both
// locally, and subscribes to the channel's gossip topic.
func (b *Bridge) CreateChannel(ctx context.Context, name string) (wire.ChannelID, error) {
	channelID := wire.NewChannelID()
	key, err := crypto.GenerateSymmetricKey()
	if err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: generate channel key: %w", err)
	}

	if err := b.Store.CreateChannel(ctx, &storage.Channel{ID: uuid.UUID(channelID), Name: name, CreatedAt: time.Now().UTC()}); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: persist channel: %w", err)
	}
	if err := b.Store.StoreChannelKey(ctx, uuid.UUID(channelID), hex.EncodeToString(key[:])); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: persist channel key: %w", err)
	}
	if err := b.Keys.Store(channelID, key); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: cache channel key: %w", err)
	}

	b.subscribeIfOnline(channelID)
	return channelID, nil
}

// Invite mints a signed, time-limited invite token for channelID. The
// caller must already hold the channel's key.
func (b *Bridge) Invite(channelID wire.ChannelID, channelName string) (invite.Token, error) {
	key, err := b.Keys.Load(channelID)
	if err != nil {
		return invite.Token{}, fmt.Errorf("client: no key for channel: %w", err)
	}
	return invite.Create(b.Identity, channelID, channelName, key), nil
}

// JoinChannel verifies an invite token, learns the channel's shared
// secret, persists it, and subscribes to its gossip topic.
func (b *Bridge) JoinChannel(ctx context.Context, token invite.Token) (wire.ChannelID, error) {
	if err := token.Verify(); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: invalid invite: %w", err)
	}

	channelID := token.Payload.ChannelID
	if err := b.Store.CreateChannel(ctx, &storage.Channel{ID: uuid.UUID(channelID), Name: token.Payload.ChannelName, CreatedAt: time.Now().UTC()}); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: persist channel: %w", err)
	}
	if err := b.Store.StoreChannelKey(ctx, uuid.UUID(channelID), hex.EncodeToString(token.Payload.ChannelKey[:])); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: persist channel key: %w", err)
	}
	if err := b.Keys.Store(channelID, token.Payload.ChannelKey); err != nil {
		return wire.ChannelID{}, fmt.Errorf("client: cache channel key: %w", err)
	}

	b.subscribeIfOnline(channelID)
	return channelID, nil
}
