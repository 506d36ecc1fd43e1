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

// Package storage defines the client's local persistence surface --
// channels, messages, servers, reactions, and blob bookkeeping -- with an
// in-memory implementation for tests and a Postgres-backed one for
// production.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get-style methods when no record matches.
var ErrNotFound = errors.New("storage: not found")

// ChannelStore persists joined channels and their symmetric keys.
type ChannelStore interface {
	CreateChannel(ctx context.Context, channel *Channel) error
	GetChannel(ctx context.Context, id uuid.UUID) (*Channel, error)
	ListChannels(ctx context.Context) ([]*Channel, error)
	ListChannelsForServer(ctx context.Context, serverID uuid.UUID) ([]*Channel, error)
	DeleteChannel(ctx context.Context, id uuid.UUID) (bool, error)

	StoreChannelKey(ctx context.Context, channelID uuid.UUID, keyHex string) error
	GetChannelKey(ctx context.Context, channelID uuid.UUID) (string, error)
}

// MessageStore persists channel message history.
type MessageStore interface {
	InsertMessage(ctx context.Context, message *Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	GetMessagesForChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*Message, error)
}

// ServerStore persists community servers.
type ServerStore interface {
	CreateServer(ctx context.Context, server *Server) error
	GetServer(ctx context.Context, id uuid.UUID) (*Server, error)
	ListServers(ctx context.Context) ([]*Server, error)
	DeleteServer(ctx context.Context, id uuid.UUID) (bool, error)
}

// ReactionStore persists emoji reactions on messages.
type ReactionStore interface {
	AddReaction(ctx context.Context, messageID, channelID uuid.UUID, userPubkey, emoji string) (*Reaction, error)
	RemoveReaction(ctx context.Context, messageID uuid.UUID, userPubkey, emoji string) (bool, error)
	GetReactionsForMessage(ctx context.Context, messageID uuid.UUID) ([]*Reaction, error)
	GetReactionsForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]*Reaction, error)
}

// UserStore persists locally known peer profiles.
type UserStore interface {
	SetUserBio(ctx context.Context, pubkeyHex string, bio *string) error
	SetUserStatus(ctx context.Context, pubkeyHex, status string) error
	GetUserProfile(ctx context.Context, pubkeyHex string) (bio *string, status string, err error)
}

// BlobStore tracks locally known attachments and their upload state.
type BlobStore interface {
	CreateBlob(ctx context.Context, blob *Blob) error
	GetBlob(ctx context.Context, id uuid.UUID) (*Blob, error)
	MarkBlobUploaded(ctx context.Context, id uuid.UUID) error
}

// Store combines every local persistence surface the client needs.
type Store interface {
	ChannelStore
	MessageStore
	ServerStore
	ReactionStore
	UserStore
	BlobStore

	Close() error
	Ping(ctx context.Context) error
}
