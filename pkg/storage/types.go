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

package storage

import (
	"time"

	"github.com/google/uuid"
)

// User is a known peer's profile, cached locally by pubkey.
type User struct {
	Pubkey      [32]byte  `json:"pubkey"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarHash  string    `json:"avatar_hash,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Channel is a joined channel's local record.
type Channel struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ServerID  *uuid.UUID `json:"server_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Message is a locally persisted channel message. EncryptedContent is
// stored exactly as received off the wire; decryption happens at read
// time, never at rest.
type Message struct {
	ID               uuid.UUID `json:"id"`
	ChannelID        uuid.UUID `json:"channel_id"`
	SenderPubkey     [32]byte  `json:"sender_pubkey"`
	EncryptedContent []byte    `json:"encrypted_content"`
	Timestamp        time.Time `json:"timestamp"`
}

// Server is a community server's local record.
type Server struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	OwnerPubkey [32]byte  `json:"owner_pubkey"`
	CreatedAt   time.Time `json:"created_at"`
}

// Blob is a locally-tracked attachment: metadata plus whether it has been
// pushed to a relay server yet.
type Blob struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	Blake3Hash  string    `json:"blake3_hash"`
	IsUploaded  bool      `json:"is_uploaded"`
	LocalPath   string    `json:"local_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reaction is an emoji reaction attached to a message.
type Reaction struct {
	ID          uuid.UUID `json:"id"`
	MessageID   uuid.UUID `json:"message_id"`
	ChannelID   uuid.UUID `json:"channel_id"`
	UserPubkey  string    `json:"user_pubkey"`
	Emoji       string    `json:"emoji"`
	CreatedAt   time.Time `json:"created_at"`
}
