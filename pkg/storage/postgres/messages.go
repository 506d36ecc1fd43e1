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

package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/pkg/storage"
)

func (s *Store) InsertMessage(ctx context.Context, message *storage.Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, channel_id, sender_pubkey, encrypted_content, "timestamp")
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.ChannelID, message.SenderPubkey[:], message.EncryptedContent, message.Timestamp)
	return err
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*storage.Message, error) {
	var msg storage.Message
	var sender []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, channel_id, sender_pubkey, encrypted_content, "timestamp" FROM messages WHERE id = $1`, id,
	).Scan(&msg.ID, &msg.ChannelID, &sender, &msg.EncryptedContent, &msg.Timestamp)
	if err != nil {
		return nil, mapNoRows(err)
	}
	copy(msg.SenderPubkey[:], sender)
	return &msg, nil
}

func (s *Store) GetMessagesForChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*storage.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, channel_id, sender_pubkey, encrypted_content, "timestamp"
		 FROM messages WHERE channel_id = $1
		 ORDER BY "timestamp" DESC
		 LIMIT $2 OFFSET $3`,
		channelID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*storage.Message, 0)
	for rows.Next() {
		var msg storage.Message
		var sender []byte
		if err := rows.Scan(&msg.ID, &msg.ChannelID, &sender, &msg.EncryptedContent, &msg.Timestamp); err != nil {
			return nil, err
		}
		copy(msg.SenderPubkey[:], sender)
		out = append(out, &msg)
	}
	return out, rows.Err()
}
