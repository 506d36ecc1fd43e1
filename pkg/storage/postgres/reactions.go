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

// AddReaction mirrors INSERT ... ON CONFLICT DO NOTHING semantics: a
// duplicate (message, user, emoji) reaction is silently returned as-is
// rather than erroring.
func (s *Store) AddReaction(ctx context.Context, messageID, channelID uuid.UUID, userPubkey, emoji string) (*storage.Reaction, error) {
	id := uuid.New()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO reactions (id, message_id, channel_id, user_pubkey, emoji, created_at)
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT (message_id, user_pubkey, emoji) DO UPDATE SET emoji = EXCLUDED.emoji
		 RETURNING id, message_id, channel_id, user_pubkey, emoji, created_at`,
		id, messageID, channelID, userPubkey, emoji)

	var r storage.Reaction
	if err := row.Scan(&r.ID, &r.MessageID, &r.ChannelID, &r.UserPubkey, &r.Emoji, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) RemoveReaction(ctx context.Context, messageID uuid.UUID, userPubkey, emoji string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM reactions WHERE message_id = $1 AND user_pubkey = $2 AND emoji = $3`,
		messageID, userPubkey, emoji)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetReactionsForMessage(ctx context.Context, messageID uuid.UUID) ([]*storage.Reaction, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, message_id, channel_id, user_pubkey, emoji, created_at
		 FROM reactions WHERE message_id = $1 ORDER BY created_at ASC`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReactions(rows)
}

func (s *Store) GetReactionsForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]*storage.Reaction, error) {
	out := make(map[uuid.UUID][]*storage.Reaction)
	if len(messageIDs) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, message_id, channel_id, user_pubkey, emoji, created_at
		 FROM reactions WHERE message_id = ANY($1) ORDER BY created_at ASC`, messageIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions, err := scanReactions(rows)
	if err != nil {
		return nil, err
	}
	for _, r := range reactions {
		out[r.MessageID] = append(out[r.MessageID], r)
	}
	return out, nil
}

func scanReactions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*storage.Reaction, error) {
	out := make([]*storage.Reaction, 0)
	for rows.Next() {
		var r storage.Reaction
		if err := rows.Scan(&r.ID, &r.MessageID, &r.ChannelID, &r.UserPubkey, &r.Emoji, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *Store) SetUserBio(ctx context.Context, pubkeyHex string, bio *string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (pubkey, bio, status) VALUES ($1, $2, 'online')
		 ON CONFLICT (pubkey) DO UPDATE SET bio = EXCLUDED.bio`,
		pubkeyHex, bio)
	return err
}

func (s *Store) SetUserStatus(ctx context.Context, pubkeyHex, status string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (pubkey, status) VALUES ($1, $2)
		 ON CONFLICT (pubkey) DO UPDATE SET status = EXCLUDED.status`,
		pubkeyHex, status)
	return err
}

func (s *Store) GetUserProfile(ctx context.Context, pubkeyHex string) (*string, string, error) {
	var bio *string
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT bio, status FROM users WHERE pubkey = $1`, pubkeyHex,
	).Scan(&bio, &status)
	if err != nil {
		return nil, "", mapNoRows(err)
	}
	return bio, status, nil
}
