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

func (s *Store) CreateChannel(ctx context.Context, channel *storage.Channel) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO channels (id, name, server_id, created_at) VALUES ($1, $2, $3, $4)`,
		channel.ID, channel.Name, channel.ServerID, channel.CreatedAt)
	return err
}

func (s *Store) GetChannel(ctx context.Context, id uuid.UUID) (*storage.Channel, error) {
	var ch storage.Channel
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, server_id, created_at FROM channels WHERE id = $1`, id,
	).Scan(&ch.ID, &ch.Name, &ch.ServerID, &ch.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &ch, nil
}

func (s *Store) ListChannels(ctx context.Context) ([]*storage.Channel, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, server_id, created_at FROM channels ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*storage.Channel
	for rows.Next() {
		var ch storage.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.ServerID, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ch)
	}
	return out, rows.Err()
}

func (s *Store) ListChannelsForServer(ctx context.Context, serverID uuid.UUID) ([]*storage.Channel, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, server_id, created_at FROM channels WHERE server_id = $1 ORDER BY name ASC`, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*storage.Channel
	for rows.Next() {
		var ch storage.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.ServerID, &ch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &ch)
	}
	return out, rows.Err()
}

func (s *Store) DeleteChannel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) StoreChannelKey(ctx context.Context, channelID uuid.UUID, keyHex string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO channel_keys (channel_id, key_hex) VALUES ($1, $2)
		 ON CONFLICT (channel_id) DO UPDATE SET key_hex = EXCLUDED.key_hex`,
		channelID, keyHex)
	return err
}

func (s *Store) GetChannelKey(ctx context.Context, channelID uuid.UUID) (string, error) {
	var key string
	err := s.pool.QueryRow(ctx, `SELECT key_hex FROM channel_keys WHERE channel_id = $1`, channelID).Scan(&key)
	if err != nil {
		return "", mapNoRows(err)
	}
	return key, nil
}
