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

func (s *Store) CreateServer(ctx context.Context, server *storage.Server) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO servers (id, name, owner_pubkey, created_at) VALUES ($1, $2, $3, $4)`,
		server.ID, server.Name, server.OwnerPubkey[:], server.CreatedAt)
	return err
}

func (s *Store) GetServer(ctx context.Context, id uuid.UUID) (*storage.Server, error) {
	var srv storage.Server
	var owner []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_pubkey, created_at FROM servers WHERE id = $1`, id,
	).Scan(&srv.ID, &srv.Name, &owner, &srv.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	copy(srv.OwnerPubkey[:], owner)
	return &srv, nil
}

func (s *Store) ListServers(ctx context.Context) ([]*storage.Server, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, owner_pubkey, created_at FROM servers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*storage.Server, 0)
	for rows.Next() {
		var srv storage.Server
		var owner []byte
		if err := rows.Scan(&srv.ID, &srv.Name, &owner, &srv.CreatedAt); err != nil {
			return nil, err
		}
		copy(srv.OwnerPubkey[:], owner)
		out = append(out, &srv)
	}
	return out, rows.Err()
}

// DeleteServer removes a server; channels referencing it cascade via the
// channels.server_id foreign key's ON DELETE CASCADE.
func (s *Store) DeleteServer(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM servers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
