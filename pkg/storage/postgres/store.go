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

// Package postgres implements storage.Store on top of a Postgres
// connection pool, for deployments that want durable, shared client
// storage instead of the in-memory store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liberte-project/liberte/pkg/storage"
)

// Store implements storage.Store backed by a pgxpool.Pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to connString (a standard libpq connection string),
// applies the schema, and returns a ready Store.
func NewStore(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("postgres: apply schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS servers (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	owner_pubkey BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS channels (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	server_id UUID REFERENCES servers(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS channel_keys (
	channel_id UUID PRIMARY KEY REFERENCES channels(id) ON DELETE CASCADE,
	key_hex TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY,
	channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
	sender_pubkey BYTEA NOT NULL,
	encrypted_content BYTEA NOT NULL,
	"timestamp" TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id, "timestamp" DESC);

CREATE TABLE IF NOT EXISTS reactions (
	id UUID PRIMARY KEY,
	message_id UUID NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	channel_id UUID NOT NULL,
	user_pubkey TEXT NOT NULL,
	emoji TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(message_id, user_pubkey, emoji)
);

CREATE TABLE IF NOT EXISTS users (
	pubkey TEXT PRIMARY KEY,
	bio TEXT,
	status TEXT NOT NULL DEFAULT 'online'
);

CREATE TABLE IF NOT EXISTS blobs (
	id UUID PRIMARY KEY,
	file_name TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	blake3_hash TEXT NOT NULL,
	is_uploaded BOOLEAN NOT NULL DEFAULT FALSE,
	local_path TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
