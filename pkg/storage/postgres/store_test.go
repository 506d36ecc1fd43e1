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

//go:build integration
// +build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/pkg/storage"
)

// newIntegrationStore connects to LIBERTE_TEST_DATABASE_URL, which must
// point at a scratch Postgres instance. Run with -tags integration.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("LIBERTE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LIBERTE_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestChannelLifecycle(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	ch := &storage.Channel{ID: uuid.New(), Name: "general", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateChannel(ctx, ch))

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, ch.Name, got.Name)

	require.NoError(t, s.StoreChannelKey(ctx, ch.ID, "deadbeef"))
	key, err := s.GetChannelKey(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, "deadbeef", key)

	ok, err := s.DeleteChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.GetChannel(ctx, ch.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestServerDeleteCascadesChannels(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	srv := &storage.Server{ID: uuid.New(), Name: "guild", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateServer(ctx, srv))

	ch := &storage.Channel{ID: uuid.New(), Name: "lobby", ServerID: &srv.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateChannel(ctx, ch))

	ok, err := s.DeleteServer(ctx, srv.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.GetChannel(ctx, ch.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReactionDedup(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := context.Background()

	ch := &storage.Channel{ID: uuid.New(), Name: "general", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateChannel(ctx, ch))

	msg := &storage.Message{ID: uuid.New(), ChannelID: ch.ID, EncryptedContent: []byte("ct"), Timestamp: time.Now().UTC()}
	require.NoError(t, s.InsertMessage(ctx, msg))

	first, err := s.AddReaction(ctx, msg.ID, ch.ID, "alice", "👍")
	require.NoError(t, err)

	second, err := s.AddReaction(ctx, msg.ID, ch.ID, "alice", "👍")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	reactions, err := s.GetReactionsForMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, reactions, 1)
}
