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

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/pkg/storage"
)

func TestChannelCRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	ch := &storage.Channel{ID: uuid.New(), Name: "general", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateChannel(ctx, ch))

	got, err := s.GetChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, "general", got.Name)

	require.NoError(t, s.StoreChannelKey(ctx, ch.ID, "abc123"))
	key, err := s.GetChannelKey(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, "abc123", key)

	ok, err := s.DeleteChannel(ctx, ch.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.GetChannel(ctx, ch.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetChannelNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.GetChannel(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListChannelsForServerFiltersAndSorts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	srv := uuid.New()
	other := uuid.New()

	require.NoError(t, s.CreateChannel(ctx, &storage.Channel{ID: uuid.New(), Name: "zeta", ServerID: &srv, CreatedAt: time.Now()}))
	require.NoError(t, s.CreateChannel(ctx, &storage.Channel{ID: uuid.New(), Name: "alpha", ServerID: &srv, CreatedAt: time.Now()}))
	require.NoError(t, s.CreateChannel(ctx, &storage.Channel{ID: uuid.New(), Name: "other", ServerID: &other, CreatedAt: time.Now()}))

	out, err := s.ListChannelsForServer(ctx, srv)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "alpha", out[0].Name)
	require.Equal(t, "zeta", out[1].Name)
}

func TestDeleteServerCascadesChannels(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	srv := &storage.Server{ID: uuid.New(), Name: "guild", CreatedAt: time.Now()}
	require.NoError(t, s.CreateServer(ctx, srv))

	ch := &storage.Channel{ID: uuid.New(), Name: "lobby", ServerID: &srv.ID, CreatedAt: time.Now()}
	require.NoError(t, s.CreateChannel(ctx, ch))

	ok, err := s.DeleteServer(ctx, srv.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = s.GetChannel(ctx, ch.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMessagePagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	channelID := uuid.New()

	base := time.Now()
	for i := 0; i < 5; i++ {
		msg := &storage.Message{
			ID:               uuid.New(),
			ChannelID:        channelID,
			EncryptedContent: []byte("ct"),
			Timestamp:        base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.InsertMessage(ctx, msg))
	}

	page1, err := s.GetMessagesForChannel(ctx, channelID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	// newest first
	require.True(t, page1[0].Timestamp.After(page1[1].Timestamp))

	page2, err := s.GetMessagesForChannel(ctx, channelID, 2, 4)
	require.NoError(t, err)
	require.Len(t, page2, 1)
}

func TestAddReactionDeduplicates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	messageID := uuid.New()
	channelID := uuid.New()

	first, err := s.AddReaction(ctx, messageID, channelID, "alice", "👍")
	require.NoError(t, err)

	second, err := s.AddReaction(ctx, messageID, channelID, "alice", "👍")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	reactions, err := s.GetReactionsForMessage(ctx, messageID)
	require.NoError(t, err)
	require.Len(t, reactions, 1)

	ok, err := s.RemoveReaction(ctx, messageID, "alice", "👍")
	require.NoError(t, err)
	require.True(t, ok)

	reactions, err = s.GetReactionsForMessage(ctx, messageID)
	require.NoError(t, err)
	require.Empty(t, reactions)
}

func TestGetReactionsForMessagesGroupsByMessage(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	msgA, msgB := uuid.New(), uuid.New()
	channelID := uuid.New()

	_, err := s.AddReaction(ctx, msgA, channelID, "alice", "👍")
	require.NoError(t, err)
	_, err = s.AddReaction(ctx, msgB, channelID, "bob", "🎉")
	require.NoError(t, err)

	grouped, err := s.GetReactionsForMessages(ctx, []uuid.UUID{msgA, msgB})
	require.NoError(t, err)
	require.Len(t, grouped[msgA], 1)
	require.Len(t, grouped[msgB], 1)
}

func TestUserProfile(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, _, err := s.GetUserProfile(ctx, "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)

	bio := "hello world"
	require.NoError(t, s.SetUserBio(ctx, "alice", &bio))
	require.NoError(t, s.SetUserStatus(ctx, "alice", "away"))

	gotBio, status, err := s.GetUserProfile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, bio, *gotBio)
	require.Equal(t, "away", status)
}

func TestBlobLifecycle(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	blob := &storage.Blob{ID: uuid.New(), FileName: "avatar.png", FileSize: 1024, Blake3Hash: "deadbeef", LocalPath: "/tmp/avatar.png", CreatedAt: time.Now()}
	require.NoError(t, s.CreateBlob(ctx, blob))

	got, err := s.GetBlob(ctx, blob.ID)
	require.NoError(t, err)
	require.False(t, got.IsUploaded)

	require.NoError(t, s.MarkBlobUploaded(ctx, blob.ID))
	got, err = s.GetBlob(ctx, blob.ID)
	require.NoError(t, err)
	require.True(t, got.IsUploaded)

	err = s.MarkBlobUploaded(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}
