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

// Package memory implements storage.Store entirely in-process, for tests
// and for running a client with no local database configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/pkg/storage"
)

// Store implements storage.Store with one RWMutex-guarded map per
// collection.
type Store struct {
	channelsMu sync.RWMutex
	channels   map[uuid.UUID]*storage.Channel

	channelKeysMu sync.RWMutex
	channelKeys   map[uuid.UUID]string

	messagesMu sync.RWMutex
	messages   map[uuid.UUID]*storage.Message

	serversMu sync.RWMutex
	servers   map[uuid.UUID]*storage.Server

	reactionsMu sync.RWMutex
	reactions   map[uuid.UUID]*storage.Reaction

	usersMu sync.RWMutex
	users   map[string]*userProfile

	blobsMu sync.RWMutex
	blobs   map[uuid.UUID]*storage.Blob
}

type userProfile struct {
	bio    *string
	status string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		channels:    make(map[uuid.UUID]*storage.Channel),
		channelKeys: make(map[uuid.UUID]string),
		messages:    make(map[uuid.UUID]*storage.Message),
		servers:     make(map[uuid.UUID]*storage.Server),
		reactions:   make(map[uuid.UUID]*storage.Reaction),
		users:       make(map[string]*userProfile),
		blobs:       make(map[uuid.UUID]*storage.Blob),
	}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// --- channels ---

func (s *Store) CreateChannel(ctx context.Context, channel *storage.Channel) error {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()
	cp := *channel
	s.channels[channel.ID] = &cp
	return nil
}

func (s *Store) GetChannel(ctx context.Context, id uuid.UUID) (*storage.Channel, error) {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (s *Store) ListChannels(ctx context.Context) ([]*storage.Channel, error) {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	out := make([]*storage.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		cp := *ch
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListChannelsForServer(ctx context.Context, serverID uuid.UUID) ([]*storage.Channel, error) {
	s.channelsMu.RLock()
	defer s.channelsMu.RUnlock()
	var out []*storage.Channel
	for _, ch := range s.channels {
		if ch.ServerID != nil && *ch.ServerID == serverID {
			cp := *ch
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) DeleteChannel(ctx context.Context, id uuid.UUID) (bool, error) {
	s.channelsMu.Lock()
	defer s.channelsMu.Unlock()
	if _, ok := s.channels[id]; !ok {
		return false, nil
	}
	delete(s.channels, id)
	return true, nil
}

func (s *Store) StoreChannelKey(ctx context.Context, channelID uuid.UUID, keyHex string) error {
	s.channelKeysMu.Lock()
	defer s.channelKeysMu.Unlock()
	s.channelKeys[channelID] = keyHex
	return nil
}

func (s *Store) GetChannelKey(ctx context.Context, channelID uuid.UUID) (string, error) {
	s.channelKeysMu.RLock()
	defer s.channelKeysMu.RUnlock()
	key, ok := s.channelKeys[channelID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return key, nil
}

// --- messages ---

func (s *Store) InsertMessage(ctx context.Context, message *storage.Message) error {
	s.messagesMu.Lock()
	defer s.messagesMu.Unlock()
	cp := *message
	cp.EncryptedContent = append([]byte(nil), message.EncryptedContent...)
	s.messages[message.ID] = &cp
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*storage.Message, error) {
	s.messagesMu.RLock()
	defer s.messagesMu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (s *Store) GetMessagesForChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*storage.Message, error) {
	s.messagesMu.RLock()
	defer s.messagesMu.RUnlock()

	var matched []*storage.Message
	for _, msg := range s.messages {
		if msg.ChannelID == channelID {
			cp := *msg
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	if offset >= len(matched) {
		return []*storage.Message{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// --- servers ---

func (s *Store) CreateServer(ctx context.Context, server *storage.Server) error {
	s.serversMu.Lock()
	defer s.serversMu.Unlock()
	cp := *server
	s.servers[server.ID] = &cp
	return nil
}

func (s *Store) GetServer(ctx context.Context, id uuid.UUID) (*storage.Server, error) {
	s.serversMu.RLock()
	defer s.serversMu.RUnlock()
	srv, ok := s.servers[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *srv
	return &cp, nil
}

func (s *Store) ListServers(ctx context.Context) ([]*storage.Server, error) {
	s.serversMu.RLock()
	defer s.serversMu.RUnlock()
	out := make([]*storage.Server, 0, len(s.servers))
	for _, srv := range s.servers {
		cp := *srv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) DeleteServer(ctx context.Context, id uuid.UUID) (bool, error) {
	s.serversMu.Lock()
	defer s.serversMu.Unlock()
	if _, ok := s.servers[id]; !ok {
		return false, nil
	}
	delete(s.servers, id)

	s.channelsMu.Lock()
	for chID, ch := range s.channels {
		if ch.ServerID != nil && *ch.ServerID == id {
			delete(s.channels, chID)
		}
	}
	s.channelsMu.Unlock()

	return true, nil
}

// --- reactions ---

func (s *Store) AddReaction(ctx context.Context, messageID, channelID uuid.UUID, userPubkey, emoji string) (*storage.Reaction, error) {
	s.reactionsMu.Lock()
	defer s.reactionsMu.Unlock()

	for _, r := range s.reactions {
		if r.MessageID == messageID && r.UserPubkey == userPubkey && r.Emoji == emoji {
			cp := *r
			return &cp, nil
		}
	}

	reaction := &storage.Reaction{
		ID:         uuid.New(),
		MessageID:  messageID,
		ChannelID:  channelID,
		UserPubkey: userPubkey,
		Emoji:      emoji,
		CreatedAt:  time.Now().UTC(),
	}
	s.reactions[reaction.ID] = reaction
	cp := *reaction
	return &cp, nil
}

func (s *Store) RemoveReaction(ctx context.Context, messageID uuid.UUID, userPubkey, emoji string) (bool, error) {
	s.reactionsMu.Lock()
	defer s.reactionsMu.Unlock()
	for id, r := range s.reactions {
		if r.MessageID == messageID && r.UserPubkey == userPubkey && r.Emoji == emoji {
			delete(s.reactions, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetReactionsForMessage(ctx context.Context, messageID uuid.UUID) ([]*storage.Reaction, error) {
	s.reactionsMu.RLock()
	defer s.reactionsMu.RUnlock()
	var out []*storage.Reaction
	for _, r := range s.reactions {
		if r.MessageID == messageID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetReactionsForMessages(ctx context.Context, messageIDs []uuid.UUID) (map[uuid.UUID][]*storage.Reaction, error) {
	out := make(map[uuid.UUID][]*storage.Reaction)
	for _, id := range messageIDs {
		reactions, _ := s.GetReactionsForMessage(ctx, id)
		if len(reactions) > 0 {
			out[id] = reactions
		}
	}
	return out, nil
}

// --- users ---

func (s *Store) SetUserBio(ctx context.Context, pubkeyHex string, bio *string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	profile := s.users[pubkeyHex]
	if profile == nil {
		profile = &userProfile{status: "online"}
		s.users[pubkeyHex] = profile
	}
	profile.bio = bio
	return nil
}

func (s *Store) SetUserStatus(ctx context.Context, pubkeyHex, status string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	profile := s.users[pubkeyHex]
	if profile == nil {
		profile = &userProfile{}
		s.users[pubkeyHex] = profile
	}
	profile.status = status
	return nil
}

func (s *Store) GetUserProfile(ctx context.Context, pubkeyHex string) (*string, string, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	profile, ok := s.users[pubkeyHex]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return profile.bio, profile.status, nil
}

// --- blobs ---

func (s *Store) CreateBlob(ctx context.Context, blob *storage.Blob) error {
	s.blobsMu.Lock()
	defer s.blobsMu.Unlock()
	cp := *blob
	s.blobs[blob.ID] = &cp
	return nil
}

func (s *Store) GetBlob(ctx context.Context, id uuid.UUID) (*storage.Blob, error) {
	s.blobsMu.RLock()
	defer s.blobsMu.RUnlock()
	blob, ok := s.blobs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *blob
	return &cp, nil
}

func (s *Store) MarkBlobUploaded(ctx context.Context, id uuid.UUID) error {
	s.blobsMu.Lock()
	defer s.blobsMu.Unlock()
	blob, ok := s.blobs[id]
	if !ok {
		return storage.ErrNotFound
	}
	blob.IsUploaded = true
	return nil
}
