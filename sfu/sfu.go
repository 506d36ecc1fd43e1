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

// Package sfu blindly forwards encrypted voice frames between the
// participants of a room. It never decrypts, reshapes, or inspects a
// frame's payload; end-to-end encryption is the client's responsibility
// and stays intact through the server.
package sfu

import (
	"sync"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/liberte-project/liberte/internal/logger"
)

// frameBufferSize bounds each participant's inbound frame queue.
const frameBufferSize = 256

// EncryptedFrame is an opaque, already-encrypted media frame.
type EncryptedFrame struct {
	Sender  peer.ID
	Payload []byte
}

// Room tracks a voice room's participants and their inbound frame queues.
type Room struct {
	ID           uuid.UUID
	log          logger.Logger
	mu           sync.RWMutex
	participants map[peer.ID]chan EncryptedFrame
}

func newRoom(id uuid.UUID, log logger.Logger) *Room {
	return &Room{
		ID:           id,
		log:          log,
		participants: make(map[peer.ID]chan EncryptedFrame),
	}
}

// Join inserts peerID, returning its inbound frame receiver. Re-joining an
// already-present peer replaces its queue.
func (r *Room) Join(peerID peer.ID) <-chan EncryptedFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan EncryptedFrame, frameBufferSize)
	r.participants[peerID] = ch
	r.log.Info("sfu: participant joined room", logger.String("room", r.ID.String()), logger.String("peer", peerID.String()), logger.Int("participants", len(r.participants)))
	return ch
}

// Leave removes peerID from the room.
func (r *Room) Leave(peerID peer.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.participants[peerID]; ok {
		close(ch)
		delete(r.participants, peerID)
	}
	r.log.Info("sfu: participant left room", logger.String("room", r.ID.String()), logger.String("peer", peerID.String()), logger.Int("participants", len(r.participants)))
}

// RouteFrame enqueues frame on every participant's queue except the
// sender's own. A full queue drops the frame for that participant;
// backpressure never blocks the router.
func (r *Room) RouteFrame(frame EncryptedFrame) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for peerID, ch := range r.participants {
		if peerID == frame.Sender {
			continue
		}
		select {
		case ch <- frame:
		default:
			r.log.Debug("sfu: dropping frame for slow participant", logger.String("room", r.ID.String()), logger.String("peer", peerID.String()))
		}
	}
}

// ParticipantCount returns the number of peers currently in the room.
func (r *Room) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// IsEmpty reports whether the room currently has no participants.
func (r *Room) IsEmpty() bool {
	return r.ParticipantCount() == 0
}

// Manager owns every live room, keyed by room id.
type Manager struct {
	log logger.Logger

	mu    sync.RWMutex
	rooms map[uuid.UUID]*Room
}

// NewManager creates an empty room manager.
func NewManager(log logger.Logger) *Manager {
	return &Manager{log: log, rooms: make(map[uuid.UUID]*Room)}
}

// CreateRoom allocates a fresh room id and an empty room.
func (m *Manager) CreateRoom() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.rooms[id] = newRoom(id, m.log)
	m.log.Info("sfu: created room", logger.String("room", id.String()))
	return id
}

// JoinRoom joins roomID, creating it first if absent, and returns the
// participant's inbound frame receiver.
func (m *Manager) JoinRoom(roomID uuid.UUID, peerID peer.ID) <-chan EncryptedFrame {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if !ok {
		room = newRoom(roomID, m.log)
		m.rooms[roomID] = room
	}
	m.mu.Unlock()
	return room.Join(peerID)
}

// LeaveRoom removes peerID from roomID, deleting the room if it becomes
// empty.
func (m *Manager) LeaveRoom(roomID uuid.UUID, peerID peer.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	room.Leave(peerID)
	if room.IsEmpty() {
		delete(m.rooms, roomID)
		m.log.Info("sfu: removed empty room", logger.String("room", roomID.String()))
	}
}

// RouteFrame forwards frame to every other participant of roomID. A frame
// for a non-existent room is logged and dropped.
func (m *Manager) RouteFrame(roomID uuid.UUID, frame EncryptedFrame) {
	m.mu.RLock()
	room, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok {
		m.log.Warn("sfu: attempted to route frame in non-existent room", logger.String("room", roomID.String()))
		return
	}
	room.RouteFrame(frame)
}

// ListRooms returns a snapshot of live room ids.
func (m *Manager) ListRooms() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// ParticipantCount returns how many peers are in roomID, or 0 if absent.
func (m *Manager) ParticipantCount(roomID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return 0
	}
	return room.ParticipantCount()
}
