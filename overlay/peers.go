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

package overlay

import (
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/liberte-project/liberte/wire"
)

// PeerTracker maintains peer_id -> {address, mode, connected_at}. It
// carries no lock of its own; callers that share it across goroutines
// must serialize access themselves.
type PeerTracker struct {
	peers map[peer.ID]ConnectionInfo
}

// NewPeerTracker returns an empty tracker.
func NewPeerTracker() *PeerTracker {
	return &PeerTracker{peers: make(map[peer.ID]ConnectionInfo)}
}

// OnConnected records a new connection. isRelayed classifies the mode.
func (t *PeerTracker) OnConnected(id peer.ID, addr multiaddr.Multiaddr, isRelayed bool) {
	mode := wire.ConnectionDirect
	if isRelayed {
		mode = wire.ConnectionRelayed
	}
	t.peers[id] = ConnectionInfo{
		PeerID:      id,
		Address:     addr,
		Mode:        mode,
		ConnectedAt: time.Now(),
	}
}

// OnDisconnected removes a peer's entry, returning whether it was present.
func (t *PeerTracker) OnDisconnected(id peer.ID) bool {
	if _, ok := t.peers[id]; !ok {
		return false
	}
	delete(t.peers, id)
	return true
}

// UpgradeToDirect updates an existing entry in place after a successful
// hole punch, without removing and re-adding it.
func (t *PeerTracker) UpgradeToDirect(id peer.ID, newAddr multiaddr.Multiaddr) {
	info, ok := t.peers[id]
	if !ok {
		return
	}
	info.Mode = wire.ConnectionDirect
	info.Address = newAddr
	t.peers[id] = info
}

// Get returns a peer's tracked connection info, if any.
func (t *PeerTracker) Get(id peer.ID) (ConnectionInfo, bool) {
	info, ok := t.peers[id]
	return info, ok
}

// ConnectionMode reports Disconnected for peers with no tracked entry.
func (t *PeerTracker) ConnectionMode(id peer.ID) wire.ConnectionMode {
	info, ok := t.peers[id]
	if !ok {
		return wire.ConnectionDisconnected
	}
	return info.Mode
}

// ConnectedPeers returns a snapshot of tracked peer ids.
func (t *PeerTracker) ConnectedPeers() []peer.ID {
	ids := make([]peer.ID, 0, len(t.peers))
	for id := range t.peers {
		ids = append(ids, id)
	}
	return ids
}

// IsConnected reports whether a peer currently has a tracked entry.
func (t *PeerTracker) IsConnected(id peer.ID) bool {
	_, ok := t.peers[id]
	return ok
}

// PeerCount, DirectCount, and RelayedCount summarize tracker state.
func (t *PeerTracker) PeerCount() int { return len(t.peers) }

func (t *PeerTracker) DirectCount() int {
	n := 0
	for _, info := range t.peers {
		if info.Mode == wire.ConnectionDirect {
			n++
		}
	}
	return n
}

func (t *PeerTracker) RelayedCount() int {
	n := 0
	for _, info := range t.peers {
		if info.Mode == wire.ConnectionRelayed {
			n++
		}
	}
	return n
}
