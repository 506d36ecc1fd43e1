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

// Package overlay drives the peer-to-peer mesh: pub/sub, DHT peer discovery,
// peer identification, relay-client reservations, and hole punching, all
// behind a single event loop so only one goroutine ever touches the libp2p
// host. Callers interact through a bounded command channel and observe a
// bounded notification channel.
package overlay

import (
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"

	"github.com/liberte-project/liberte/wire"
)

const (
	// ProtocolVersion is announced by the identify protocol on every node.
	ProtocolVersion = "/liberte/1.0.0"

	// GossipHeartbeatInterval is the pub/sub mesh heartbeat.
	GossipHeartbeatInterval = 1 * time.Second

	// MaxTransmitSize caps a single pub/sub message, matching the wire
	// protocol's own message cap.
	MaxTransmitSize = wire.MaxMessageSize

	// IdentifyPushInterval is a 60-second identify push period. Nothing in
	// this package reads it; the host built by Spawn uses go-libp2p's
	// identify defaults.
	IdentifyPushInterval = 60 * time.Second

	// commandBufferSize and notificationBufferSize bound the event loop's
	// ingress/egress channels.
	commandBufferSize      = 256
	notificationBufferSize = 256
)

// Command is the event loop's ingress surface. Only the variants declared
// in this file implement it.
type Command interface{ isCommand() }

// Dial enqueues an outbound connection attempt. Failures are logged and
// reported as no notification; the loop continues.
type Dial struct{ Addr multiaddr.Multiaddr }

// PublishMessage publishes opaque bytes on a pub/sub topic. If the topic
// has no local subscribers, the mesh still gossip-forwards.
type PublishMessage struct {
	Topic string
	Data  []byte
}

// SubscribeTopic joins the pub/sub mesh for a topic. Idempotent.
type SubscribeTopic struct{ Topic string }

// GetPeers requests a snapshot of connected peer ids through a one-shot
// reply channel.
type GetPeers struct{ Reply chan []peer.ID }

// Shutdown terminates the event loop; commands still queued behind it are
// not processed.
type Shutdown struct{}

func (Dial) isCommand()           {}
func (PublishMessage) isCommand() {}
func (SubscribeTopic) isCommand() {}
func (GetPeers) isCommand()       {}
func (Shutdown) isCommand()       {}

// Notification is the event loop's egress surface.
type Notification interface{ isNotification() }

// PeerConnected fires when the first connection to a remote is established.
// Address carries the full multiaddr, including /p2p-circuit when relayed.
type PeerConnected struct {
	PeerID  peer.ID
	Address multiaddr.Multiaddr
}

// PeerDisconnected fires when the last connection to a remote closes.
type PeerDisconnected struct{ PeerID peer.ID }

// MessageReceived fires for every verified pub/sub message. Source may be
// the zero peer.ID if the publisher did not sign at the application layer.
type MessageReceived struct {
	Source peer.ID
	Topic  string
	Data   []byte
}

// RelayReservation fires once a requested circuit-relay-v2 reservation has
// been granted.
type RelayReservation struct {
	RelayPeer peer.ID
	RelayAddr multiaddr.Multiaddr
}

func (PeerConnected) isNotification()     {}
func (PeerDisconnected) isNotification()  {}
func (MessageReceived) isNotification()   {}
func (RelayReservation) isNotification()  {}

// ConnectionInfo is what the peer tracker remembers about a connected peer.
type ConnectionInfo struct {
	PeerID      peer.ID
	Address     multiaddr.Multiaddr
	Mode        wire.ConnectionMode
	ConnectedAt time.Time
}
