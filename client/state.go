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

// Package client is the app glue that sits between the overlay's raw
// pub/sub notifications and the local channel-key table and storage
// layer: it decrypts and stores incoming messages, re-subscribes to every
// channel a peer already holds a key for, and exposes the operations a
// front end (CLI, daemon, or otherwise) drives: sending chat messages,
// creating and joining channels, reacting, and typing indicators.
package client

import (
	"github.com/liberte-project/liberte/channelkeys"
	"github.com/liberte-project/liberte/identity"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/overlay"
	"github.com/liberte-project/liberte/pkg/storage"
)

// eventBufferSize bounds the Bridge's outbound event channel.
const eventBufferSize = 256

// Overlay is the slice of *overlay.Node the bridge needs: publish,
// subscribe, and the notification stream. Narrowed to an interface so
// tests can drive the bridge without a real libp2p host.
type Overlay interface {
	Publish(topic string, data []byte)
	Subscribe(topic string)
	Notifications() <-chan overlay.Notification
}

// Bridge owns the glue between one running overlay node and a local
// identity, channel-key table, and storage backend. There is exactly one
// Bridge per running client process.
type Bridge struct {
	Identity *identity.Identity
	Node     Overlay
	Keys     channelkeys.Table
	Store    storage.Store
	log      logger.Logger

	eventsCh chan Event
}

// NewBridge wires a Bridge around an already-spawned overlay node. Callers
// typically follow construction with Run(ctx) in its own goroutine.
func NewBridge(id *identity.Identity, node Overlay, keys channelkeys.Table, store storage.Store, log logger.Logger) *Bridge {
	return &Bridge{
		Identity: id,
		Node:     node,
		Keys:     keys,
		Store:    store,
		log:      log.WithFields(logger.String("component", "client_bridge")),
		eventsCh: make(chan Event, eventBufferSize),
	}
}

// Events returns the stream of notifications a front end should drain.
func (b *Bridge) Events() <-chan Event { return b.eventsCh }

func (b *Bridge) emit(kind string, fields map[string]string) {
	select {
	case b.eventsCh <- Event{Kind: kind, Fields: fields}:
	default:
		b.log.Warn("client: event dropped, channel full", logger.String("kind", kind))
	}
}
