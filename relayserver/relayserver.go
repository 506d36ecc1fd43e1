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

// Package relayserver runs a stripped-down overlay node: a libp2p host with
// only the circuit-relay-v2 service and peer identification enabled. It
// carries no pub/sub and no DHT.
package relayserver

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/libp2p/go-libp2p"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"

	"github.com/liberte-project/liberte/internal/logger"
)

// Server is a relay-only libp2p host: it grants circuit-relay-v2
// reservations and circuits to clients that cannot establish a direct
// connection, and logs the events of interest along the way.
type Server struct {
	host host.Host
	log  logger.Logger
	sub  event.Subscription
}

// Spawn builds and starts the relay host, listening on listenAddr
// (e.g. "/ip4/0.0.0.0/tcp/4001"). seed derives the host's stable identity.
func Spawn(ctx context.Context, seed [32]byte, listenAddr string, log logger.Logger) (*Server, error) {
	edPriv := ed25519.NewKeyFromSeed(seed[:])
	privKey, err := libp2pcrypto.UnmarshalEd25519PrivateKey(edPriv)
	if err != nil {
		return nil, fmt.Errorf("relayserver: unmarshal keypair: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(privKey),
		libp2p.ListenAddrStrings(listenAddr),
		libp2p.EnableRelayService(),
	)
	if err != nil {
		return nil, fmt.Errorf("relayserver: build host: %w", err)
	}

	sub, err := h.EventBus().Subscribe(new(event.EvtLocalReachabilityChanged))
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("relayserver: subscribe event bus: %w", err)
	}

	log = log.WithFields(logger.String("peer_id", h.ID().String()))
	log.Info("relay server listening", logger.String("addr", listenAddr))

	s := &Server{host: h, log: log, sub: sub}
	h.Network().Notify(s.networkNotifiee())
	go s.logEvents(ctx)

	return s, nil
}

// PeerID returns the relay server's own peer id.
func (s *Server) PeerID() string { return s.host.ID().String() }

// Close stops the relay host.
func (s *Server) Close() error {
	s.sub.Close()
	return s.host.Close()
}

func (s *Server) logEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-s.sub.Out():
			if !ok {
				return
			}
			s.log.Debug("relayserver: event", logger.Any("event", evt))
		}
	}
}

// networkNotifiee logs peer connect/disconnect at the relay, mirroring the
// overlay node's own connection bookkeeping but without a peer tracker --
// the relay server never needs to classify direct vs relayed for itself.
func (s *Server) networkNotifiee() network.Notifiee {
	return &network.NotifyBundle{
		ConnectedF: func(net network.Network, c network.Conn) {
			s.log.Debug("relayserver: peer connected", logger.String("peer", c.RemotePeer().String()))
		},
		DisconnectedF: func(net network.Network, c network.Conn) {
			if len(net.ConnsToPeer(c.RemotePeer())) == 0 {
				s.log.Debug("relayserver: peer disconnected", logger.String("peer", c.RemotePeer().String()))
			}
		},
	}
}
