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
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// BuildCircuitAddr returns <relayAddr>/p2p/<relayID>/p2p-circuit, the
// address this node listens on once a relay grants it a reservation.
func BuildCircuitAddr(relayAddr multiaddr.Multiaddr, relayID peer.ID) multiaddr.Multiaddr {
	addr, err := multiaddr.NewMultiaddr(fmt.Sprintf("%s/p2p/%s/p2p-circuit", relayAddr, relayID))
	if err != nil {
		return relayAddr
	}
	return addr
}

// BuildRelayedAddr returns <relayAddr>/p2p/<relayID>/p2p-circuit/p2p/<targetID>,
// the address used to dial a remote peer through a relay.
func BuildRelayedAddr(relayAddr multiaddr.Multiaddr, relayID, targetID peer.ID) multiaddr.Multiaddr {
	addr, err := multiaddr.NewMultiaddr(fmt.Sprintf("%s/p2p/%s/p2p-circuit/p2p/%s", relayAddr, relayID, targetID))
	if err != nil {
		return BuildCircuitAddr(relayAddr, relayID)
	}
	return addr
}

// DialViaRelay enqueues a Dial for the relayed address to targetID through
// relayID at relayAddr.
func (n *Node) DialViaRelay(relayAddr multiaddr.Multiaddr, relayID, targetID peer.ID) {
	n.Dial(BuildRelayedAddr(relayAddr, relayID, targetID))
}
