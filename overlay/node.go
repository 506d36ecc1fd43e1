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
	"context"
	"crypto/ed25519"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pubsub_pb "github.com/libp2p/go-libp2p-pubsub/pb"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	circuitv2client "github.com/libp2p/go-libp2p/p2p/protocol/circuitv2/client"
	"github.com/multiformats/go-multiaddr"

	"github.com/liberte-project/liberte/internal/logger"
)

// Config controls how a Node listens and which peers it dials at startup.
type Config struct {
	// ListenPort is used to build the QUIC v4/v6 listen multiaddrs.
	ListenPort uint16
	// BootstrapPeersPath, if set, is a newline-delimited multiaddr file.
	BootstrapPeersPath string
	// ExtraDials are additional addresses dialed once at startup.
	ExtraDials []multiaddr.Multiaddr
}

// Node is the running overlay event loop: a libp2p host plus gossipsub and
// a Kademlia DHT, driven by a single goroutine that owns all three.
type Node struct {
	host host.Host
	ps   *pubsub.PubSub
	dht  *dht.IpfsDHT
	log  logger.Logger

	cmdCh   chan Command
	notifCh chan Notification

	topicsMu sync.Mutex
	topics   map[string]*pubsub.Topic
	subs     map[string]*pubsub.Subscription

	cancel context.CancelFunc
	done   chan struct{}
}

// Spawn builds the libp2p host (QUIC transport, gossipsub, Kademlia DHT,
// relay client, hole punching) from seed, starts listening, dials any
// bootstrap/extra addresses, and launches the event loop goroutine. The
// returned Node's LocalPeerID is stable for the lifetime of seed.
func Spawn(ctx context.Context, seed [32]byte, cfg Config, log logger.Logger) (*Node, error) {
	edPriv := ed25519.NewKeyFromSeed(seed[:])
	privKey, err := libp2pcrypto.UnmarshalEd25519PrivateKey(edPriv)
	if err != nil {
		return nil, fmt.Errorf("overlay: unmarshal keypair: %w", err)
	}

	listenV4 := fmt.Sprintf("/ip4/0.0.0.0/udp/%d/quic-v1", cfg.ListenPort)
	listenV6 := fmt.Sprintf("/ip6/::/udp/%d/quic-v1", cfg.ListenPort)

	h, err := libp2p.New(
		libp2p.Identity(privKey),
		libp2p.ListenAddrStrings(listenV4, listenV6),
		libp2p.UserAgent(ProtocolVersion),
		libp2p.EnableRelay(),
		libp2p.EnableHolePunching(),
	)
	if err != nil {
		return nil, fmt.Errorf("overlay: build host: %w", err)
	}

	kadDHT, err := dht.New(ctx, h, dht.Mode(dht.ModeServer))
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("overlay: build dht: %w", err)
	}

	pubsub.GossipSubHeartbeatInterval = GossipHeartbeatInterval
	ps, err := pubsub.NewGossipSub(ctx, h,
		pubsub.WithMessageSignaturePolicy(pubsub.StrictSign),
		pubsub.WithMaxMessageSize(MaxTransmitSize),
		pubsub.WithMessageIdFn(stableMessageID),
	)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("overlay: build pubsub: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	n := &Node{
		host:    h,
		ps:      ps,
		dht:     kadDHT,
		log:     log.WithFields(logger.String("peer_id", h.ID().String())),
		cmdCh:   make(chan Command, commandBufferSize),
		notifCh: make(chan Notification, notificationBufferSize),
		topics:  make(map[string]*pubsub.Topic),
		subs:    make(map[string]*pubsub.Subscription),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	n.log.Info("overlay listening", logger.Int("port", int(cfg.ListenPort)))

	h.Network().Notify(n.networkNotifiee())

	n.bootstrap(loopCtx, cfg)

	go n.run(loopCtx)

	return n, nil
}

// LocalPeerID returns this node's own peer id.
func (n *Node) LocalPeerID() peer.ID { return n.host.ID() }

// Notifications returns the egress notification stream.
func (n *Node) Notifications() <-chan Notification { return n.notifCh }

// Dial is a convenience wrapper around Submit(Dial{...}).
func (n *Node) Dial(addr multiaddr.Multiaddr) { n.Submit(Dial{Addr: addr}) }

// Publish is a convenience wrapper around Submit(PublishMessage{...}).
func (n *Node) Publish(topic string, data []byte) {
	n.Submit(PublishMessage{Topic: topic, Data: data})
}

// Subscribe is a convenience wrapper around Submit(SubscribeTopic{...}).
func (n *Node) Subscribe(topic string) { n.Submit(SubscribeTopic{Topic: topic}) }

// Peers requests a peer snapshot and blocks for the reply or ctx's deadline.
func (n *Node) Peers(ctx context.Context) ([]peer.ID, error) {
	reply := make(chan []peer.ID, 1)
	n.Submit(GetPeers{Reply: reply})
	select {
	case peers := <-reply:
		return peers, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close requests shutdown and waits for the event loop to exit.
func (n *Node) Close() {
	n.Submit(Shutdown{})
	n.cancel()
	<-n.done
}

// Submit enqueues a command without blocking. If the command buffer is
// full, the command is dropped and a warning is logged.
func (n *Node) Submit(cmd Command) {
	select {
	case n.cmdCh <- cmd:
	default:
		n.log.Warn("overlay: command dropped, channel full")
	}
}

// ReserveRelay dials relayAddr and requests a circuit-relay-v2 reservation,
// emitting RelayReservation on success.
func (n *Node) ReserveRelay(ctx context.Context, relayAddr multiaddr.Multiaddr) error {
	ai, err := peer.AddrInfoFromP2pAddr(relayAddr)
	if err != nil {
		return fmt.Errorf("overlay: relay addr has no peer id: %w", err)
	}
	if err := n.host.Connect(ctx, *ai); err != nil {
		return fmt.Errorf("overlay: connect to relay: %w", err)
	}
	if _, err := circuitv2client.Reserve(ctx, n.host, *ai); err != nil {
		return fmt.Errorf("overlay: relay reservation: %w", err)
	}

	n.emit(RelayReservation{RelayPeer: ai.ID, RelayAddr: BuildCircuitAddr(relayAddr, ai.ID)})
	return nil
}

func (n *Node) bootstrap(ctx context.Context, cfg Config) {
	var bootstrapAddrs []multiaddr.Multiaddr
	if cfg.BootstrapPeersPath != "" {
		bootstrapAddrs = LoadBootstrapPeers(cfg.BootstrapPeersPath, n.log)
	}

	for _, addr := range bootstrapAddrs {
		n.dialAndRemember(ctx, addr)
	}
	for _, addr := range cfg.ExtraDials {
		n.dialAddr(ctx, addr)
	}

	if len(bootstrapAddrs) > 0 {
		if err := n.dht.Bootstrap(ctx); err != nil {
			n.log.Warn("overlay: kademlia bootstrap failed to start", logger.Error(err))
		}
	}
}

// dialAndRemember dials addr and, if it embeds a peer id, seeds the DHT's
// address book so the bootstrap round can find it immediately.
func (n *Node) dialAndRemember(ctx context.Context, addr multiaddr.Multiaddr) {
	if ai, err := peer.AddrInfoFromP2pAddr(addr); err == nil {
		n.host.Peerstore().AddAddrs(ai.ID, ai.Addrs, peerstoreBootstrapTTL)
		if err := n.host.Connect(ctx, *ai); err != nil {
			n.log.Warn("overlay: failed to dial bootstrap peer", logger.String("addr", addr.String()), logger.Error(err))
			return
		}
		n.log.Debug("overlay: dialing bootstrap peer", logger.String("addr", addr.String()))
		return
	}
	n.dialAddr(ctx, addr)
}

func (n *Node) dialAddr(ctx context.Context, addr multiaddr.Multiaddr) {
	ai, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		n.log.Warn("overlay: failed to dial address, no peer id embedded", logger.String("addr", addr.String()))
		return
	}
	if err := n.host.Connect(ctx, *ai); err != nil {
		n.log.Warn("overlay: failed to dial address", logger.String("addr", addr.String()), logger.Error(err))
	}
}

// run is the single goroutine that owns the host, pubsub, and DHT. It
// drains commands and fans in pub/sub messages until Shutdown or command-
// channel closure.
func (n *Node) run(ctx context.Context) {
	defer close(n.done)
	defer n.host.Close()

	msgCh := make(chan *pubsub.Message, notificationBufferSize)
	subCtx, subCancel := context.WithCancel(ctx)
	defer subCancel()

	for {
		select {
		case <-ctx.Done():
			n.log.Info("overlay: context cancelled, shutting down")
			return

		case cmd, ok := <-n.cmdCh:
			if !ok {
				n.log.Info("overlay: command channel closed, shutting down")
				return
			}
			if n.handleCommand(ctx, cmd, msgCh, subCancel) {
				return
			}

		case msg := <-msgCh:
			n.deliverMessage(msg)
		}
	}
}

// handleCommand applies one command. It returns true if the loop should
// terminate (Shutdown).
func (n *Node) handleCommand(ctx context.Context, cmd Command, msgCh chan *pubsub.Message, subCancel context.CancelFunc) bool {
	switch c := cmd.(type) {
	case Dial:
		if err := n.dialCommand(ctx, c.Addr); err != nil {
			n.log.Error("overlay: dial failed", logger.String("addr", c.Addr.String()), logger.Error(err))
		}

	case PublishMessage:
		if len(c.Data) > MaxTransmitSize {
			n.log.Error("overlay: publish exceeds size cap, dropped", logger.String("topic", c.Topic), logger.Int("size", len(c.Data)))
			return false
		}
		topic, err := n.joinTopic(c.Topic)
		if err != nil {
			n.log.Error("overlay: publish failed", logger.String("topic", c.Topic), logger.Error(err))
			return false
		}
		if err := topic.Publish(ctx, c.Data); err != nil {
			n.log.Error("overlay: publish failed", logger.String("topic", c.Topic), logger.Error(err))
		}

	case SubscribeTopic:
		if _, err := n.subscribeTopic(c.Topic, msgCh); err != nil {
			n.log.Error("overlay: subscribe failed", logger.String("topic", c.Topic), logger.Error(err))
		}

	case GetPeers:
		peers := n.host.Network().Peers()
		select {
		case c.Reply <- peers:
		default:
		}

	case Shutdown:
		n.log.Info("overlay: shutdown requested")
		return true
	}
	return false
}

func (n *Node) dialCommand(ctx context.Context, addr multiaddr.Multiaddr) error {
	ai, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return n.host.Connect(ctx, peer.AddrInfo{Addrs: []multiaddr.Multiaddr{addr}})
	}
	return n.host.Connect(ctx, *ai)
}

func (n *Node) joinTopic(name string) (*pubsub.Topic, error) {
	n.topicsMu.Lock()
	defer n.topicsMu.Unlock()
	if t, ok := n.topics[name]; ok {
		return t, nil
	}
	t, err := n.ps.Join(name)
	if err != nil {
		return nil, err
	}
	n.topics[name] = t
	return t, nil
}

func (n *Node) subscribeTopic(name string, msgCh chan *pubsub.Message) (*pubsub.Subscription, error) {
	n.topicsMu.Lock()
	if sub, ok := n.subs[name]; ok {
		n.topicsMu.Unlock()
		return sub, nil
	}
	n.topicsMu.Unlock()

	topic, err := n.joinTopic(name)
	if err != nil {
		return nil, err
	}
	sub, err := topic.Subscribe()
	if err != nil {
		return nil, err
	}

	n.topicsMu.Lock()
	n.subs[name] = sub
	n.topicsMu.Unlock()

	go n.pumpSubscription(sub, msgCh)
	return sub, nil
}

// pumpSubscription forwards messages from one subscription into the
// event loop's fan-in channel until the subscription is cancelled.
func (n *Node) pumpSubscription(sub *pubsub.Subscription, msgCh chan *pubsub.Message) {
	for {
		msg, err := sub.Next(context.Background())
		if err != nil {
			return
		}
		select {
		case msgCh <- msg:
		default:
			n.log.Warn("overlay: notification channel full, message dropped", logger.String("topic", sub.Topic()))
		}
	}
}

func (n *Node) deliverMessage(msg *pubsub.Message) {
	var source peer.ID
	if msg.GetFrom() != "" {
		source = msg.GetFrom()
	}
	n.emit(MessageReceived{
		Source: source,
		Topic:  msg.GetTopic(),
		Data:   msg.GetData(),
	})
}

func (n *Node) emit(notif Notification) {
	select {
	case n.notifCh <- notif:
	default:
		n.log.Warn("overlay: notification dropped, channel full")
	}
}

// networkNotifiee bridges libp2p's connection events into the peer tracker
// and the notification stream. It is registered once at startup; its
// internal PeerTracker is touched only from these two callbacks, which
// serialize on a mutex local to this closure.
func (n *Node) networkNotifiee() network.Notifiee {
	tracker := NewPeerTracker()
	var mu sync.Mutex

	return &network.NotifyBundle{
		ConnectedF: func(net network.Network, c network.Conn) {
			mu.Lock()
			defer mu.Unlock()
			id := c.RemotePeer()
			if tracker.IsConnected(id) {
				return
			}
			addr := c.RemoteMultiaddr()
			relayed := strings.Contains(addr.String(), "p2p-circuit")
			tracker.OnConnected(id, addr, relayed)
			n.emit(PeerConnected{PeerID: id, Address: addr})
		},
		DisconnectedF: func(net network.Network, c network.Conn) {
			mu.Lock()
			defer mu.Unlock()
			id := c.RemotePeer()
			if len(net.ConnsToPeer(id)) > 0 {
				return
			}
			if tracker.OnDisconnected(id) {
				n.emit(PeerDisconnected{PeerID: id})
			}
		},
	}
}

const peerstoreBootstrapTTL = peerstore.ConnectedAddrTTL

// stableMessageID mirrors the original stable_hash(data || source)
// message-id function: a deterministic hash of payload plus publisher.
func stableMessageID(pmsg *pubsub_pb.Message) string {
	h := fnv.New64a()
	h.Write(pmsg.Data)
	if pmsg.From != nil {
		h.Write(pmsg.From)
	}
	return fmt.Sprintf("%x", h.Sum64())
}
