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

package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/channelkeys"
	"github.com/liberte-project/liberte/client"
	"github.com/liberte-project/liberte/identity"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/overlay"
	"github.com/liberte-project/liberte/pkg/storage"
	"github.com/liberte-project/liberte/pkg/storage/memory"
	"github.com/liberte-project/liberte/wire"
)

func parseChannelID(s string) (wire.ChannelID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return wire.ChannelID{}, fmt.Errorf("invalid channel id %q: %w", s, err)
	}
	return wire.ChannelID(u), nil
}

type exportJSON struct {
	SecretKeyHex string `json:"secret_key_hex"`
	PublicKeyHex string `json:"public_key_hex"`
}

func loadIdentity(path string) (*identity.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}
	var exported exportJSON
	if err := json.Unmarshal(data, &exported); err != nil {
		return nil, fmt.Errorf("parse identity file: %w", err)
	}
	secret, err := hex.DecodeString(exported.SecretKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode secret_key_hex: %w", err)
	}
	return identity.FromSecretBytes(secret)
}

func openChannelKeys(dir string) (*channelkeys.FileTable, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return channelkeys.OpenFileTable(filepath.Join(dir, "channelkeys.json"))
}

// openStore returns the client's local message/channel store. A node
// daemon's data is private to one machine and one identity, so there is
// no need for the relay's Postgres backend here; an in-memory store
// rebuilt from gossip replay on every restart is sufficient for a CLI
// peer (see DESIGN.md for the tradeoff against the Postgres backend).
func openStore() storage.Store {
	return memory.NewStore()
}

// newBridge wires identity, channel keys, and storage into a client.Bridge
// without starting the overlay -- used by one-shot commands (create/join)
// that only need to touch local state.
func newBridge() (*client.Bridge, error) {
	if identityPath == "" {
		return nil, fmt.Errorf("--identity is required")
	}
	id, err := loadIdentity(identityPath)
	if err != nil {
		return nil, err
	}
	keys, err := openChannelKeys(dataDir)
	if err != nil {
		return nil, err
	}
	log := logger.NewDefaultLogger()
	return client.NewBridge(id, nil, keys, openStore(), log), nil
}

// spawnOnlineBridge does the same as newBridge but also spawns a live
// overlay node, for commands that need to publish or that run the daemon
// loop.
func spawnOnlineBridge(ctx context.Context) (*client.Bridge, *overlay.Node, error) {
	if identityPath == "" {
		return nil, nil, fmt.Errorf("--identity is required")
	}
	id, err := loadIdentity(identityPath)
	if err != nil {
		return nil, nil, err
	}
	keys, err := openChannelKeys(dataDir)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewDefaultLogger()

	node, err := overlay.Spawn(ctx, id.DeriveOverlayKeypairSeed(), overlay.Config{
		ListenPort:         listenPort,
		BootstrapPeersPath: bootstrap,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("spawn overlay node: %w", err)
	}

	return client.NewBridge(id, node, keys, openStore(), log), node, nil
}
