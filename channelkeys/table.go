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

// Package channelkeys holds the per-channel symmetric keys a peer has
// joined, keyed by channel id. The table never leaves the local process;
// servers never hold channel keys.
package channelkeys

import (
	"errors"
	"sort"
	"sync"

	libertecrypto "github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/wire"
)

// ErrNotFound is returned when a channel key lookup misses.
var ErrNotFound = errors.New("channelkeys: channel key not found")

// Table is the channel-key lookup every other component depends on.
type Table interface {
	Store(id wire.ChannelID, key libertecrypto.SymmetricKey) error
	Load(id wire.ChannelID) (libertecrypto.SymmetricKey, error)
	Delete(id wire.ChannelID) error
	List() []wire.ChannelID
	Exists(id wire.ChannelID) bool
}

// memoryTable implements Table with a process-local, RWMutex-guarded map.
type memoryTable struct {
	keys map[wire.ChannelID]libertecrypto.SymmetricKey
	mu   sync.RWMutex
}

// NewMemoryTable creates a new in-memory channel key table.
func NewMemoryTable() Table {
	return &memoryTable{keys: make(map[wire.ChannelID]libertecrypto.SymmetricKey)}
}

func (t *memoryTable) Store(id wire.ChannelID, key libertecrypto.SymmetricKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys[id] = key
	return nil
}

func (t *memoryTable) Load(id wire.ChannelID) (libertecrypto.SymmetricKey, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	key, exists := t.keys[id]
	if !exists {
		return libertecrypto.SymmetricKey{}, ErrNotFound
	}
	return key, nil
}

func (t *memoryTable) Delete(id wire.ChannelID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.keys[id]; !exists {
		return ErrNotFound
	}
	delete(t.keys, id)
	return nil
}

func (t *memoryTable) List() []wire.ChannelID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]wire.ChannelID, 0, len(t.keys))
	for id := range t.keys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (t *memoryTable) Exists(id wire.ChannelID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, exists := t.keys[id]
	return exists
}
