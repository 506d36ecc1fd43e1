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

package channelkeys

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"

	libertecrypto "github.com/liberte-project/liberte/crypto"
	"github.com/liberte-project/liberte/wire"
)

// FileTable is a Table backed by a single hex-encoded JSON file on disk,
// used by the CLI tools where an in-process Table would not survive
// between invocations. Every mutation rewrites the whole file.
type FileTable struct {
	path string
	mem  *memoryTable
	mu   sync.Mutex
}

// OpenFileTable loads path if it exists, or starts empty if it does not.
func OpenFileTable(path string) (*FileTable, error) {
	ft := &FileTable{
		path: path,
		mem:  &memoryTable{keys: make(map[wire.ChannelID]libertecrypto.SymmetricKey)},
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ft, nil
	}
	if err != nil {
		return nil, err
	}
	var onDisk map[string]string
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, err
	}
	for idHex, keyHex := range onDisk {
		id, err := parseChannelIDHex(idHex)
		if err != nil {
			return nil, err
		}
		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, err
		}
		var key libertecrypto.SymmetricKey
		copy(key[:], keyBytes)
		ft.mem.keys[id] = key
	}
	return ft, nil
}

func (ft *FileTable) Store(id wire.ChannelID, key libertecrypto.SymmetricKey) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	_ = ft.mem.Store(id, key)
	return ft.flush()
}

func (ft *FileTable) Load(id wire.ChannelID) (libertecrypto.SymmetricKey, error) {
	return ft.mem.Load(id)
}

func (ft *FileTable) Delete(id wire.ChannelID) error {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if err := ft.mem.Delete(id); err != nil {
		return err
	}
	return ft.flush()
}

func (ft *FileTable) List() []wire.ChannelID { return ft.mem.List() }
func (ft *FileTable) Exists(id wire.ChannelID) bool { return ft.mem.Exists(id) }

func (ft *FileTable) flush() error {
	onDisk := make(map[string]string, len(ft.mem.keys))
	for id, key := range ft.mem.keys {
		onDisk[id.String()] = hex.EncodeToString(key[:])
	}
	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ft.path, data, 0o600)
}

func parseChannelIDHex(s string) (wire.ChannelID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return wire.ChannelID{}, err
	}
	return wire.ChannelID(u), nil
}
