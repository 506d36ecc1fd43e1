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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/internal/logger"
)

func TestLoadBootstrapPeersFromNonexistentFile(t *testing.T) {
	log := logger.NewDefaultLogger()
	peers := LoadBootstrapPeers("/nonexistent/bootstrap.txt", log)
	assert.Empty(t, peers)
}

func TestLoadBootstrapPeersFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peers.txt")
	content := "# bootstrap nodes\n" +
		"/ip4/127.0.0.1/udp/4001/quic-v1\n" +
		"\n" +
		"invalid-addr\n" +
		"/ip4/127.0.0.2/udp/4001/quic-v1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := logger.NewDefaultLogger()
	peers := LoadBootstrapPeers(path, log)
	assert.Len(t, peers, 2)
}

func TestParseMultiaddrs(t *testing.T) {
	raw := []string{
		"/ip4/127.0.0.1/udp/4001/quic-v1",
		"not-a-multiaddr",
		"/ip4/10.0.0.1/udp/4001/quic-v1",
	}
	log := logger.NewDefaultLogger()
	addrs := ParseMultiaddrs(raw, log)
	assert.Len(t, addrs, 2)
}
