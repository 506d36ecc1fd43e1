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
	"strings"

	"github.com/multiformats/go-multiaddr"

	"github.com/liberte-project/liberte/internal/logger"
)

// LoadBootstrapPeers reads one multiaddr per line from path. Comments
// (lines starting with '#') and blank lines are ignored. A missing or
// unreadable file yields an empty list with a warning; it never fails
// startup. Lines that fail to parse as a multiaddr are skipped with a
// warning.
func LoadBootstrapPeers(path string, log logger.Logger) []multiaddr.Multiaddr {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warn("overlay: failed to read bootstrap peers file", logger.String("path", path), logger.Error(err))
		return nil
	}

	var addrs []multiaddr.Multiaddr
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, err := multiaddr.NewMultiaddr(line)
		if err != nil {
			log.Warn("overlay: skipping invalid bootstrap multiaddr", logger.String("line", line), logger.Error(err))
			continue
		}
		addrs = append(addrs, addr)
	}

	log.Info("overlay: loaded bootstrap peers", logger.Int("count", len(addrs)), logger.String("path", path))
	return addrs
}

// ParseMultiaddrs parses raw multiaddr strings, skipping and warning on
// anything invalid.
func ParseMultiaddrs(raw []string, log logger.Logger) []multiaddr.Multiaddr {
	addrs := make([]multiaddr.Multiaddr, 0, len(raw))
	for _, s := range raw {
		addr, err := multiaddr.NewMultiaddr(s)
		if err != nil {
			log.Warn("overlay: could not parse multiaddr", logger.String("addr", s), logger.Error(err))
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs
}
