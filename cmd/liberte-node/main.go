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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	identityPath string
	dataDir      string
	listenPort   uint16
	bootstrap    string
)

var rootCmd = &cobra.Command{
	Use:   "liberte-node",
	Short: "Liberte peer daemon - join the overlay, hold channel keys, send and receive messages",
	Long: `liberte-node runs the peer side of liberte: a libp2p overlay
connection, the local channel-key table, and the encrypted message store.

Most subcommands (channel create/join/invite) only touch local state and
exit immediately; "run" is the long-lived daemon that actually joins the
overlay and exchanges messages.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".liberte")

	rootCmd.PersistentFlags().StringVar(&identityPath, "identity", "", "path to an identity JSON file (see liberte-identity generate)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir, "directory for this node's channel-key table and local message store")
	rootCmd.PersistentFlags().Uint16Var(&listenPort, "port", 0, "overlay QUIC listen port (0 picks a random free port)")
	rootCmd.PersistentFlags().StringVar(&bootstrap, "bootstrap", "", "path to a newline-delimited bootstrap multiaddr file")
	_ = rootCmd.MarkPersistentFlagRequired("identity")

	// Commands are registered in their own files:
	// - run.go: runCmd
	// - channel.go: channelCmd and its create/join/invite children
	// - send.go: sendCmd
}
