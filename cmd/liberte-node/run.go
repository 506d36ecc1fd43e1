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
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liberte-project/liberte/client"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Join the overlay and process messages until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		bridge, node, err := spawnOnlineBridge(ctx)
		if err != nil {
			return err
		}
		defer node.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "liberte-node running as %s (peer id %s)\n", bridge.Identity.UserID(), node.LocalPeerID())

		go bridge.Run(ctx)

		for {
			select {
			case <-ctx.Done():
				return nil
			case evt := <-bridge.Events():
				printEvent(cmd, evt)
			}
		}
	},
}

func printEvent(cmd *cobra.Command, evt client.Event) {
	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %v\n", evt.Kind, evt.Fields)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
