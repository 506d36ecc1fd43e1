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
	"time"

	"github.com/spf13/cobra"
)

// gossipSettleDelay is how long send waits after joining the mesh before
// publishing, so the message has a chance to reach at least one mesh peer
// instead of landing before any gossipsub grafting has happened.
const gossipSettleDelay = 2 * time.Second

var sendCmd = &cobra.Command{
	Use:   "send <channel-id> <message>",
	Short: "Briefly join the overlay, publish one chat message, and exit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		channelID, err := parseChannelID(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		bridge, node, err := spawnOnlineBridge(ctx)
		if err != nil {
			return err
		}
		defer node.Close()

		select {
		case <-time.After(gossipSettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}

		msgID, err := bridge.SendChatMessage(ctx, channelID, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent message %s\n", msgID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
