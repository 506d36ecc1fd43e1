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

	"github.com/spf13/cobra"

	"github.com/liberte-project/liberte/invite"
)

var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Create, join, and invite others to channels",
}

var channelCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new channel and its symmetric key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := newBridge()
		if err != nil {
			return err
		}
		channelID, err := bridge.CreateChannel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created channel %q: %s\n", args[0], channelID)
		return nil
	},
}

var channelInviteCmd = &cobra.Command{
	Use:   "invite <channel-id> <channel-name>",
	Short: "Mint a 5-minute invite token for a channel this node holds the key for",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bridge, err := newBridge()
		if err != nil {
			return err
		}
		channelID, err := parseChannelID(args[0])
		if err != nil {
			return err
		}
		token, err := bridge.Invite(channelID, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token.Encode())
		return nil
	},
}

var channelJoinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join a channel from an invite code minted by another peer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := invite.Decode(args[0])
		if err != nil {
			return fmt.Errorf("decode invite: %w", err)
		}
		bridge, err := newBridge()
		if err != nil {
			return err
		}
		channelID, err := bridge.JoinChannel(cmd.Context(), token)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined channel %q: %s\n", token.Payload.ChannelName, channelID)
		return nil
	},
}

func init() {
	channelCmd.AddCommand(channelCreateCmd, channelInviteCmd, channelJoinCmd)
	rootCmd.AddCommand(channelCmd)
}
