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

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liberte-project/liberte/identity"
)

var showCmd = &cobra.Command{
	Use:   "show <identity-file>",
	Short: "Print the user id derived from an exported identity file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var exported exportJSON
		if err := json.Unmarshal(data, &exported); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		secret, err := hex.DecodeString(exported.SecretKeyHex)
		if err != nil {
			return fmt.Errorf("decode secret_key_hex: %w", err)
		}

		id, err := identity.FromSecretBytes(secret)
		if err != nil {
			return fmt.Errorf("rebuild identity: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id.UserID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
