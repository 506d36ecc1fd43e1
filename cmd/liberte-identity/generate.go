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

var generateOutputPath string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new random identity",
	Long: `Generate a brand-new random Ed25519 identity and print its public key
(the user id other peers and channels will know you by).

Use --output to also write the exported secret to a JSON file; without it
the secret is printed once to stdout and not persisted anywhere.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := identity.Generate()
		if err != nil {
			return fmt.Errorf("generate identity: %w", err)
		}

		export := id.ToExport()
		if generateOutputPath != "" {
			data, err := json.MarshalIndent(exportJSON{
				SecretKeyHex: hex.EncodeToString(export.SecretKey),
				PublicKeyHex: hex.EncodeToString(export.PublicKey),
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal identity export: %w", err)
			}
			if err := os.WriteFile(generateOutputPath, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", generateOutputPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Identity written to %s\n", generateOutputPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Secret key (keep private): %s\n", hex.EncodeToString(export.SecretKey))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id.UserID())
		return nil
	},
}

type exportJSON struct {
	SecretKeyHex string `json:"secret_key_hex"`
	PublicKeyHex string `json:"public_key_hex"`
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutputPath, "output", "o", "", "write the exported identity to this JSON file")
	rootCmd.AddCommand(generateCmd)
}
