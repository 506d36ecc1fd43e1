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

package server

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/blob"
	"github.com/liberte-project/liberte/entitlement"
	"github.com/liberte-project/liberte/internal/logger"
)

func (s *State) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *State) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":              s.Config.InstanceName,
		"version":           Version,
		"premium_required":  s.Config.PremiumRequired,
		"registration_open": s.Config.RegistrationOpen,
		"max_peers":         s.Config.MaxPeers,
	})
}

type premiumVerifyRequest struct {
	UserPubkeyHex string `json:"user_pubkey_hex"`
	ValidUntil    string `json:"valid_until"`
	SignatureHex  string `json:"signature_hex"`
}

func (s *State) handlePremiumVerify(w http.ResponseWriter, r *http.Request) {
	if !s.Config.PremiumRequired {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
		return
	}

	var req premiumVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest("invalid JSON body: %v", err))
		return
	}

	pubkey, err := parseHex32(req.UserPubkeyHex)
	if err != nil {
		writeError(w, err)
		return
	}
	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		writeError(w, errBadRequest("invalid valid_until: %v", err))
		return
	}
	sig, err := hex.DecodeString(req.SignatureHex)
	if err != nil {
		writeError(w, errBadRequest("invalid signature_hex: %v", err))
		return
	}

	token := entitlement.Token{UserPubkey: pubkey, ValidUntil: validUntil, Signature: sig}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": s.Premium.Verify(token)})
}

func (s *State) handleBlobUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, errBadRequest("missing 'file' field in multipart form: %v", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errBadRequest("failed to read field: %v", err))
		return
	}

	id, err := s.Blobs.Store(data)
	if err != nil {
		writeError(w, blobStoreError(err))
		return
	}

	s.Log.Info("server: blob uploaded via API", logger.String("id", id.String()), logger.Int("size", len(data)))
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *State) handleBlobDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, errBadRequest("invalid blob id: %v", err))
		return
	}
	data, err := s.Blobs.Get(id)
	if err != nil {
		writeError(w, blobStoreError(err))
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (s *State) handleBlobDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, errBadRequest("invalid blob id: %v", err))
		return
	}
	if err := s.Blobs.Delete(id); err != nil {
		writeError(w, blobStoreError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func blobStoreError(err error) error {
	switch {
	case errors.Is(err, blob.ErrNotFound):
		return errNotFound("blob not found")
	case errors.Is(err, blob.ErrTooLarge):
		return errTooLarge("%v", err)
	case errors.Is(err, blob.ErrEmptyBlob), errors.Is(err, blob.ErrPathTraversal):
		return errBadRequest("%v", err)
	default:
		return errInternal("blob storage error: %v", err)
	}
}

type backupSyncRequest struct {
	UserPubkeyHex string `json:"user_pubkey_hex"`
	EncryptedData string `json:"encrypted_data"`
}

type backupSyncResponse struct {
	Stored    bool `json:"stored"`
	SizeBytes int  `json:"size_bytes"`
}

// handleBackupSyncUpload stores an encrypted client backup keyed by user
// pubkey, overwriting any previous backup for that user.
func (s *State) handleBackupSyncUpload(w http.ResponseWriter, r *http.Request) {
	var req backupSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest("invalid JSON body: %v", err))
		return
	}

	if _, err := parseHex32(req.UserPubkeyHex); err != nil {
		writeError(w, err)
		return
	}

	path, err := s.Blobs.SafeSubpath("backups", req.UserPubkeyHex+".enc")
	if err != nil {
		writeError(w, errBadRequest("%v", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		writeError(w, errInternal("failed to create backup dir: %v", err))
		return
	}

	data := []byte(req.EncryptedData)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		writeError(w, errInternal("failed to write backup: %v", err))
		return
	}

	s.Log.Info("server: backup synced", logger.String("user", req.UserPubkeyHex), logger.Int("size", len(data)))
	writeJSON(w, http.StatusOK, backupSyncResponse{Stored: true, SizeBytes: len(data)})
}

// handleBackupSyncDownload returns the encrypted backup for a given user
// pubkey as a raw string body, matching the original's plain-text response.
func (s *State) handleBackupSyncDownload(w http.ResponseWriter, r *http.Request) {
	pubkeyHex := r.PathValue("pubkey_hex")
	if _, err := parseHex32(pubkeyHex); err != nil {
		writeError(w, err)
		return
	}

	path, err := s.Blobs.SafeSubpath("backups", pubkeyHex+".enc")
	if err != nil {
		writeError(w, errBadRequest("%v", err))
		return
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, errNotFound("no backup found for this user"))
		return
	}
	if err != nil {
		writeError(w, errInternal("failed to read backup: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

// verifyAdminToken checks the Authorization header against the
// configured admin token in constant time, so a partial match can't be
// distinguished from a full mismatch by response timing.
func (s *State) verifyAdminToken(r *http.Request) error {
	if s.Config.AdminToken == "" {
		return errForbidden("admin API is disabled (no admin_token configured)")
	}

	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")

	expected := []byte(s.Config.AdminToken)
	got := []byte(token)
	if len(got) != len(expected) || subtle.ConstantTimeCompare(got, expected) != 1 {
		return errForbidden("invalid admin token")
	}
	return nil
}

func (s *State) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	if err := s.verifyAdminToken(r); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":              s.Config.InstanceName,
		"premium_required":  s.Config.PremiumRequired,
		"registration_open": s.Config.RegistrationOpen,
		"max_peers":         s.Config.MaxPeers,
		"uptime_secs":       int64(s.uptime().Seconds()),
	})
}

type adminPremiumRequest struct {
	UserPubkeyHex string `json:"user_pubkey_hex"`
}

func (s *State) handleAdminGrantPremium(w http.ResponseWriter, r *http.Request) {
	if err := s.verifyAdminToken(r); err != nil {
		writeError(w, err)
		return
	}
	var req adminPremiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest("invalid JSON body: %v", err))
		return
	}
	pubkey, err := parseHex32(req.UserPubkeyHex)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Premium.AdminGrant(pubkey)
	s.Log.Info("server: admin granted premium", logger.String("user", req.UserPubkeyHex))
	writeJSON(w, http.StatusOK, map[string]bool{"granted": true})
}

func (s *State) handleAdminRevokePremium(w http.ResponseWriter, r *http.Request) {
	if err := s.verifyAdminToken(r); err != nil {
		writeError(w, err)
		return
	}
	var req adminPremiumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest("invalid JSON body: %v", err))
		return
	}
	pubkey, err := parseHex32(req.UserPubkeyHex)
	if err != nil {
		writeError(w, err)
		return
	}

	s.Premium.AdminRevoke(pubkey)
	s.Log.Info("server: admin revoked premium", logger.String("user", req.UserPubkeyHex))
	writeJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

// parseHex32 validates hex as exactly 64 lowercase-or-uppercase hex
// characters and decodes it to a 32-byte array, rejecting path-traversal
// characters as a side effect of requiring a fixed hex alphabet.
func parseHex32(hexStr string) ([32]byte, error) {
	var out [32]byte
	hexStr = strings.TrimSpace(hexStr)
	if len(hexStr) != 64 {
		return out, errBadRequest("expected 64 hex chars, got %d", len(hexStr))
	}
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return out, errBadRequest("invalid hex: %v", err)
	}
	copy(out[:], decoded)
	return out, nil
}
