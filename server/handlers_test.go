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
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/admission"
	"github.com/liberte-project/liberte/blob"
	"github.com/liberte-project/liberte/config"
	"github.com/liberte-project/liberte/entitlement"
	"github.com/liberte-project/liberte/internal/logger"
)

func newTestState(t *testing.T, cfgMutate func(*config.Config)) (*State, ed25519.PrivateKey) {
	t.Helper()
	log := logger.NewDefaultLogger()

	bs, err := blob.New(t.TempDir(), blob.DefaultMaxSize, log)
	require.NoError(t, err)

	serverPub, serverPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	var serverPubArr [32]byte
	copy(serverPubArr[:], serverPub)

	cfg := &config.Config{
		InstanceName:           "test-relay",
		PremiumRequired:        false,
		RegistrationOpen:       true,
		MaxPeers:               256,
		AdminToken:             "s3cr3t",
		PaymentServerPubkeyHex: hex.EncodeToString(serverPub),
	}
	if cfgMutate != nil {
		cfgMutate(cfg)
	}

	limiter := admission.NewRateLimiter(1000, 1000)
	state := NewState(bs, entitlement.NewVerifier(serverPubArr, log), limiter, cfg, log)
	return state, serverPriv
}

func doRequest(t *testing.T, state *State, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	state, _ := newTestState(t, nil)
	rec := doRequest(t, state, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestInfoEndpoint(t *testing.T) {
	state, _ := newTestState(t, nil)
	rec := doRequest(t, state, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "test-relay", body["name"])
}

func TestPremiumVerifySkippedWhenNotRequired(t *testing.T) {
	state, _ := newTestState(t, func(c *config.Config) { c.PremiumRequired = false })
	rec := doRequest(t, state, http.MethodPost, "/premium/verify", []byte(`{}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"valid": true}`, rec.Body.String())
}

func TestPremiumVerifyAcceptsValidToken(t *testing.T) {
	state, serverPriv := newTestState(t, func(c *config.Config) { c.PremiumRequired = true })

	var userPub [32]byte
	_, _ = rand.Read(userPub[:])
	validUntil := time.Now().Add(time.Hour)
	token := entitlement.Sign(serverPriv, userPub, validUntil)

	reqBody, _ := json.Marshal(map[string]string{
		"user_pubkey_hex": hex.EncodeToString(userPub[:]),
		"valid_until":     validUntil.UTC().Format(time.RFC3339),
		"signature_hex":   hex.EncodeToString(token.Signature),
	})

	rec := doRequest(t, state, http.MethodPost, "/premium/verify", reqBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"valid": true}`, rec.Body.String())
}

func TestBlobUploadDownloadDelete(t *testing.T) {
	state, _ := newTestState(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "note.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("hello liberte"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/blob/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploadResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploadResp))
	id := uploadResp["id"]
	require.NotEmpty(t, id)

	rec = doRequest(t, state, http.MethodGet, "/blob/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello liberte", rec.Body.String())

	rec = doRequest(t, state, http.MethodDelete, "/blob/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, state, http.MethodGet, "/blob/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupSyncRoundTrip(t *testing.T) {
	state, _ := newTestState(t, nil)
	pubkeyHex := bytesHex(t, 32)

	reqBody, _ := json.Marshal(map[string]string{
		"user_pubkey_hex": pubkeyHex,
		"encrypted_data":  "ciphertext-blob",
	})
	rec := doRequest(t, state, http.MethodPost, "/backup/sync", reqBody)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, state, http.MethodGet, "/backup/"+pubkeyHex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ciphertext-blob", rec.Body.String())
}

func TestBackupSyncDownloadMissingReturnsNotFound(t *testing.T) {
	state, _ := newTestState(t, nil)
	rec := doRequest(t, state, http.MethodGet, "/backup/"+bytesHex(t, 32), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminStatusRequiresToken(t *testing.T) {
	state, _ := newTestState(t, nil)

	rec := doRequest(t, state, http.MethodGet, "/admin/status", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/status", nil)
	req.Header.Set("Authorization", "Bearer s3cr3t")
	rec2 := httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestAdminGrantAndRevokePremium(t *testing.T) {
	state, _ := newTestState(t, nil)
	pubkeyHex := bytesHex(t, 32)

	reqBody, _ := json.Marshal(map[string]string{"user_pubkey_hex": pubkeyHex})

	req := httptest.NewRequest(http.MethodPost, "/admin/grant-premium", bytes.NewReader(reqBody))
	req.Header.Set("Authorization", "Bearer s3cr3t")
	rec := httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/revoke-premium", bytes.NewReader(reqBody))
	req.Header.Set("Authorization", "Bearer s3cr3t")
	rec = httptest.NewRecorder()
	NewRouter(state).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	state, _ := newTestState(t, func(c *config.Config) { c.AdminToken = "" })
	rec := doRequest(t, state, http.MethodGet, "/admin/status", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func bytesHex(t *testing.T, n int) string {
	t.Helper()
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return hex.EncodeToString(buf)
}
