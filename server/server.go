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

// Package server exposes the relay's HTTP surface: health and info
// endpoints, premium-entitlement verification, blob upload/download,
// encrypted-backup sync, and an admin API gated by a bearer token.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/liberte-project/liberte/admission"
	"github.com/liberte-project/liberte/blob"
	"github.com/liberte-project/liberte/config"
	"github.com/liberte-project/liberte/entitlement"
	"github.com/liberte-project/liberte/internal/logger"
)

// maxRequestBody bounds every request body this server accepts,
// regardless of the configured blob size, mirroring the server-wide
// DefaultBodyLimit of the original API.
const maxRequestBody = 50 * 1024 * 1024

// Version is the build-reported API version string.
const Version = "0.1.0"

// State bundles everything a handler needs: storage, verifiers, and the
// static configuration they were built from.
type State struct {
	Blobs       *blob.Store
	Premium     *entitlement.Verifier
	RateLimiter *admission.RateLimiter
	Config      *config.Config
	Log         logger.Logger
	startedAt   time.Time
}

// NewState wires the given components into server state, stamping the
// current time as the process start for uptime reporting.
func NewState(blobs *blob.Store, premium *entitlement.Verifier, limiter *admission.RateLimiter, cfg *config.Config, log logger.Logger) *State {
	return &State{
		Blobs:       blobs,
		Premium:     premium,
		RateLimiter: limiter,
		Config:      cfg,
		Log:         log,
		startedAt:   time.Now(),
	}
}

func (s *State) uptime() time.Duration { return time.Since(s.startedAt) }

// NewRouter builds the complete HTTP handler: routes wrapped in body-size
// limiting, per-IP rate limiting, and permissive CORS, in that order from
// innermost to outermost -- the same layering the relay's Rust API used
// (body limit, then rate limiting, then CORS).
func NewRouter(state *State) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", state.handleHealth)
	mux.HandleFunc("GET /info", state.handleInfo)
	mux.HandleFunc("POST /premium/verify", state.handlePremiumVerify)
	mux.HandleFunc("POST /blob/upload", state.handleBlobUpload)
	mux.HandleFunc("GET /blob/{id}", state.handleBlobDownload)
	mux.HandleFunc("DELETE /blob/{id}", state.handleBlobDelete)
	mux.HandleFunc("POST /backup/sync", state.handleBackupSyncUpload)
	mux.HandleFunc("GET /backup/{pubkey_hex}", state.handleBackupSyncDownload)
	mux.HandleFunc("GET /admin/status", state.handleAdminStatus)
	mux.HandleFunc("POST /admin/grant-premium", state.handleAdminGrantPremium)
	mux.HandleFunc("POST /admin/revoke-premium", state.handleAdminRevokePremium)

	var handler http.Handler = http.MaxBytesHandler(mux, maxRequestBody)
	handler = state.RateLimiter.Middleware(state.Log, handler)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return corsMiddleware.Handler(handler)
}

// Serve builds the router and runs an http.Server on addr until ctx is
// cancelled, with the same conservative timeouts the relay uses for its
// other HTTP listeners.
func Serve(ctx context.Context, addr string, state *State) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(state),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		state.Log.Info("server: HTTP API listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
