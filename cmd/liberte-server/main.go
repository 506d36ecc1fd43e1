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

// Command liberte-server runs a relay/SFU instance: a libp2p circuit-relay
// host for clients that cannot connect directly to each other, plus the
// HTTP API for blob storage, encrypted backup sync, and premium
// entitlement checks.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liberte-project/liberte/admission"
	"github.com/liberte-project/liberte/blob"
	"github.com/liberte-project/liberte/config"
	"github.com/liberte-project/liberte/entitlement"
	"github.com/liberte-project/liberte/internal/logger"
	"github.com/liberte-project/liberte/relayserver"
	"github.com/liberte-project/liberte/server"
	"github.com/liberte-project/liberte/sfu"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "liberte-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.NewDefaultLogger()
	log.Info("starting liberte relay server", logger.String("version", server.Version))
	log.Info("self-hosted instance settings",
		logger.String("instance", cfg.InstanceName),
		logger.Bool("premium_required", cfg.PremiumRequired),
		logger.Bool("registration_open", cfg.RegistrationOpen),
		logger.Bool("admin_enabled", cfg.AdminToken != ""),
	)

	blobStore, err := blob.New(cfg.BlobStoragePath, cfg.MaxBlobSize, log)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	var serverPubkey [32]byte
	if cfg.PaymentServerPubkeyHex != "" {
		decoded, err := hex.DecodeString(cfg.PaymentServerPubkeyHex)
		if err != nil || len(decoded) != 32 {
			return fmt.Errorf("invalid payment_server_pubkey: must be 64 hex chars")
		}
		copy(serverPubkey[:], decoded)
	}
	premiumVerifier := entitlement.NewVerifier(serverPubkey, log)

	rateLimiter := admission.NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitBurst)

	// The SFU manager is constructed and discarded: no HTTP route or relay
	// handler holds a reference to it, so no room is ever created here.
	_ = sfu.NewManager(log)

	state := server.NewState(blobStore, premiumVerifier, rateLimiter, cfg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stop := make(chan struct{})
	go rateLimiter.Run(5*time.Minute, 10*time.Minute, stop)
	go purgeExpiredPremiumLoop(ctx, premiumVerifier, 10*time.Minute)

	// TODO: persist the relay's libp2p keypair to disk for production so
	// its peer id survives a restart.
	var relaySeed [32]byte
	if _, err := rand.Read(relaySeed[:]); err != nil {
		return fmt.Errorf("generate relay keypair seed: %w", err)
	}
	relay, err := relayserver.Spawn(ctx, relaySeed, cfg.ListenAddr, log)
	if err != nil {
		return fmt.Errorf("start relay: %w", err)
	}
	defer relay.Close()
	log.Info("relay server running in background",
		logger.String("peer_id", relay.PeerID()),
		logger.String("addr", cfg.ListenAddr),
	)

	err = server.Serve(ctx, cfg.HTTPAddr, state)
	close(stop)
	return err
}

func purgeExpiredPremiumLoop(ctx context.Context, v *entitlement.Verifier, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.PurgeExpired()
		}
	}
}
