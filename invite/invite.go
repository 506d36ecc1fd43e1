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

// Package invite implements signed, time-limited channel invite tokens: a
// copy-pasteable code that carries a channel's shared secret in the clear
// (anyone holding the code can join), but signed so its origin and
// integrity can be checked.
package invite

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"

	"github.com/liberte-project/liberte/identity"
	"github.com/liberte-project/liberte/wire"
)

// Duration is the fixed lifetime of every invite token from creation.
const Duration = 5 * time.Minute

var (
	ErrInvalidFormat    = errors.New("invite: invalid format")
	ErrExpired          = errors.New("invite: token has expired")
	ErrInvalidSignature = errors.New("invite: invalid signature")
)

// Payload is the signed content of an invite token.
type Payload struct {
	ChannelID     wire.ChannelID
	ChannelName   string
	InviterPubkey [32]byte
	ChannelKey    [32]byte
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// Token is a signed, portable invite: anyone who can decode and verify it
// learns the channel's shared secret.
type Token struct {
	Payload   Payload
	Signature []byte
}

// Create mints a new invite token for channelID/channelName carrying
// channelKey, signed by id and valid for Duration from now.
func Create(id *identity.Identity, channelID wire.ChannelID, channelName string, channelKey [32]byte) Token {
	now := time.Now().UTC()
	var pubkey [32]byte
	copy(pubkey[:], id.PublicKeyBytes())

	payload := Payload{
		ChannelID:     channelID,
		ChannelName:   channelName,
		InviterPubkey: pubkey,
		ChannelKey:    channelKey,
		CreatedAt:     now,
		ExpiresAt:     now.Add(Duration),
	}
	sig := id.Sign(encodePayload(payload))
	return Token{Payload: payload, Signature: sig}
}

// Encode renders the token as a copy-pasteable base64url (no padding) code.
func (t Token) Encode() string {
	return base64.RawURLEncoding.EncodeToString(encodeToken(t))
}

// Decode parses a code produced by Encode. It does not check expiry or
// signature; call Verify for that.
func Decode(code string) (Token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return Token{}, ErrInvalidFormat
	}
	return decodeToken(raw)
}

// Verify checks expiry first, then the Ed25519 signature over the payload.
// An expired token reports ErrExpired whether or not its signature is
// valid; ErrInvalidSignature is returned only for unexpired tokens.
func (t Token) Verify() error {
	if time.Now().UTC().After(t.Payload.ExpiresAt) {
		return ErrExpired
	}
	if len(t.Signature) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(t.Payload.InviterPubkey[:], encodePayload(t.Payload), t.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func encodePayload(p Payload) []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, p.ChannelID[:]...)
	buf = appendStr(buf, p.ChannelName)
	buf = append(buf, p.InviterPubkey[:]...)
	buf = append(buf, p.ChannelKey[:]...)
	buf = appendTime(buf, p.CreatedAt)
	buf = appendTime(buf, p.ExpiresAt)
	return buf
}

func encodeToken(t Token) []byte {
	buf := encodePayload(t.Payload)
	buf = appendBytes(buf, t.Signature)
	return buf
}

func decodeToken(raw []byte) (Token, error) {
	pos := 0
	readFixed := func(n int) ([]byte, error) {
		if len(raw)-pos < n {
			return nil, ErrInvalidFormat
		}
		b := raw[pos : pos+n]
		pos += n
		return b, nil
	}
	readUint32 := func() (uint32, error) {
		b, err := readFixed(4)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint32(b), nil
	}
	readBytes := func() ([]byte, error) {
		n, err := readUint32()
		if err != nil {
			return nil, err
		}
		return readFixed(int(n))
	}
	readStr := func() (string, error) {
		b, err := readBytes()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	readTime := func() (time.Time, error) {
		b, err := readFixed(8)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(0, int64(binary.LittleEndian.Uint64(b))).UTC(), nil
	}

	channelIDBytes, err := readFixed(16)
	if err != nil {
		return Token{}, err
	}
	name, err := readStr()
	if err != nil {
		return Token{}, err
	}
	pubkeyBytes, err := readFixed(32)
	if err != nil {
		return Token{}, err
	}
	channelKeyBytes, err := readFixed(32)
	if err != nil {
		return Token{}, err
	}
	createdAt, err := readTime()
	if err != nil {
		return Token{}, err
	}
	expiresAt, err := readTime()
	if err != nil {
		return Token{}, err
	}
	sig, err := readBytes()
	if err != nil {
		return Token{}, err
	}
	if pos != len(raw) {
		return Token{}, ErrInvalidFormat
	}

	var channelID wire.ChannelID
	copy(channelID[:], channelIDBytes)
	var pubkey, channelKey [32]byte
	copy(pubkey[:], pubkeyBytes)
	copy(channelKey[:], channelKeyBytes)

	return Token{
		Payload: Payload{
			ChannelID:     channelID,
			ChannelName:   name,
			InviterPubkey: pubkey,
			ChannelKey:    channelKey,
			CreatedAt:     createdAt,
			ExpiresAt:     expiresAt,
		},
		Signature: sig,
	}, nil
}

func appendBytes(buf []byte, b []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, b...)
}

func appendStr(buf []byte, s string) []byte { return appendBytes(buf, []byte(s)) }

func appendTime(buf []byte, t time.Time) []byte {
	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(t.UnixNano()))
	return append(buf, tsBuf[:]...)
}

