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

package wire

import (
	"time"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/identity"
)

// ChatMessage is an encrypted chat message addressed to a channel.
type ChatMessage struct {
	Sender           identity.UserID
	ChannelID        ChannelID
	EncryptedContent []byte // nonce || ciphertext || tag, see crypto.Encrypt
	Timestamp        time.Time
	MessageID        uuid.UUID
}

func (m ChatMessage) wireTag() tag { return tagChatMessage }
func (m ChatMessage) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.bytes(m.EncryptedContent)
	e.time(m.Timestamp)
	e.uuid(m.MessageID)
}

// FileOffer announces an in-flight file transfer and its integrity hash.
type FileOffer struct {
	Sender    identity.UserID
	ChannelID ChannelID
	FileID    uuid.UUID
	FileName  string
	FileSize  uint64
	FileHash  [32]byte // BLAKE3 hash of the unencrypted file
	Timestamp time.Time
}

func (m FileOffer) wireTag() tag { return tagFileOffer }
func (m FileOffer) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.uuid(m.FileID)
	e.str(m.FileName)
	e.uint64(m.FileSize)
	e.fixed(m.FileHash[:])
	e.time(m.Timestamp)
}

// FileAccept accepts a previously offered file transfer.
type FileAccept struct {
	FileID   uuid.UUID
	Accepter identity.UserID
}

func (m FileAccept) wireTag() tag { return tagFileAccept }
func (m FileAccept) encodeBody(e *encoder) {
	e.uuid(m.FileID)
	e.str(string(m.Accepter))
}

// FileChunk carries one piece of a direct peer-to-peer file transfer.
type FileChunk struct {
	FileID      uuid.UUID
	ChunkIndex  uint32
	TotalChunks uint32
	Data        []byte // encrypted chunk data
}

func (m FileChunk) wireTag() tag { return tagFileChunk }
func (m FileChunk) encodeBody(e *encoder) {
	e.uuid(m.FileID)
	e.uint32(m.ChunkIndex)
	e.uint32(m.TotalChunks)
	e.bytes(m.Data)
}

// Signal carries WebRTC session signaling (SDP/ICE) for a voice call.
type Signal struct {
	Sender    identity.UserID
	Target    identity.UserID
	ChannelID ChannelID
	Kind      SignalKind
	Payload   string // SDP or ICE candidate; empty for Hangup
}

func (m Signal) wireTag() tag { return tagSignal }
func (m Signal) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.str(string(m.Target))
	e.fixed(m.ChannelID[:])
	e.byte(byte(m.Kind))
	e.str(m.Payload)
}

// PeerStatus announces a peer's online/offline state and reachability.
type PeerStatus struct {
	UserID         identity.UserID
	Online         bool
	ConnectionMode ConnectionMode
	Timestamp      time.Time
}

func (m PeerStatus) wireTag() tag { return tagPeerStatus }
func (m PeerStatus) encodeBody(e *encoder) {
	e.str(string(m.UserID))
	e.bool(m.Online)
	e.byte(byte(m.ConnectionMode))
	e.time(m.Timestamp)
}

// ChannelInvite carries a channel's shared secret, encrypted for the
// recipient, alongside enough metadata to join.
type ChannelInvite struct {
	Inviter                identity.UserID
	ChannelID              ChannelID
	ServerID               *ServerID
	ChannelName            string
	EncryptedChannelSecret []byte
}

func (m ChannelInvite) wireTag() tag { return tagChannelInvite }
func (m ChannelInvite) encodeBody(e *encoder) {
	e.str(string(m.Inviter))
	e.fixed(m.ChannelID[:])
	e.bool(m.ServerID != nil)
	if m.ServerID != nil {
		e.fixed(m.ServerID[:])
	}
	e.str(m.ChannelName)
	e.bytes(m.EncryptedChannelSecret)
}

// PremiumAuth presents a signed entitlement token to an SFU/relay server.
type PremiumAuth struct {
	UserID identity.UserID
	Token  []byte
}

func (m PremiumAuth) wireTag() tag { return tagPremiumAuth }
func (m PremiumAuth) encodeBody(e *encoder) {
	e.str(string(m.UserID))
	e.bytes(m.Token)
}

// TypingIndicator signals that a user is composing a message in a channel.
type TypingIndicator struct {
	Sender    identity.UserID
	ChannelID ChannelID
	Timestamp time.Time
}

func (m TypingIndicator) wireTag() tag { return tagTypingIndicator }
func (m TypingIndicator) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.time(m.Timestamp)
}

// StatusUpdate carries a free-form presence status string for a channel.
type StatusUpdate struct {
	Sender    identity.UserID
	ChannelID ChannelID
	Status    string
	Timestamp time.Time
}

func (m StatusUpdate) wireTag() tag { return tagStatusUpdate }
func (m StatusUpdate) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.str(m.Status)
	e.time(m.Timestamp)
}

// MessageReaction adds or removes an emoji reaction on a prior message.
type MessageReaction struct {
	Sender    identity.UserID
	ChannelID ChannelID
	MessageID uuid.UUID
	Emoji     string
	Timestamp time.Time
	Removed   bool
}

func (m MessageReaction) wireTag() tag { return tagMessageReaction }
func (m MessageReaction) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.uuid(m.MessageID)
	e.str(m.Emoji)
	e.time(m.Timestamp)
	e.bool(m.Removed)
}

// VoiceFrame carries one encrypted audio or video frame for a live call.
type VoiceFrame struct {
	Sender    identity.UserID
	ChannelID ChannelID
	Kind      FrameType
	Sequence  uint32
	AudioData []byte // encrypted PCM/opus frame (or video frame)
	Timestamp time.Time
}

func (m VoiceFrame) wireTag() tag { return tagVoiceFrame }
func (m VoiceFrame) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.byte(byte(m.Kind))
	e.uint32(m.Sequence)
	e.bytes(m.AudioData)
	e.time(m.Timestamp)
}

// VoiceEvent announces a join/leave/mute/unmute transition in a call.
type VoiceEvent struct {
	Sender    identity.UserID
	ChannelID ChannelID
	Kind      VoiceEventKind
	Timestamp time.Time
}

func (m VoiceEvent) wireTag() tag { return tagVoiceEvent }
func (m VoiceEvent) encodeBody(e *encoder) {
	e.str(string(m.Sender))
	e.fixed(m.ChannelID[:])
	e.byte(byte(m.Kind))
	e.time(m.Timestamp)
}
