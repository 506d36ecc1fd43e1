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

// Package wire implements the liberte wire protocol: the tagged union of
// messages peers exchange over gossip topics and direct streams, and its
// binary encoding.
package wire

import (
	"github.com/google/uuid"

	"github.com/liberte-project/liberte/identity"
)

// MaxMessageSize bounds any single encoded WireMessage. Decode rejects
// anything larger, and any length-prefixed field claiming to exceed it.
const MaxMessageSize = 262144

// ChannelID names a channel; channels are created locally and have no
// central registry, so a random UUID is sufficient.
type ChannelID uuid.UUID

func NewChannelID() ChannelID { return ChannelID(uuid.New()) }
func (c ChannelID) Topic() string { return "channel:" + uuid.UUID(c).String() }
func (c ChannelID) String() string { return uuid.UUID(c).String() }

// ServerID names a self-hosted relay/SFU/blob server.
type ServerID uuid.UUID

func NewServerID() ServerID { return ServerID(uuid.New()) }
func (s ServerID) String() string { return uuid.UUID(s).String() }

// ConnectionMode describes how a peer is currently reachable.
type ConnectionMode uint8

const (
	ConnectionDirect ConnectionMode = iota
	ConnectionRelayed
	ConnectionDisconnected
)

// FrameType distinguishes audio from video inside a VoiceFrame.
type FrameType uint8

const (
	FrameAudio FrameType = 0x01
	FrameVideo FrameType = 0x02
)

// VoiceEventKind enumerates the lifecycle events a voice session emits.
type VoiceEventKind uint8

const (
	VoiceJoin VoiceEventKind = iota
	VoiceLeave
	VoiceMute
	VoiceUnmute
)

// SignalKind enumerates the WebRTC signaling payload carried by a Signal
// message.
type SignalKind uint8

const (
	SignalOffer SignalKind = iota
	SignalAnswer
	SignalIceCandidate
	SignalHangup
)

// tag identifies a WireMessage variant on the wire.
type tag uint8

const (
	tagChatMessage tag = iota
	tagFileOffer
	tagFileAccept
	tagFileChunk
	tagSignal
	tagPeerStatus
	tagChannelInvite
	tagPremiumAuth
	tagTypingIndicator
	tagStatusUpdate
	tagMessageReaction
	tagVoiceFrame
	tagVoiceEvent
)

// Message is implemented by every WireMessage variant.
type Message interface {
	wireTag() tag
	encodeBody(*encoder)
}
