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

package client

// Event kinds the bridge emits on its Events channel. There is no embedded
// frontend here, so these replace what the original pushed across a Tauri
// event bridge; a CLI or any other front end drains Events() and renders
// them however it likes.
const (
	EventPeerConnected    = "peer_connected"
	EventPeerDisconnected = "peer_disconnected"
	EventNewMessage       = "new_message"
	EventTypingIndicator  = "typing_indicator"
	EventStatusChanged    = "status_changed"
	EventMessageReaction  = "message_reaction"
	EventVoicePeerJoined  = "voice_peer_joined"
	EventVoicePeerLeft    = "voice_peer_left"
	EventVoicePeerMuted   = "voice_peer_muted"
)

// Event is one notification surfaced to whatever is driving the Bridge.
// Fields is a flat string map so a CLI can print it or a future UI can
// marshal it to JSON without this package knowing about either.
type Event struct {
	Kind   string
	Fields map[string]string
}
