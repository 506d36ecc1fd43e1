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
	"errors"
	"fmt"

	"github.com/liberte-project/liberte/identity"
)

// ErrUnknownTag is returned by Decode when the leading tag byte does not
// name any known WireMessage variant.
var ErrUnknownTag = errors.New("wire: unknown message tag")

// ErrMessageTooLarge is returned by both Encode and Decode when a message
// would exceed MaxMessageSize.
var ErrMessageTooLarge = errors.New("wire: message exceeds maximum size")

// Encode serializes a WireMessage to its binary wire form: a single tag
// byte followed by the variant's length-prefixed fields.
func Encode(m Message) ([]byte, error) {
	e := newEncoder()
	e.byte(byte(m.wireTag()))
	m.encodeBody(e)
	if len(e.buf) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	return e.buf, nil
}

// Decode parses a WireMessage from its binary wire form. Any malformed,
// truncated, oversized, or unrecognized-tag input is reported as an error
// without partially populating a result.
func Decode(data []byte) (Message, error) {
	if len(data) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	if len(data) == 0 {
		return nil, ErrTruncated
	}
	d := newDecoder(data)
	t, err := d.byte()
	if err != nil {
		return nil, err
	}

	var msg Message
	switch tag(t) {
	case tagChatMessage:
		msg, err = decodeChatMessage(d)
	case tagFileOffer:
		msg, err = decodeFileOffer(d)
	case tagFileAccept:
		msg, err = decodeFileAccept(d)
	case tagFileChunk:
		msg, err = decodeFileChunk(d)
	case tagSignal:
		msg, err = decodeSignal(d)
	case tagPeerStatus:
		msg, err = decodePeerStatus(d)
	case tagChannelInvite:
		msg, err = decodeChannelInvite(d)
	case tagPremiumAuth:
		msg, err = decodePremiumAuth(d)
	case tagTypingIndicator:
		msg, err = decodeTypingIndicator(d)
	case tagStatusUpdate:
		msg, err = decodeStatusUpdate(d)
	case tagMessageReaction:
		msg, err = decodeMessageReaction(d)
	case tagVoiceFrame:
		msg, err = decodeVoiceFrame(d)
	case tagVoiceEvent:
		msg, err = decodeVoiceEvent(d)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, t)
	}
	if err != nil {
		return nil, err
	}
	if !d.done() {
		return nil, fmt.Errorf("wire: %d trailing bytes after message", d.remaining())
	}
	return msg, nil
}

func decodeChatMessage(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	content, err := d.bytes()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	msgID, err := d.uuidField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return ChatMessage{
		Sender:           identity.UserID(sender),
		ChannelID:        cid,
		EncryptedContent: content,
		Timestamp:        ts,
		MessageID:        msgID,
	}, nil
}

func decodeFileOffer(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	fileID, err := d.uuidField()
	if err != nil {
		return nil, err
	}
	name, err := d.str()
	if err != nil {
		return nil, err
	}
	size, err := d.uint64()
	if err != nil {
		return nil, err
	}
	hash, err := d.fixed(32)
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	var h [32]byte
	copy(h[:], hash)
	return FileOffer{
		Sender:    identity.UserID(sender),
		ChannelID: cid,
		FileID:    fileID,
		FileName:  name,
		FileSize:  size,
		FileHash:  h,
		Timestamp: ts,
	}, nil
}

func decodeFileAccept(d *decoder) (Message, error) {
	fileID, err := d.uuidField()
	if err != nil {
		return nil, err
	}
	accepter, err := d.str()
	if err != nil {
		return nil, err
	}
	return FileAccept{FileID: fileID, Accepter: identity.UserID(accepter)}, nil
}

func decodeFileChunk(d *decoder) (Message, error) {
	fileID, err := d.uuidField()
	if err != nil {
		return nil, err
	}
	idx, err := d.uint32()
	if err != nil {
		return nil, err
	}
	total, err := d.uint32()
	if err != nil {
		return nil, err
	}
	data, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return FileChunk{FileID: fileID, ChunkIndex: idx, TotalChunks: total, Data: data}, nil
}

func decodeSignal(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	target, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	kind, err := d.byte()
	if err != nil {
		return nil, err
	}
	payload, err := d.str()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return Signal{
		Sender:    identity.UserID(sender),
		Target:    identity.UserID(target),
		ChannelID: cid,
		Kind:      SignalKind(kind),
		Payload:   payload,
	}, nil
}

func decodePeerStatus(d *decoder) (Message, error) {
	userID, err := d.str()
	if err != nil {
		return nil, err
	}
	online, err := d.boolean()
	if err != nil {
		return nil, err
	}
	mode, err := d.byte()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	return PeerStatus{
		UserID:         identity.UserID(userID),
		Online:         online,
		ConnectionMode: ConnectionMode(mode),
		Timestamp:      ts,
	}, nil
}

func decodeChannelInvite(d *decoder) (Message, error) {
	inviter, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	hasServer, err := d.boolean()
	if err != nil {
		return nil, err
	}
	var serverID *ServerID
	if hasServer {
		sidBytes, err := d.fixed(16)
		if err != nil {
			return nil, err
		}
		var sid ServerID
		copy(sid[:], sidBytes)
		serverID = &sid
	}
	name, err := d.str()
	if err != nil {
		return nil, err
	}
	secret, err := d.bytes()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return ChannelInvite{
		Inviter:                identity.UserID(inviter),
		ChannelID:              cid,
		ServerID:               serverID,
		ChannelName:            name,
		EncryptedChannelSecret: secret,
	}, nil
}

func decodePremiumAuth(d *decoder) (Message, error) {
	userID, err := d.str()
	if err != nil {
		return nil, err
	}
	token, err := d.bytes()
	if err != nil {
		return nil, err
	}
	return PremiumAuth{UserID: identity.UserID(userID), Token: token}, nil
}

func decodeTypingIndicator(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return TypingIndicator{Sender: identity.UserID(sender), ChannelID: cid, Timestamp: ts}, nil
}

func decodeStatusUpdate(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	status, err := d.str()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return StatusUpdate{Sender: identity.UserID(sender), ChannelID: cid, Status: status, Timestamp: ts}, nil
}

func decodeMessageReaction(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	msgID, err := d.uuidField()
	if err != nil {
		return nil, err
	}
	emoji, err := d.str()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	removed, err := d.boolean()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return MessageReaction{
		Sender:    identity.UserID(sender),
		ChannelID: cid,
		MessageID: msgID,
		Emoji:     emoji,
		Timestamp: ts,
		Removed:   removed,
	}, nil
}

func decodeVoiceFrame(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	kind, err := d.byte()
	if err != nil {
		return nil, err
	}
	seq, err := d.uint32()
	if err != nil {
		return nil, err
	}
	data, err := d.bytes()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return VoiceFrame{
		Sender:    identity.UserID(sender),
		ChannelID: cid,
		Kind:      FrameType(kind),
		Sequence:  seq,
		AudioData: data,
		Timestamp: ts,
	}, nil
}

func decodeVoiceEvent(d *decoder) (Message, error) {
	sender, err := d.str()
	if err != nil {
		return nil, err
	}
	channelID, err := d.fixed(16)
	if err != nil {
		return nil, err
	}
	kind, err := d.byte()
	if err != nil {
		return nil, err
	}
	ts, err := d.timeField()
	if err != nil {
		return nil, err
	}
	var cid ChannelID
	copy(cid[:], channelID)
	return VoiceEvent{Sender: identity.UserID(sender), ChannelID: cid, Kind: VoiceEventKind(kind), Timestamp: ts}, nil
}
