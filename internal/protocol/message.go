// Package protocol defines the closed set of JSON frames exchanged with
// clients over the signalling socket. Every frame carries a "type"
// discriminator; inbound frames are decoded once, here, into typed values.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Huddle/internal/domain"
)

type Kind string

// Client to server.
const (
	KindJoin     Kind = "join"
	KindLeave    Kind = "leave"
	KindSetName  Kind = "set-user-name"
	KindRelaySDP Kind = "relay-sdp"
	KindRelayICE Kind = "relay-ice"
	KindSendChat Kind = "send-chat-message"
	KindPing     Kind = "ping"
	KindWhoAmI   Kind = "whoami"
)

// Server to client.
const (
	KindAddPeer            Kind = "add-peer"
	KindRemovePeer         Kind = "remove-peer"
	KindSessionDescription Kind = "session-description"
	KindICECandidate       Kind = "ice-candidate"
	KindShareRooms         Kind = "share-rooms"
	KindUpdateUserNames    Kind = "update-user-names"
	KindReceiveChat        Kind = "receive-chat-message"
	KindPong               Kind = "pong"
)

var (
	ErrMalformed   = errors.New("malformed frame")
	ErrUnknownKind = errors.New("unknown frame type")
)

// Inbound is implemented by every client to server frame.
type Inbound interface {
	Kind() Kind
}

type Join struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}

// Leave without a room leaves every room the client is in.
type Leave struct {
	Room string `json:"room,omitempty"`
}

type SetName struct {
	Name string `json:"name"`
}

// RelaySDP carries an offer or answer for PeerID. The description is kept
// as raw bytes and forwarded untouched.
type RelaySDP struct {
	PeerID             domain.ClientID `json:"peerID"`
	SessionDescription json.RawMessage `json:"sessionDescription"`
}

type RelayICE struct {
	PeerID       domain.ClientID `json:"peerID"`
	IceCandidate json.RawMessage `json:"iceCandidate"`
}

type SendChat struct {
	RoomID  string `json:"roomID"`
	Message string `json:"message"`
	Author  string `json:"author,omitempty"`
}

type Ping struct{}

type WhoAmI struct{}

func (Join) Kind() Kind     { return KindJoin }
func (Leave) Kind() Kind    { return KindLeave }
func (SetName) Kind() Kind  { return KindSetName }
func (RelaySDP) Kind() Kind { return KindRelaySDP }
func (RelayICE) Kind() Kind { return KindRelayICE }
func (SendChat) Kind() Kind { return KindSendChat }
func (Ping) Kind() Kind     { return KindPing }
func (WhoAmI) Kind() Kind   { return KindWhoAmI }

// Decode parses one inbound frame. Errors wrap ErrMalformed or ErrUnknownKind.
func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case KindJoin:
		var m Join
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		if m.Room == "" {
			return nil, fmt.Errorf("%w: join without room", ErrMalformed)
		}
		return m, nil
	case KindLeave:
		var m Leave
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case KindSetName:
		var m SetName
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case KindRelaySDP:
		var m RelaySDP
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		if m.PeerID == "" {
			return nil, fmt.Errorf("%w: relay-sdp without peerID", ErrMalformed)
		}
		if err := checkSessionDescription(m.SessionDescription); err != nil {
			return nil, err
		}
		return m, nil
	case KindRelayICE:
		var m RelayICE
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		if m.PeerID == "" {
			return nil, fmt.Errorf("%w: relay-ice without peerID", ErrMalformed)
		}
		if err := checkCandidate(m.IceCandidate); err != nil {
			return nil, err
		}
		return m, nil
	case KindSendChat:
		var m SendChat
		if err := decodeInto(data, &m); err != nil {
			return nil, err
		}
		if m.RoomID == "" {
			return nil, fmt.Errorf("%w: chat without roomID", ErrMalformed)
		}
		return m, nil
	case KindPing:
		return Ping{}, nil
	case KindWhoAmI:
		return WhoAmI{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
}

func decodeInto(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// checkSessionDescription only verifies the shape; the bytes are forwarded as is.
func checkSessionDescription(raw json.RawMessage) error {
	if isAbsent(raw) {
		return fmt.Errorf("%w: missing sessionDescription", ErrMalformed)
	}
	var sd webrtc.SessionDescription
	if err := json.Unmarshal(raw, &sd); err != nil {
		return fmt.Errorf("%w: sessionDescription: %v", ErrMalformed, err)
	}
	if sd.SDP == "" {
		return fmt.Errorf("%w: sessionDescription without sdp", ErrMalformed)
	}
	return nil
}

func checkCandidate(raw json.RawMessage) error {
	if isAbsent(raw) {
		return fmt.Errorf("%w: missing iceCandidate", ErrMalformed)
	}
	var ci webrtc.ICECandidateInit
	if err := json.Unmarshal(raw, &ci); err != nil {
		return fmt.Errorf("%w: iceCandidate: %v", ErrMalformed, err)
	}
	return nil
}
