package protocol

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/domain"
)

type AddPeer struct {
	Type        Kind            `json:"type"`
	PeerID      domain.ClientID `json:"peerID"`
	CreateOffer bool            `json:"createOffer"`
}

type RemovePeer struct {
	Type   Kind            `json:"type"`
	PeerID domain.ClientID `json:"peerID"`
}

type SessionDescription struct {
	Type               Kind            `json:"type"`
	PeerID             domain.ClientID `json:"peerID"`
	SessionDescription json.RawMessage `json:"sessionDescription"`
}

type ICECandidate struct {
	Type         Kind            `json:"type"`
	PeerID       domain.ClientID `json:"peerID"`
	IceCandidate json.RawMessage `json:"iceCandidate"`
}

type ShareRooms struct {
	Type  Kind            `json:"type"`
	Rooms []domain.RoomID `json:"rooms"`
}

type UpdateUserNames struct {
	Type  Kind                       `json:"type"`
	Names map[domain.ClientID]string `json:"names"`
}

// ReceiveChat.Timestamp is milliseconds since the Unix epoch, set by the server.
type ReceiveChat struct {
	Type      Kind            `json:"type"`
	PeerID    domain.ClientID `json:"peerID"`
	Message   string          `json:"message"`
	Author    string          `json:"author"`
	Timestamp int64           `json:"timestamp"`
}

type Pong struct {
	Type Kind `json:"type"`
}

type WhoAmIReply struct {
	Type  Kind            `json:"type"`
	ID    domain.ClientID `json:"id"`
	Name  string          `json:"name"`
	Rooms []domain.RoomID `json:"rooms"`
}

func NewAddPeer(peer domain.ClientID, createOffer bool) AddPeer {
	return AddPeer{Type: KindAddPeer, PeerID: peer, CreateOffer: createOffer}
}

func NewRemovePeer(peer domain.ClientID) RemovePeer {
	return RemovePeer{Type: KindRemovePeer, PeerID: peer}
}

func NewSessionDescription(from domain.ClientID, sd json.RawMessage) SessionDescription {
	return SessionDescription{Type: KindSessionDescription, PeerID: from, SessionDescription: sd}
}

func NewICECandidate(from domain.ClientID, c json.RawMessage) ICECandidate {
	return ICECandidate{Type: KindICECandidate, PeerID: from, IceCandidate: c}
}

func NewShareRooms(rooms []domain.RoomID) ShareRooms {
	if rooms == nil {
		rooms = []domain.RoomID{}
	}
	return ShareRooms{Type: KindShareRooms, Rooms: rooms}
}

func NewUpdateUserNames(names map[domain.ClientID]string) UpdateUserNames {
	return UpdateUserNames{Type: KindUpdateUserNames, Names: names}
}

func NewReceiveChat(from domain.ClientID, message, author string, ts int64) ReceiveChat {
	return ReceiveChat{Type: KindReceiveChat, PeerID: from, Message: message, Author: author, Timestamp: ts}
}

func NewPong() Pong { return Pong{Type: KindPong} }

func NewWhoAmI(id domain.ClientID, name string, rooms []domain.RoomID) WhoAmIReply {
	if rooms == nil {
		rooms = []domain.RoomID{}
	}
	return WhoAmIReply{Type: KindWhoAmI, ID: id, Name: name, Rooms: rooms}
}

// Encode marshals an outbound frame.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
