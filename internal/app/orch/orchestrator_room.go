package orch

import (
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join adds the client to a room and builds its links to every member.
// Existing members are told not to offer; the newcomer offers to each of
// them, so every pair has exactly one initiator. A non-empty name becomes the
// client's display name and is sent to every room the client is in.
// Invalid room ids and repeated joins are ignored.
func (o *Orchestrator) Join(id domain.ClientID, rawRoom, name string) bool {
	room, err := domain.ParseRoomID(rawRoom)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(id)).Str("room", rawRoom).Msg("join rejected")
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Registry.Has(id) {
		log.Warn().Str("module", "orch").Str("sid", string(id)).Msg("join from unknown client")
		return false
	}
	if o.Registry.IsMember(room, id) {
		log.Warn().Str("module", "orch").Str("sid", string(id)).Str("room", string(room)).Msg("already joined")
		return false
	}
	renamed := name != "" && o.setNameLocked(id, name)

	for _, member := range o.Registry.MembersOf(room) {
		o.send(member, protocol.NewAddPeer(id, false))
		o.send(id, protocol.NewAddPeer(member, true))
	}
	o.Registry.Add(room, id)
	o.Metrics.Joined()
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(room)).Msg("joined room")

	o.shareRoomsLocked()
	if !renamed {
		o.broadcastNamesLocked(room)
		return true
	}
	for _, r := range o.Registry.RoomsOf(id) {
		o.broadcastNamesLocked(r)
	}
	return true
}

// Leave removes the client from every room it is in and returns how many
// rooms it left.
func (o *Orchestrator) Leave(id domain.ClientID) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.leaveAllLocked(id)
}

// LeaveRoom removes the client from a single room. Leaving a room the client
// is not in does nothing.
func (o *Orchestrator) LeaveRoom(id domain.ClientID, rawRoom string) bool {
	room, err := domain.ParseRoomID(rawRoom)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(id)).Str("room", rawRoom).Msg("leave rejected")
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.leaveRoomLocked(id, room) {
		return false
	}
	o.shareRoomsLocked()
	return true
}

func (o *Orchestrator) leaveAllLocked(id domain.ClientID) int {
	left := 0
	for _, room := range o.Registry.RoomsOf(id) {
		if o.leaveRoomLocked(id, room) {
			left++
		}
	}
	if left > 0 {
		o.shareRoomsLocked()
	}
	return left
}

func (o *Orchestrator) leaveRoomLocked(id domain.ClientID, room domain.RoomID) bool {
	if !o.Registry.IsMember(room, id) {
		return false
	}
	for _, member := range o.Registry.MembersOf(room) {
		if member == id {
			continue
		}
		o.send(member, protocol.NewRemovePeer(id))
		o.send(id, protocol.NewRemovePeer(member))
	}
	o.Registry.Remove(room, id)
	o.Metrics.Left()
	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(room)).Msg("left room")
	return true
}
