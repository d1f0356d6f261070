package orch

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// RelaySDP forwards an offer or answer to peer, tagged with the sender.
// The payload is not inspected. A peer that is gone is silently skipped.
func (o *Orchestrator) RelaySDP(from, peer domain.ClientID, sd json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send(peer, protocol.NewSessionDescription(from, sd)) {
		o.Metrics.Relayed(string(protocol.KindRelaySDP))
	}
}

func (o *Orchestrator) RelayICE(from, peer domain.ClientID, candidate json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send(peer, protocol.NewICECandidate(from, candidate)) {
		o.Metrics.Relayed(string(protocol.KindRelayICE))
	}
}

// BroadcastChat sends text to every other member of the room with a server
// timestamp. It returns the number of members the message was queued for.
// Unlike a plain fan-out to the room, the sender has to be a member itself;
// chat from outside the room is dropped.
func (o *Orchestrator) BroadcastChat(from domain.ClientID, rawRoom, message, author string) int {
	room, err := domain.ParseRoomID(rawRoom)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(from)).Msg("chat to invalid room")
		return 0
	}
	if strings.TrimSpace(message) == "" {
		log.Debug().Str("module", "orch").Str("sid", string(from)).Msg("empty chat message")
		return 0
	}
	if limit := o.Options.MaxChatLen; limit > 0 && utf8.RuneCountInString(message) > limit {
		message = string([]rune(message)[:limit])
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Registry.IsMember(room, from) {
		log.Warn().Str("module", "orch").Str("sid", string(from)).Str("room", string(room)).Msg("chat from non-member")
		return 0
	}
	author, err = domain.NormalizeName(author, o.Options.MaxNameLen)
	if err != nil {
		name, _ := o.Registry.Name(from)
		author = domain.DisplayName(name, o.Options.DefaultName)
	}

	targets := make([]domain.ClientID, 0)
	for _, member := range o.Registry.MembersOf(room) {
		if member != from {
			targets = append(targets, member)
		}
	}
	sent := o.broadcast(targets, protocol.NewReceiveChat(from, message, author, o.timestampLocked()))
	if sent > 0 {
		o.Metrics.Relayed(string(protocol.KindSendChat))
	}
	return sent
}
