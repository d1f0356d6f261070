package orch

import (
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// SetName changes the display name and pushes the name table to every room
// of the client. Empty names are ignored.
func (o *Orchestrator) SetName(id domain.ClientID, name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.setNameLocked(id, name) {
		return false
	}
	for _, room := range o.Registry.RoomsOf(id) {
		o.broadcastNamesLocked(room)
	}
	return true
}

// WhoAmI tells the client its own id, name and rooms.
func (o *Orchestrator) WhoAmI(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	name, ok := o.Registry.Name(id)
	if !ok {
		return
	}
	o.send(id, protocol.NewWhoAmI(id, domain.DisplayName(name, o.Options.DefaultName), o.Registry.RoomsOf(id)))
}

func (o *Orchestrator) setNameLocked(id domain.ClientID, name string) bool {
	n, err := domain.NormalizeName(name, o.Options.MaxNameLen)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(id)).Msg("name rejected")
		return false
	}
	return o.Registry.SetName(id, n)
}
