package app

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type clientEntry struct {
	Conn   core.SignalConnection
	Cancel context.CancelFunc
	Name   string
	Rooms  map[domain.RoomID]struct{}
}

// Registry tracks connected clients and room membership. A client's room set
// and the member sets of rooms are updated together under one lock, so a
// reader never sees one without the other.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.ClientID]*clientEntry
	rooms   map[domain.RoomID]map[domain.ClientID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[domain.ClientID]*clientEntry),
		rooms:   make(map[domain.RoomID]map[domain.ClientID]struct{}),
	}
}

// Register adds a client with no rooms and no name. It reports false if the id
// is already taken.
func (r *Registry) Register(id domain.ClientID, conn core.SignalConnection, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; ok {
		return false
	}
	r.clients[id] = &clientEntry{
		Conn:   conn,
		Cancel: cancel,
		Rooms:  make(map[domain.RoomID]struct{}),
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("registered client")
	return true
}

// Unregister purges the client. Any room membership still present is dropped
// as well, so the registry stays consistent even if teardown was skipped.
func (r *Registry) Unregister(id domain.ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.clients[id]
	if !ok {
		return false
	}
	for room := range e.Rooms {
		r.removeLocked(room, id)
	}
	delete(r.clients, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("unregistered client")
	return true
}

func (r *Registry) Has(id domain.ClientID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[id]
	return ok
}

func (r *Registry) Conn(id domain.ClientID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.clients[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) Cancel(id domain.ClientID) bool {
	r.mu.RLock()
	e, ok := r.clients[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Debug().Str("module", "app.registry").Str("sid", string(id)).Msg("canceled session")
	return true
}

// ClientIDs returns every registered client in a stable order.
func (r *Registry) ClientIDs() []domain.ClientID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ClientID, 0, len(r.clients))
	for id := range r.clients {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Registry) SetName(id domain.ClientID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.clients[id]
	if !ok {
		return false
	}
	e.Name = name
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("username", name).Msg("updated username")
	return true
}

// Name returns the stored display name, empty if it was never set.
func (r *Registry) Name(id domain.ClientID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.clients[id]
	if !ok {
		return "", false
	}
	return e.Name, true
}

// Add puts id into room. It reports false when the client is unknown or
// already a member.
func (r *Registry) Add(room domain.RoomID, id domain.ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.clients[id]
	if !ok {
		return false
	}
	if _, joined := e.Rooms[room]; joined {
		return false
	}
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[domain.ClientID]struct{})
		r.rooms[room] = members
	}
	members[id] = struct{}{}
	e.Rooms[room] = struct{}{}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("room", string(room)).Msg("member added")
	return true
}

// Remove takes id out of room. An empty room is forgotten.
func (r *Registry) Remove(room domain.RoomID, id domain.ClientID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(room, id)
}

func (r *Registry) removeLocked(room domain.RoomID, id domain.ClientID) bool {
	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[id]; !ok {
		return false
	}
	delete(members, id)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if e, ok := r.clients[id]; ok {
		delete(e.Rooms, room)
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("room", string(room)).Msg("member removed")
	return true
}

func (r *Registry) IsMember(room domain.RoomID, id domain.ClientID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room][id]
	return ok
}

// MembersOf returns the members of room in a stable order.
func (r *Registry) MembersOf(room domain.RoomID) []domain.ClientID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]domain.ClientID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// RoomsOf returns the rooms id has joined in a stable order.
func (r *Registry) RoomsOf(id domain.ClientID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.clients[id]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(e.Rooms))
	for room := range e.Rooms {
		out = append(out, room)
	}
	slices.Sort(out)
	return out
}

// Rooms lists every non-empty room whose id is a UUIDv4.
func (r *Registry) Rooms() []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomID, 0, len(r.rooms))
	for room, members := range r.rooms {
		if len(members) == 0 || !domain.IsRoomID(string(room)) {
			continue
		}
		out = append(out, room)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) RoomInfos() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for room, members := range r.rooms {
		if len(members) == 0 || !domain.IsRoomID(string(room)) {
			continue
		}
		out = append(out, core.RoomInfo{ID: room, MemberCount: len(members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// NamesOf maps every member of room to its display name, with placeholder
// standing in for names that were never set.
func (r *Registry) NamesOf(room domain.RoomID, placeholder string) map[domain.ClientID]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make(map[domain.ClientID]string, len(members))
	for id := range members {
		name := ""
		if e, ok := r.clients[id]; ok {
			name = e.Name
		}
		out[id] = domain.DisplayName(name, placeholder)
	}
	return out
}

// MembersSnapshot lists the members of room with their display names.
func (r *Registry) MembersSnapshot(room domain.RoomID, placeholder string) []domain.User {
	names := r.NamesOf(room, placeholder)
	out := make([]domain.User, 0, len(names))
	for id, name := range names {
		out = append(out, domain.User{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
