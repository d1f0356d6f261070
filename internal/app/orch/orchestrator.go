package orch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/monitoring"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// DefaultName is shown for clients that never chose a name.
	DefaultName string
	MaxNameLen  int
	MaxChatLen  int
}

// Orchestrator owns every mutation of the registry. All exported methods run
// under one lock, so events are applied strictly one after another and the
// notifications of one event are queued before the next event starts.
// Queuing never blocks: delivery happens in the connection's write pump.
type Orchestrator struct {
	Registry *app.Registry
	Policy   app.Policy
	Metrics  *monitoring.Metrics
	Options  Options
	// Now defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	lastTS int64
}

// Connect registers a new client and shows it the current rooms.
// A non-empty name is used as its initial display name.
func (o *Orchestrator) Connect(id domain.ClientID, conn core.SignalConnection, cancel context.CancelFunc, name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Registry.Register(id, conn, cancel) {
		log.Warn().Str("module", "orch").Str("sid", string(id)).Msg("client id already registered")
		return false
	}
	if name != "" {
		o.setNameLocked(id, name)
	}
	o.Metrics.SetClients(o.Registry.ClientCount())
	o.shareRoomsLocked()
	return true
}

// OnDisconnect tears down every room of the client, then forgets it.
// Calling it again for the same client does nothing.
func (o *Orchestrator) OnDisconnect(id domain.ClientID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.Registry.Has(id) {
		log.Debug().Str("module", "orch").Str("sid", string(id)).Msg("disconnect of unknown client")
		return
	}
	o.leaveAllLocked(id)
	o.Registry.Cancel(id)
	o.Registry.Unregister(id)
	o.Metrics.SetClients(o.Registry.ClientCount())
	log.Info().Str("module", "orch").Str("sid", string(id)).Msg("client disconnected")
}

// Placeholder is the name reported for clients without one.
func (o *Orchestrator) Placeholder() string {
	return domain.DisplayName("", o.Options.DefaultName)
}

func (o *Orchestrator) shareRoomsLocked() {
	rooms := o.Registry.Rooms()
	o.Metrics.SetRooms(len(rooms))
	o.broadcast(o.Registry.ClientIDs(), protocol.NewShareRooms(rooms))
}

// broadcastNamesLocked sends the names of all members of room to each of them.
func (o *Orchestrator) broadcastNamesLocked(room domain.RoomID) {
	names := o.Registry.NamesOf(room, o.Placeholder())
	o.broadcast(o.Registry.MembersOf(room), protocol.NewUpdateUserNames(names))
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// timestampLocked never goes backwards, even if the wall clock does.
func (o *Orchestrator) timestampLocked() int64 {
	ts := o.now().UnixMilli()
	if ts < o.lastTS {
		ts = o.lastTS
	}
	o.lastTS = ts
	return ts
}

// broadcast encodes v once and queues it for every target. It returns the
// number of targets that accepted the frame.
func (o *Orchestrator) broadcast(targets []domain.ClientID, v any) int {
	if len(targets) == 0 {
		return 0
	}
	data, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return 0
	}
	sent := 0
	for _, id := range targets {
		if o.sendFrame(id, data) {
			sent++
		}
	}
	return sent
}

func (o *Orchestrator) send(to domain.ClientID, v any) bool {
	data, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return false
	}
	return o.sendFrame(to, data)
}

// sendFrame is best effort: a missing or slow target only costs a log line.
func (o *Orchestrator) sendFrame(to domain.ClientID, data core.Frame) bool {
	conn, ok := o.Registry.Conn(to)
	if !ok {
		o.Metrics.Dropped("stale")
		log.Debug().Str("module", "orch").Str("sid", string(to)).Msg("target gone, frame dropped")
		return false
	}
	err := conn.TrySend(data)
	switch {
	case err == nil:
		return true
	case errors.Is(err, core.ErrBackpressure):
		o.Metrics.Dropped("backpressure")
		log.Warn().Str("module", "orch").Str("sid", string(to)).Msg("send queue full, frame dropped")
		if o.Policy != nil && o.Policy.OnBackPressure(to) == app.KickMember {
			log.Warn().Str("module", "orch").Str("sid", string(to)).Msg("kicking slow client")
			conn.Close()
		}
	default:
		o.Metrics.Dropped("closed")
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(to)).Msg("frame dropped")
	}
	return false
}
