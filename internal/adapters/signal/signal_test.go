package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoom = "11111111-1111-4111-8111-111111111111"

type inbox struct {
	Type        protocol.Kind   `json:"type"`
	PeerID      domain.ClientID `json:"peerID"`
	CreateOffer bool            `json:"createOffer"`
	Message     string          `json:"message"`
	Name        string          `json:"name"`
	Rooms       []domain.RoomID `json:"rooms"`
}

func drain(t *testing.T, c *WsSignalConn) []inbox {
	t.Helper()
	var out []inbox
	for {
		select {
		case b, ok := <-c.send:
			if !ok {
				return out
			}
			var m inbox
			require.NoError(t, json.Unmarshal(b, &m))
			out = append(out, m)
		default:
			return out
		}
	}
}

func kinds(msgs []inbox) []protocol.Kind {
	out := make([]protocol.Kind, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestWsSignalConn_TrySend(t *testing.T) {
	c := newWsSignalConn(nil, 1)

	require.NoError(t, c.TrySend(core.Frame(`{}`)))
	assert.ErrorIs(t, c.TrySend(core.Frame(`{}`)), core.ErrBackpressure)

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.TrySend(core.Frame(`{}`)), core.ErrClosed)
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{PongWait: 10 * time.Second, PingPeriod: 20 * time.Second}.withDefaults()
	assert.Equal(t, 9*time.Second, o.PingPeriod)
	assert.EqualValues(t, 64*1024, o.ReadLimit)
	assert.Equal(t, 64, o.SendBuffer)
	assert.Equal(t, 10*time.Second, o.WriteWait)
}

type dispatchHarness struct {
	ctl   *SignalWSController
	conns map[domain.ClientID]*WsSignalConn
}

func newDispatchHarness(t *testing.T, chatLimit int, ids ...domain.ClientID) *dispatchHarness {
	t.Helper()
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Policy:   app.DropPolicy{},
		Options:  orch.Options{DefaultName: "Guest", MaxNameLen: 36, MaxChatLen: 100},
	}
	h := &dispatchHarness{
		ctl:   NewSignalWSController(o, NewRoomRateLimiter(chatLimit, time.Hour), Options{SendBuffer: 32}),
		conns: make(map[domain.ClientID]*WsSignalConn),
	}
	for _, id := range ids {
		c := newWsSignalConn(nil, 32)
		require.True(t, o.Connect(id, c, nil, ""))
		h.conns[id] = c
	}
	return h
}

func (h *dispatchHarness) in(id domain.ClientID, raw string) {
	h.ctl.handleSignal(id, h.conns[id], []byte(raw))
}

func TestHandleSignal_JoinAndRelay(t *testing.T) {
	h := newDispatchHarness(t, 10, "a", "b")
	drain(t, h.conns["a"])
	drain(t, h.conns["b"])

	h.in("a", `{"type":"join","room":"`+testRoom+`"}`)
	h.in("b", `{"type":"join","room":"`+testRoom+`","name":"Bob"}`)

	b := drain(t, h.conns["b"])
	require.NotEmpty(t, b)
	assert.Equal(t, protocol.KindAddPeer, b[0].Type)
	assert.Equal(t, domain.ClientID("a"), b[0].PeerID)
	assert.True(t, b[0].CreateOffer)

	a := drain(t, h.conns["a"])
	assert.Contains(t, kinds(a), protocol.KindAddPeer)

	h.in("b", `{"type":"relay-ice","peerID":"a","iceCandidate":{"candidate":"candidate:1 1 udp 1 10.0.0.1 5000 typ host"}}`)
	a = drain(t, h.conns["a"])
	require.Len(t, a, 1)
	assert.Equal(t, protocol.KindICECandidate, a[0].Type)
	assert.Equal(t, domain.ClientID("b"), a[0].PeerID)
}

func TestHandleSignal_ChatRateLimited(t *testing.T) {
	h := newDispatchHarness(t, 1, "a", "b")
	h.in("a", `{"type":"join","room":"`+testRoom+`"}`)
	h.in("b", `{"type":"join","room":"`+testRoom+`"}`)
	drain(t, h.conns["a"])
	drain(t, h.conns["b"])

	chat := `{"type":"send-chat-message","roomID":"` + testRoom + `","message":"hi"}`
	h.in("a", chat)
	h.in("a", chat)

	got := drain(t, h.conns["b"])
	require.Len(t, got, 1)
	assert.Equal(t, protocol.KindReceiveChat, got[0].Type)
	assert.Equal(t, "hi", got[0].Message)
}

func TestHandleSignal_ControlFrames(t *testing.T) {
	h := newDispatchHarness(t, 10, "a")
	drain(t, h.conns["a"])

	h.in("a", `{"type":"ping"}`)
	h.in("a", `{"type":"set-user-name","name":"Alice"}`)
	h.in("a", `{"type":"whoami"}`)

	got := drain(t, h.conns["a"])
	require.Len(t, got, 2)
	assert.Equal(t, protocol.KindPong, got[0].Type)
	assert.Equal(t, "Alice", got[1].Name)
	assert.Empty(t, got[1].Rooms)
}

func TestHandleSignal_BadFramesDropped(t *testing.T) {
	h := newDispatchHarness(t, 10, "a")
	drain(t, h.conns["a"])

	for _, raw := range []string{
		`not json`,
		`{"type":"teleport"}`,
		`{"type":"join"}`,
		`{"type":"relay-sdp","peerID":"x"}`,
	} {
		h.in("a", raw)
	}
	assert.Empty(t, drain(t, h.conns["a"]))
	assert.True(t, h.ctl.Orch.Registry.Has("a"))
}

func TestHandleSignal_LeaveSingleRoom(t *testing.T) {
	const otherRoom = "22222222-2222-4222-9222-222222222222"
	h := newDispatchHarness(t, 10, "a", "b")
	h.in("a", `{"type":"join","room":"`+testRoom+`"}`)
	h.in("a", `{"type":"join","room":"`+otherRoom+`"}`)
	h.in("b", `{"type":"join","room":"`+testRoom+`"}`)
	drain(t, h.conns["a"])
	drain(t, h.conns["b"])

	h.in("a", `{"type":"leave","room":"`+testRoom+`"}`)
	assert.Equal(t, []domain.RoomID{otherRoom}, h.ctl.Orch.Registry.RoomsOf("a"))
	assert.Contains(t, kinds(drain(t, h.conns["b"])), protocol.KindRemovePeer)

	h.in("a", `{"type":"leave"}`)
	assert.Empty(t, h.ctl.Orch.Registry.RoomsOf("a"))
}
