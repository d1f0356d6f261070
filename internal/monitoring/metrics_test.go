package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.SetClients(3)
	m.SetRooms(1)
	m.Joined()
	m.Joined()
	m.Left()
	m.Relayed("relay-sdp")
	m.Dropped("stale")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.clients))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rooms))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.joins))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.leaves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayed.WithLabelValues("relay-sdp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("stale")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SetClients(1)
		m.SetRooms(1)
		m.Joined()
		m.Left()
		m.Relayed("x")
		m.Dropped("y")
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetClients(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "huddle_connected_clients 2"))
}

func TestMetrics_InstancesIndependent(t *testing.T) {
	a, b := New(), New()
	a.Joined()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.joins))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.joins))
}
