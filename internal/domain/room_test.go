package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomID(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  RoomID
		valid bool
	}{
		{"v4", "11111111-1111-4111-8111-111111111111", "11111111-1111-4111-8111-111111111111", true},
		{"upper case is canonicalised", "AAAAAAAA-AAAA-4AAA-9AAA-AAAAAAAAAAAA", "aaaaaaaa-aaaa-4aaa-9aaa-aaaaaaaaaaaa", true},
		{"v1", "11111111-1111-1111-8111-111111111111", "", false},
		{"wrong variant", "11111111-1111-4111-c111-111111111111", "", false},
		{"urn form", "urn:uuid:11111111-1111-4111-8111-111111111111", "", false},
		{"braces", "{11111111-1111-4111-8111-111111111111}", "", false},
		{"connection id", "Tq3P_xXoAAAB", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRoomID(tt.in)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrInvalidRoomID)
				assert.False(t, IsRoomID(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsRoomID(tt.in))
		})
	}
}

func TestClientIDIsNotARoom(t *testing.T) {
	for range 16 {
		id := NewClientID()
		assert.False(t, IsRoomID(string(id)), id)
		assert.Equal(t, uuid.Version(7), uuid.MustParse(string(id)).Version())
	}
	assert.NotEqual(t, NewClientID(), NewClientID())
}
