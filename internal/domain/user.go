// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxUsernameLen  = 36
	DefaultUsername = "Guest"
)

var ErrUsernameEmpty = errors.New("username empty")

// ClientID identifies one connection for its whole lifetime. It is never reused.
// Ids are version 7 UUIDs, so a client id is never mistaken for a room.
type ClientID string

func NewClientID() ClientID {
	return ClientID(uuid.Must(uuid.NewV7()).String())
}

// User is a client as shown to other clients.
type User struct {
	ID   ClientID `json:"id"`
	Name string   `json:"name"`
}

// NormalizeName trims the name and caps it to limit runes.
// A non-positive limit falls back to MaxUsernameLen.
func NormalizeName(name string, limit int) (string, error) {
	if limit <= 0 {
		limit = MaxUsernameLen
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrUsernameEmpty
	}
	if utf8.RuneCountInString(name) > limit {
		name = strings.TrimSpace(string([]rune(name)[:limit]))
	}
	return name, nil
}

// DisplayName returns name, or placeholder when the name was never set.
func DisplayName(name, placeholder string) string {
	if name != "" {
		return name
	}
	if placeholder == "" {
		return DefaultUsername
	}
	return placeholder
}
