package app

import (
	"strings"

	"github.com/dkeye/Huddle/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a client whose outbound queue is full.
type Policy interface {
	OnBackPressure(id domain.ClientID) BackpressureAction
}

// DropPolicy loses the notification and keeps the client.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ClientID) BackpressureAction { return DropFrame }

// KickPolicy disconnects a client that cannot keep up.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ClientID) BackpressureAction { return KickMember }

// PolicyByName maps the slow_client_policy config value to a Policy.
func PolicyByName(name string) Policy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kick":
		return KickPolicy{}
	default:
		return DropPolicy{}
	}
}
