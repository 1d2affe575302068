package app

import "github.com/dkeye/ShareRoom/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(id domain.ConnID) BackpressureAction
}

// DropPolicy loses the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ConnID) BackpressureAction { return DropFrame }

// KickPolicy closes connections that cannot keep up.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ConnID) BackpressureAction { return KickMember }

// PolicyByName maps the slow_client_policy config value to a Policy.
func PolicyByName(name string) Policy {
	if name == "kick" {
		return KickPolicy{}
	}
	return DropPolicy{}
}
