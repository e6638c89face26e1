package app

import (
	"fmt"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose queue rejected a frame.
type Policy interface {
	OnBackPressure(roomID domain.RoomID, sid core.SessionID) BackpressureAction
}

// DropPolicy loses the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, core.SessionID) BackpressureAction {
	return DropFrame
}

// KickPolicy closes a connection that cannot keep up; it then leaves its room
// like any other disconnect.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.RoomID, core.SessionID) BackpressureAction {
	return KickMember
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown slow peer policy %q", name)
	}
}
