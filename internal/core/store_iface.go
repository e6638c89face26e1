package core

import (
	"time"

	"github.com/dkeye/Poll/internal/domain"
)

// RoomStore owns every room and the vote ledger.
// All methods are atomic and hand out snapshots, never live state.
type RoomStore interface {
	CreateRoom(creator string) (domain.Room, error)
	GetRoom(id domain.RoomID) (domain.Room, bool)
	JoinRoom(id domain.RoomID, username string) (domain.Room, bool)
	LeaveRoom(id domain.RoomID, username string) (domain.Room, bool)
	// RecordVote rejects with a *domain.RoomError before touching any state.
	RecordVote(id domain.RoomID, username string, option domain.OptionID) (domain.Room, domain.Vote, error)
	HasVoted(username string, id domain.RoomID) bool
	// EvictExpired drops rooms whose end time is more than grace in the past,
	// together with their ledger entries, and returns the evicted ids.
	EvictExpired(grace time.Duration) []domain.RoomID
	List() []domain.RoomInfo
}
