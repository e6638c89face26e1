package app

import "github.com/dkeye/Poll/internal/domain"

// VoteLedger records who voted for what, keyed by (user, room).
// An entry outlives the user's presence in the room; only Purge removes it.
// Not safe for concurrent use: the owning store serialises access.
type VoteLedger struct {
	byRoom map[domain.RoomID]map[string]domain.OptionID
}

func NewVoteLedger() *VoteLedger {
	return &VoteLedger{byRoom: make(map[domain.RoomID]map[string]domain.OptionID)}
}

func (l *VoteLedger) HasVoted(username string, roomID domain.RoomID) bool {
	_, ok := l.byRoom[roomID][username]
	return ok
}

// Record writes a ledger entry. Existing entries are never overwritten.
func (l *VoteLedger) Record(v domain.Vote) error {
	votes, ok := l.byRoom[v.RoomID]
	if !ok {
		votes = make(map[string]domain.OptionID)
		l.byRoom[v.RoomID] = votes
	}
	if _, dup := votes[v.Username]; dup {
		return domain.NewRoomError(domain.ErrAlreadyVoted, v.RoomID)
	}
	votes[v.Username] = v.OptionID
	return nil
}

// Purge drops every entry for a room and returns how many there were.
func (l *VoteLedger) Purge(roomID domain.RoomID) int {
	n := len(l.byRoom[roomID])
	delete(l.byRoom, roomID)
	return n
}

func (l *VoteLedger) Count(roomID domain.RoomID) int {
	return len(l.byRoom[roomID])
}
