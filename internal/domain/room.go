package domain

import (
	"maps"
	"slices"
	"strings"
	"time"
)

type (
	RoomID   string
	OptionID int
)

// NormalizeRoomID trims and upper-cases a typed room code.
func NormalizeRoomID(raw string) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(raw)))
}

type Option struct {
	ID    OptionID `json:"id"`
	Text  string   `json:"text"`
	Votes int      `json:"votes"`
}

// Room is a point-in-time snapshot of a poll room.
// Holders may read it freely; the store never shares its own state.
type Room struct {
	ID           RoomID              `json:"id"`
	Question     string              `json:"question"`
	Options      []Option            `json:"options"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedBy    string              `json:"createdBy"`
	EndTime      time.Time           `json:"endTime"`
	Participants []string            `json:"participants"`
	Votes        map[string]OptionID `json:"votes"`
}

// IsClosed reports whether voting is over at now. The end instant itself is closed.
func (r Room) IsClosed(now time.Time) bool {
	return !now.Before(r.EndTime)
}

func (r Room) TotalVotes() int {
	total := 0
	for _, o := range r.Options {
		total += o.Votes
	}
	return total
}

func (r Room) HasParticipant(username string) bool {
	_, found := slices.BinarySearch(r.Participants, username)
	return found
}

// Clone returns a deep copy.
func (r Room) Clone() Room {
	r.Options = slices.Clone(r.Options)
	r.Participants = slices.Clone(r.Participants)
	r.Votes = maps.Clone(r.Votes)
	return r
}

// Vote is the record of one accepted ballot.
type Vote struct {
	Username string   `json:"username"`
	RoomID   RoomID   `json:"roomId"`
	OptionID OptionID `json:"optionId"`
}

// RoomInfo is the listing view of a room.
type RoomInfo struct {
	ID           RoomID    `json:"id"`
	Question     string    `json:"question"`
	Participants int       `json:"participants"`
	TotalVotes   int       `json:"totalVotes"`
	EndTime      time.Time `json:"endTime"`
}
