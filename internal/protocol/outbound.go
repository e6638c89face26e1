package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
)

type EventType string

const (
	EventRoomCreated  EventType = "ROOM_CREATED"
	EventRoomJoined   EventType = "ROOM_JOINED"
	EventRoomLeft     EventType = "ROOM_LEFT"
	EventVoteRecorded EventType = "VOTE_RECORDED"
	EventRoomUpdate   EventType = "ROOM_UPDATE"
	EventError        EventType = "ERROR"
)

// Event is a server notification sent to one or more connections.
type Event interface {
	Kind() EventType
	sealedEvent()
}

type RoomCreated struct {
	Room domain.Room `json:"room"`
}

type RoomJoined struct {
	Room domain.Room `json:"room"`
}

type RoomLeft struct {
	RoomID domain.RoomID `json:"roomId"`
}

type VoteRecorded struct {
	Room domain.Room `json:"room"`
	Vote domain.Vote `json:"vote"`
}

type RoomUpdate struct {
	Room domain.Room `json:"room"`
}

type Error struct {
	Message string `json:"message"`
}

func (RoomCreated) Kind() EventType  { return EventRoomCreated }
func (RoomJoined) Kind() EventType   { return EventRoomJoined }
func (RoomLeft) Kind() EventType     { return EventRoomLeft }
func (VoteRecorded) Kind() EventType { return EventVoteRecorded }
func (RoomUpdate) Kind() EventType   { return EventRoomUpdate }
func (Error) Kind() EventType        { return EventError }

func (RoomCreated) sealedEvent()  {}
func (RoomJoined) sealedEvent()   {}
func (RoomLeft) sealedEvent()     {}
func (VoteRecorded) sealedEvent() {}
func (RoomUpdate) sealedEvent()   {}
func (Error) sealedEvent()        {}

type outEnvelope struct {
	Type    EventType `json:"type"`
	Payload Event     `json:"payload"`
}

// Encode serializes an event into a ready-to-send frame.
func Encode(ev Event) (core.Frame, error) {
	b, err := json.Marshal(outEnvelope{Type: ev.Kind(), Payload: ev})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Kind(), err)
	}
	return b, nil
}

// DecodeEvent parses an outbound frame back into its event.
func DecodeEvent(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	switch EventType(env.Type) {
	case EventRoomCreated:
		return decodePayload[RoomCreated](env)
	case EventRoomJoined:
		return decodePayload[RoomJoined](env)
	case EventRoomLeft:
		return decodePayload[RoomLeft](env)
	case EventVoteRecorded:
		return decodePayload[VoteRecorded](env)
	case EventRoomUpdate:
		return decodePayload[RoomUpdate](env)
	case EventError:
		return decodePayload[Error](env)
	default:
		return nil, fmt.Errorf("decode event: unknown type %q", env.Type)
	}
}

func decodePayload[T Event](env Envelope) (Event, error) {
	var ev T
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return ev, nil
}
