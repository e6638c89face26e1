// Package protocol defines the JSON frames exchanged over a poll connection.
//
// Every frame is an envelope {"type": ..., "payload": {...}}. Inbound frames
// decode into exactly one Intent implementation and outbound ones are built from
// exactly one Event implementation; both sets are closed to this package.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Poll/internal/domain"
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type IntentType string

const (
	IntentCreateRoom IntentType = "CREATE_ROOM"
	IntentJoinRoom   IntentType = "JOIN_ROOM"
	IntentLeaveRoom  IntentType = "LEAVE_ROOM"
	IntentVote       IntentType = "VOTE"
)

// Intent is a client request to change room state.
type Intent interface {
	Kind() IntentType
	sealedIntent()
}

type CreateRoom struct {
	Username string
}

type JoinRoom struct {
	Username string
	RoomID   domain.RoomID
}

type LeaveRoom struct {
	Username string
	RoomID   domain.RoomID
}

type Vote struct {
	Username string
	RoomID   domain.RoomID
	OptionID domain.OptionID
}

func (CreateRoom) Kind() IntentType { return IntentCreateRoom }
func (JoinRoom) Kind() IntentType   { return IntentJoinRoom }
func (LeaveRoom) Kind() IntentType  { return IntentLeaveRoom }
func (Vote) Kind() IntentType       { return IntentVote }

func (CreateRoom) sealedIntent() {}
func (JoinRoom) sealedIntent()   {}
func (LeaveRoom) sealedIntent()  {}
func (Vote) sealedIntent()       {}

type intentPayload struct {
	Username string           `json:"username"`
	RoomID   string           `json:"roomId"`
	OptionID *domain.OptionID `json:"optionId"`
}

// Decode parses one inbound frame. Every failure wraps domain.ErrMalformedMessage.
func Decode(data []byte) (Intent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, malformed("envelope: %v", err)
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil, malformed("%s: missing payload", env.Type)
	}

	var p intentPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, malformed("%s payload: %v", env.Type, err)
	}
	if err := domain.ValidateUsername(p.Username); err != nil {
		return nil, malformed("%s: %v", env.Type, err)
	}
	roomID := domain.NormalizeRoomID(p.RoomID)

	switch IntentType(env.Type) {
	case IntentCreateRoom:
		return CreateRoom{Username: p.Username}, nil
	case IntentJoinRoom:
		if roomID == "" {
			return nil, malformed("%s: missing roomId", env.Type)
		}
		return JoinRoom{Username: p.Username, RoomID: roomID}, nil
	case IntentLeaveRoom:
		if roomID == "" {
			return nil, malformed("%s: missing roomId", env.Type)
		}
		return LeaveRoom{Username: p.Username, RoomID: roomID}, nil
	case IntentVote:
		if roomID == "" {
			return nil, malformed("%s: missing roomId", env.Type)
		}
		if p.OptionID == nil {
			return nil, malformed("%s: missing optionId", env.Type)
		}
		return Vote{Username: p.Username, RoomID: roomID, OptionID: *p.OptionID}, nil
	default:
		return nil, malformed("unknown type %q", env.Type)
	}
}

// EncodeIntent builds an inbound frame, as a client would send it.
func EncodeIntent(in Intent) ([]byte, error) {
	var p intentPayload
	switch v := in.(type) {
	case CreateRoom:
		p.Username = v.Username
	case JoinRoom:
		p.Username, p.RoomID = v.Username, string(v.RoomID)
	case LeaveRoom:
		p.Username, p.RoomID = v.Username, string(v.RoomID)
	case Vote:
		opt := v.OptionID
		p.Username, p.RoomID, p.OptionID = v.Username, string(v.RoomID), &opt
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", in.Kind(), err)
	}
	return json.Marshal(Envelope{Type: string(in.Kind()), Payload: payload})
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedMessage, fmt.Sprintf(format, args...))
}
