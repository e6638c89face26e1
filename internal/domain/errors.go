package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrPollClosed         = errors.New("poll closed")
	ErrInvalidOption      = errors.New("invalid option")
	ErrMalformedMessage   = errors.New("invalid message format")
	ErrCodeSpaceExhausted = errors.New("no free room code")
	ErrRateLimited        = errors.New("rate limited")
)

// RoomError is a rejected room operation. Error() is the text shown to the client.
type RoomError struct {
	Err      error
	RoomID   RoomID
	OptionID OptionID
}

func NewRoomError(err error, roomID RoomID) *RoomError {
	return &RoomError{Err: err, RoomID: roomID}
}

func (e *RoomError) Error() string {
	switch e.Err {
	case ErrRoomNotFound:
		return fmt.Sprintf("Room %s does not exist", e.RoomID)
	case ErrAlreadyVoted:
		return fmt.Sprintf("You have already voted in room %s", e.RoomID)
	case ErrPollClosed:
		return fmt.Sprintf("The poll in room %s is closed", e.RoomID)
	case ErrInvalidOption:
		return fmt.Sprintf("Option %d does not exist in room %s", e.OptionID, e.RoomID)
	default:
		return fmt.Sprintf("room %s: %v", e.RoomID, e.Err)
	}
}

func (e *RoomError) Unwrap() error { return e.Err }

// ClientMessage maps any rejection to the text sent back on the wire.
func ClientMessage(err error) string {
	var re *RoomError
	switch {
	case errors.As(err, &re):
		return re.Error()
	case errors.Is(err, ErrMalformedMessage):
		return "Invalid message format"
	case errors.Is(err, ErrRateLimited):
		return "Too many rooms created, try again later"
	case errors.Is(err, ErrCodeSpaceExhausted):
		return "Could not allocate a room, try again later"
	default:
		return "Internal error"
	}
}
