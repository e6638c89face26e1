package app

import (
	"math/rand/v2"

	"github.com/dkeye/Poll/internal/domain"
)

const (
	// RoomCodeAlphabet leaves out I, O, 0 and 1.
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLen      = 6

	maxCodeAttempts = 64
)

// CodeGenerator produces candidate room codes. Uniqueness is checked by the store.
type CodeGenerator func() domain.RoomID

func RandomRoomCode() domain.RoomID {
	var b [RoomCodeLen]byte
	for i := range b {
		b[i] = RoomCodeAlphabet[rand.IntN(len(RoomCodeAlphabet))]
	}
	return domain.RoomID(b[:])
}
