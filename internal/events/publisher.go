// Package events ships accepted votes to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/dkeye/Poll/internal/domain"
)

// VoteEvent is the record published for every accepted vote.
type VoteEvent struct {
	Username   string          `json:"username"`
	RoomID     domain.RoomID   `json:"roomId"`
	OptionID   domain.OptionID `json:"optionId"`
	RecordedAt time.Time       `json:"recordedAt"`
}

func NewVoteEvent(v domain.Vote, at time.Time) VoteEvent {
	return VoteEvent{Username: v.Username, RoomID: v.RoomID, OptionID: v.OptionID, RecordedAt: at}
}

type VotePublisher interface {
	Publish(ctx context.Context, ev VoteEvent) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, VoteEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }
