package orch

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/events"
	"github.com/dkeye/Poll/internal/metrics"
	"github.com/dkeye/Poll/internal/protocol"
)

// vote records the ballot, answers the voter with VOTE_RECORDED and sends
// ROOM_UPDATE to every connection bound to the room, the voter included.
func (o *Orchestrator) vote(ctx context.Context, sid core.SessionID, in protocol.Vote) error {
	room, vote, err := o.Store.RecordVote(in.RoomID, in.Username, in.OptionID)
	if err != nil {
		return err
	}
	metrics.VotesRecorded.WithLabelValues(strconv.Itoa(int(vote.OptionID))).Inc()
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room_id", string(vote.RoomID)).Int("option_id", int(vote.OptionID)).Msg("vote recorded")

	o.send(sid, protocol.VoteRecorded{Room: room, Vote: vote})
	o.broadcast(room.ID, "", protocol.RoomUpdate{Room: room})

	if o.Publisher != nil {
		if err := o.Publisher.Publish(ctx, events.NewVoteEvent(vote, o.Clock.Now())); err != nil {
			log.Error().Err(err).Str("module", "orch").Str("room_id", string(vote.RoomID)).Msg("publish vote")
		}
	}
	return nil
}
