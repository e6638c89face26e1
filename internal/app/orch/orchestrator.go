package orch

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/app"
	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
	"github.com/dkeye/Poll/internal/events"
	"github.com/dkeye/Poll/internal/metrics"
	"github.com/dkeye/Poll/internal/protocol"
)

// Orchestrator turns client intents into store operations and fans the
// results out to the connections bound to each room.
type Orchestrator struct {
	Store     core.RoomStore
	Registry  *app.Registry
	Limiter   *app.RateLimiter
	Publisher events.VotePublisher
	Policy    app.Policy
	Clock     clockwork.Clock
}

func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection) {
	o.Registry.Bind(sid, conn)
	metrics.WSActiveConnections.Inc()
}

// Disconnect is an implicit leave. The remaining members get a ROOM_UPDATE.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	b, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	metrics.WSActiveConnections.Dec()
	o.Limiter.Forget(sid)
	if !b.InRoom() {
		return
	}
	room, ok := o.Store.LeaveRoom(b.RoomID, b.Username)
	if !ok {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room_id", string(b.RoomID)).Msg("left room on disconnect")
	o.broadcast(b.RoomID, sid, protocol.RoomUpdate{Room: room})
}

// HandleFrame decodes one inbound frame and applies it.
func (o *Orchestrator) HandleFrame(ctx context.Context, sid core.SessionID, data []byte) {
	start := time.Now()
	intent, err := protocol.Decode(data)
	if err != nil {
		o.reject(sid, "decode", err)
		return
	}

	switch in := intent.(type) {
	case protocol.CreateRoom:
		err = o.createRoom(sid, in)
	case protocol.JoinRoom:
		err = o.joinRoom(sid, in)
	case protocol.LeaveRoom:
		o.leaveRoom(sid, in)
	case protocol.Vote:
		err = o.vote(ctx, sid, in)
	}
	metrics.IntentDuration.WithLabelValues(string(intent.Kind())).Observe(time.Since(start).Seconds())
	if err != nil {
		o.reject(sid, string(intent.Kind()), err)
	}
}

// ForgetRooms drops registry bindings to rooms the sweeper evicted.
func (o *Orchestrator) ForgetRooms(ids []domain.RoomID) {
	if n := o.Registry.ReleaseRooms(ids); n > 0 {
		log.Info().Str("module", "orch").Int("rooms", len(ids)).Int("sessions", n).Msg("released evicted rooms")
	}
}

func (o *Orchestrator) reject(sid core.SessionID, intent string, err error) {
	metrics.IntentsRejected.WithLabelValues(rejectReason(err)).Inc()
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("intent", intent).Msg("intent rejected")
	o.send(sid, protocol.Error{Message: domain.ClientMessage(err)})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domain.ErrPollClosed):
		return "poll_closed"
	case errors.Is(err, domain.ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, domain.ErrMalformedMessage):
		return "malformed"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		return "code_space_exhausted"
	default:
		return "internal"
	}
}

func (o *Orchestrator) send(sid core.SessionID, ev protocol.Event) {
	sig, ok := o.Registry.Signal(sid)
	if !ok {
		return
	}
	frame, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode reply")
		return
	}
	o.deliver("", sid, sig, frame)
}

// broadcast sends ev to every connection bound to roomID other than except.
// An empty except reaches everyone.
func (o *Orchestrator) broadcast(roomID domain.RoomID, except core.SessionID, ev protocol.Event) {
	members := o.Registry.MembersOfRoom(roomID)
	if len(members) == 0 {
		return
	}
	frame, err := protocol.Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode broadcast")
		return
	}
	for _, m := range members {
		if m.SID == except {
			continue
		}
		o.deliver(roomID, m.SID, m.Signal, frame)
	}
}

func (o *Orchestrator) deliver(roomID domain.RoomID, sid core.SessionID, sig core.SignalConnection, frame core.Frame) {
	err := sig.TrySend(frame)
	if err == nil {
		return
	}
	metrics.FramesDropped.Inc()
	log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("frame dropped")
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(roomID, sid) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room_id", string(roomID)).Msg("kicking slow connection")
		sig.Close()
	case app.DropFrame:
	}
}
