package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/app"
	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
	"github.com/dkeye/Poll/internal/protocol"
)

func (o *Orchestrator) createRoom(sid core.SessionID, in protocol.CreateRoom) error {
	if !o.Limiter.Allow(sid) {
		return domain.ErrRateLimited
	}
	created, err := o.Store.CreateRoom(in.Username)
	if err != nil {
		return err
	}
	room, err := o.claim(sid, in.Username, created.ID)
	if err != nil {
		return err
	}
	o.send(sid, protocol.RoomCreated{Room: room})
	return nil
}

func (o *Orchestrator) joinRoom(sid core.SessionID, in protocol.JoinRoom) error {
	if o.Store.HasVoted(in.Username, in.RoomID) {
		return domain.NewRoomError(domain.ErrAlreadyVoted, in.RoomID)
	}
	if _, ok := o.Store.JoinRoom(in.RoomID, in.Username); !ok {
		return domain.NewRoomError(domain.ErrRoomNotFound, in.RoomID)
	}
	room, err := o.claim(sid, in.Username, in.RoomID)
	if err != nil {
		return err
	}
	o.send(sid, protocol.RoomJoined{Room: room})
	o.broadcast(room.ID, sid, protocol.RoomUpdate{Room: room})
	return nil
}

func (o *Orchestrator) leaveRoom(sid core.SessionID, in protocol.LeaveRoom) {
	o.Registry.Release(sid, in.RoomID)
	room, ok := o.Store.LeaveRoom(in.RoomID, in.Username)
	o.send(sid, protocol.RoomLeft{RoomID: in.RoomID})
	if !ok {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room_id", string(in.RoomID)).Msg("left room")
	o.broadcast(in.RoomID, sid, protocol.RoomUpdate{Room: room})
}

// claim binds sid to roomID and returns the room as read after the binding.
// Changes made before the read are in the snapshot; later ones reach sid by
// broadcast. A room evicted in between is released again.
func (o *Orchestrator) claim(sid core.SessionID, username string, roomID domain.RoomID) (domain.Room, error) {
	o.rebind(sid, username, roomID)
	room, ok := o.Store.GetRoom(roomID)
	if !ok {
		o.Registry.Release(sid, roomID)
		return domain.Room{}, domain.NewRoomError(domain.ErrRoomNotFound, roomID)
	}
	return room, nil
}

// rebind claims (username, roomID) for sid and leaves whatever the session held before.
func (o *Orchestrator) rebind(sid core.SessionID, username string, roomID domain.RoomID) {
	prev, ok := o.Registry.Claim(sid, username, roomID)
	if !ok || !prev.InRoom() || prev == (app.Binding{Username: username, RoomID: roomID}) {
		return
	}
	room, ok := o.Store.LeaveRoom(prev.RoomID, prev.Username)
	if !ok || prev.RoomID == roomID {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(prev.RoomID)).Str("to_room", string(roomID)).Msg("moved between rooms")
	o.broadcast(prev.RoomID, sid, protocol.RoomUpdate{Room: room})
}
