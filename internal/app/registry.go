package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
)

// Binding is what a connection currently claims to be: user Username present in RoomID.
type Binding struct {
	Username string
	RoomID   domain.RoomID
}

func (b Binding) InRoom() bool { return b.RoomID != "" }

type sessionEntry struct {
	Binding
	Signal core.SignalConnection
}

// Registry maps live connections to their bindings.
// It never touches rooms or votes.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// Bind registers an unbound connection.
func (r *Registry) Bind(sid core.SessionID, sig core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Signal: sig}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

// Unbind forgets the connection and returns its last binding.
func (r *Registry) Unbind(sid core.SessionID) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Binding{}, false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return e.Binding, true
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

func (r *Registry) BindingOf(sid core.SessionID) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Binding{}, false
	}
	return e.Binding, true
}

// Claim binds the connection to (username, roomID) and returns the binding it replaced.
func (r *Registry) Claim(sid core.SessionID, username string, roomID domain.RoomID) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Binding{}, false
	}
	prev := e.Binding
	e.Binding = Binding{Username: username, RoomID: roomID}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("username", username).Str("room_id", string(roomID)).Msg("claimed room")
	return prev, true
}

// Release clears the room association if the connection is bound to roomID.
// The username is kept.
func (r *Registry) Release(sid core.SessionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok || e.RoomID != roomID {
		return false
	}
	e.RoomID = ""
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed room association")
	return true
}

// ReleaseRooms clears every association to any of ids and returns how many were cleared.
func (r *Registry) ReleaseRooms(ids []domain.RoomID) int {
	if len(ids) == 0 {
		return 0
	}
	gone := make(map[domain.RoomID]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.sessions {
		if _, ok := gone[e.RoomID]; ok {
			e.RoomID = ""
			n++
		}
	}
	return n
}

type Member struct {
	SID    core.SessionID
	Signal core.SignalConnection
}

// MembersOfRoom snapshots the connections bound to a room.
func (r *Registry) MembersOfRoom(id domain.RoomID) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0, len(r.sessions))
	for sid, e := range r.sessions {
		if e.RoomID == id {
			out = append(out, Member{SID: sid, Signal: e.Signal})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
