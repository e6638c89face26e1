package app

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
	"github.com/dkeye/Poll/internal/metrics"
)

const (
	PollDuration = 60 * time.Second
	PollQuestion = "Cats vs Dogs"
)

func defaultOptions() []domain.Option {
	return []domain.Option{
		{ID: 1, Text: "Cats"},
		{ID: 2, Text: "Dogs"},
	}
}

// roomState is the store-owned mutable room. It never leaves the store.
type roomState struct {
	room         domain.Room
	participants map[string]struct{}
	votes        map[string]domain.OptionID
}

func (s *roomState) snapshot() domain.Room {
	r := s.room.Clone()
	r.Participants = slices.AppendSeq(make([]string, 0, len(s.participants)), maps.Keys(s.participants))
	slices.Sort(r.Participants)
	r.Votes = maps.Clone(s.votes)
	return r
}

func (s *roomState) optionIndex(id domain.OptionID) int {
	return slices.IndexFunc(s.room.Options, func(o domain.Option) bool { return o.ID == id })
}

// RoomStore is the in-memory room store. One lock covers rooms and ledger,
// so a vote's check-then-write is a single critical section.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]*roomState
	ledger *VoteLedger

	clock   clockwork.Clock
	newCode CodeGenerator
}

var _ core.RoomStore = (*RoomStore)(nil)

type StoreOption func(*RoomStore)

func WithCodeGenerator(gen CodeGenerator) StoreOption {
	return func(s *RoomStore) { s.newCode = gen }
}

func NewRoomStore(clock clockwork.Clock, opts ...StoreOption) *RoomStore {
	s := &RoomStore{
		rooms:   make(map[domain.RoomID]*roomState),
		ledger:  NewVoteLedger(),
		clock:   clock,
		newCode: RandomRoomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RoomStore) CreateRoom(creator string) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freeCodeLocked()
	if err != nil {
		return domain.Room{}, err
	}

	now := s.clock.Now()
	st := &roomState{
		room: domain.Room{
			ID:        id,
			Question:  PollQuestion,
			Options:   defaultOptions(),
			CreatedAt: now,
			CreatedBy: creator,
			EndTime:   now.Add(PollDuration),
		},
		participants: map[string]struct{}{creator: {}},
		votes:        make(map[string]domain.OptionID),
	}
	s.rooms[id] = st
	metrics.RoomsCreated.Inc()
	metrics.RoomsLive.Inc()
	log.Info().Str("module", "app.store").Str("room_id", string(id)).Str("creator", creator).Msg("room created")
	return st.snapshot(), nil
}

func (s *RoomStore) freeCodeLocked() (domain.RoomID, error) {
	for range maxCodeAttempts {
		id := s.newCode()
		if _, taken := s.rooms[id]; !taken {
			return id, nil
		}
	}
	return "", domain.ErrCodeSpaceExhausted
}

func (s *RoomStore) GetRoom(id domain.RoomID) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return st.snapshot(), true
}

func (s *RoomStore) JoinRoom(id domain.RoomID, username string) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	st.participants[username] = struct{}{}
	return st.snapshot(), true
}

func (s *RoomStore) LeaveRoom(id domain.RoomID, username string) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	delete(st.participants, username)
	return st.snapshot(), true
}

func (s *RoomStore) RecordVote(id domain.RoomID, username string, option domain.OptionID) (domain.Room, domain.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, domain.Vote{}, domain.NewRoomError(domain.ErrRoomNotFound, id)
	}
	if st.room.IsClosed(s.clock.Now()) {
		return domain.Room{}, domain.Vote{}, domain.NewRoomError(domain.ErrPollClosed, id)
	}
	if s.ledger.HasVoted(username, id) {
		return domain.Room{}, domain.Vote{}, domain.NewRoomError(domain.ErrAlreadyVoted, id)
	}
	idx := st.optionIndex(option)
	if idx < 0 {
		return domain.Room{}, domain.Vote{}, &domain.RoomError{Err: domain.ErrInvalidOption, RoomID: id, OptionID: option}
	}

	vote := domain.Vote{Username: username, RoomID: id, OptionID: option}
	if err := s.ledger.Record(vote); err != nil {
		return domain.Room{}, domain.Vote{}, err
	}
	st.room.Options[idx].Votes++
	st.votes[username] = option
	return st.snapshot(), vote, nil
}

func (s *RoomStore) HasVoted(username string, id domain.RoomID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.HasVoted(username, id)
}

func (s *RoomStore) EvictExpired(grace time.Duration) []domain.RoomID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var evicted []domain.RoomID
	for id, st := range s.rooms {
		if now.Sub(st.room.EndTime) <= grace {
			continue
		}
		delete(s.rooms, id)
		metrics.RoomsLive.Dec()
		purged := s.ledger.Purge(id)
		evicted = append(evicted, id)
		log.Info().Str("module", "app.store").Str("room_id", string(id)).Int("votes_purged", purged).Msg("room evicted")
	}
	return evicted
}

func (s *RoomStore) List() []domain.RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(s.rooms))
	for _, st := range s.rooms {
		out = append(out, domain.RoomInfo{
			ID:           st.room.ID,
			Question:     st.room.Question,
			Participants: len(st.participants),
			TotalVotes:   st.room.TotalVotes(),
			EndTime:      st.room.EndTime,
		})
	}
	slices.SortFunc(out, func(a, b domain.RoomInfo) int { return a.EndTime.Compare(b.EndTime) })
	return out
}
