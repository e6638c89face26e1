package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poll/internal/core"
	"github.com/dkeye/Poll/internal/domain"
	"github.com/dkeye/Poll/internal/metrics"
)

const (
	DefaultSweepInterval = time.Minute
	DefaultGraceWindow   = 30 * time.Minute
)

// Sweeper periodically evicts rooms that ended more than the grace window ago.
// It is the only component that deletes rooms.
type Sweeper struct {
	store    core.RoomStore
	clock    clockwork.Clock
	interval time.Duration
	grace    time.Duration

	onEvict []func([]domain.RoomID)
}

func NewSweeper(store core.RoomStore, clock clockwork.Clock, interval, grace time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if grace < 0 {
		grace = DefaultGraceWindow
	}
	return &Sweeper{store: store, clock: clock, interval: interval, grace: grace}
}

// OnEvict registers a hook called with the ids of every non-empty sweep.
// Must be called before Run.
func (s *Sweeper) OnEvict(fn func([]domain.RoomID)) {
	s.onEvict = append(s.onEvict, fn)
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Str("module", "app.sweeper").Dur("interval", s.interval).Dur("grace", s.grace).Msg("sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.sweeper").Msg("sweeper stopped")
			return nil
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

// Sweep runs one eviction pass and returns the number of rooms removed.
func (s *Sweeper) Sweep() int {
	evicted := s.store.EvictExpired(s.grace)
	if len(evicted) > 0 {
		metrics.RoomsEvicted.Add(float64(len(evicted)))
		for _, fn := range s.onEvict {
			fn(evicted)
		}
		log.Info().Str("module", "app.sweeper").Int("evicted", len(evicted)).Msg("sweep done")
	}
	return len(evicted)
}
