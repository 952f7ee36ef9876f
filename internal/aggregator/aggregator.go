// Package aggregator folds a season's match events into per-player
// aggregates and finalizes their derived metrics.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pable/go-football-metrics/internal/model"
)

// ErrFrozen is returned when recording into a store that has been finalized.
var ErrFrozen = errors.New("aggregation store is finalized")

// Drop reasons reported to the Observer.
const (
	DropNoPlayer = "no_player"
)

// ctxCheckEvery bounds how often Ingest polls the context.
const ctxCheckEvery = 256

// EventSource yields events in arrival order. Next returns io.EOF after the
// last event.
type EventSource interface {
	Next() (*model.EventRecord, error)
}

// Stats summarizes what a store has consumed.
type Stats struct {
	Events        int // records seen, including dropped ones
	Dropped       int // records without a player
	Unknown       int // aggregated records with an unrecognized type
	BadLocations  int
	Players       int
	DistinctMatch int
}

// Store owns the player -> aggregate mapping for one run. It is not safe for
// concurrent use; see IngestSharded for the parallel path.
type Store struct {
	players  map[string]*model.PlayerAggregate
	order    []string
	matches  map[string]struct{}
	observer Observer
	stats    Stats
	frozen   bool
}

// Option configures a Store.
type Option func(*Store)

// WithObserver attaches an ingestion observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		players:  make(map[string]*model.PlayerAggregate),
		matches:  make(map[string]struct{}),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record folds one event into the aggregate of its player, creating the
// aggregate on first sight. Events without a player are counted and dropped.
func (s *Store) Record(ev *model.EventRecord) error {
	if s.frozen {
		return ErrFrozen
	}
	s.stats.Events++
	if ev == nil || !ev.HasPlayer() {
		s.stats.Dropped++
		s.observer.EventDropped(DropNoPlayer)
		return nil
	}

	agg, ok := s.players[ev.Player]
	if !ok {
		agg = model.NewPlayerAggregate(ev.Player, ev.PlayerID, ev.Team)
		s.players[ev.Player] = agg
		s.order = append(s.order, ev.Player)
		s.observer.PlayerDiscovered()
	}
	if ev.MatchID != "" {
		s.matches[ev.MatchID] = struct{}{}
	}

	if !Apply(agg, ev) {
		s.stats.BadLocations++
		s.observer.LocationRejected()
	}
	if ev.Type == model.EventUnknown {
		s.stats.Unknown++
	}
	s.observer.EventRecorded(ev.Type)
	return nil
}

// Ingest consumes src until io.EOF. On cancellation it stops and returns the
// context error; the store keeps whatever was folded so far.
func (s *Store) Ingest(ctx context.Context, src EventSource) error {
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read event %d: %w", n, err)
		}
		if err := s.Record(ev); err != nil {
			return err
		}
	}
}

// Get returns the aggregate for a player name.
func (s *Store) Get(player string) (*model.PlayerAggregate, bool) {
	agg, ok := s.players[player]
	return agg, ok
}

// Len returns the number of players seen.
func (s *Store) Len() int { return len(s.order) }

// All returns every aggregate in discovery order.
func (s *Store) All() []*model.PlayerAggregate {
	out := make([]*model.PlayerAggregate, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.players[name])
	}
	return out
}

// Finalize computes derived metrics on every aggregate and freezes the
// store. It returns the aggregates in discovery order.
func (s *Store) Finalize() []*model.PlayerAggregate {
	all := s.All()
	for _, agg := range all {
		agg.Finalize()
	}
	s.frozen = true
	return all
}

// Frozen reports whether Finalize has run.
func (s *Store) Frozen() bool { return s.frozen }

// Stats returns ingestion counters.
func (s *Store) Stats() Stats {
	st := s.stats
	st.Players = len(s.order)
	st.DistinctMatch = len(s.matches)
	return st
}

// SliceSource adapts an in-memory slice to EventSource.
type SliceSource struct {
	events []model.EventRecord
	pos    int
}

// NewSliceSource returns a source over events.
func NewSliceSource(events []model.EventRecord) *SliceSource {
	return &SliceSource{events: events}
}

// Next implements EventSource.
func (s *SliceSource) Next() (*model.EventRecord, error) {
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := &s.events[s.pos]
	s.pos++
	return ev, nil
}
