package aggregator

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pable/go-football-metrics/internal/model"
)

const shardBuffer = 512

// IngestSharded reads src on one goroutine and fans events out to n worker
// stores partitioned by player name, so each aggregate has a single writer.
// Shards are merged only after every worker has drained; the merged store
// keeps global first-seen order and is ready for Finalize.
//
// On cancellation the workers stop, the partial merge is still returned, and
// the error is the context error.
func IngestSharded(ctx context.Context, src EventSource, n int, opts ...Option) (*Store, error) {
	if n <= 1 {
		s := NewStore(opts...)
		return s, s.Ingest(ctx, src)
	}

	shards := make([]*Store, n)
	inputs := make([]chan *model.EventRecord, n)
	for i := range shards {
		shards[i] = NewStore(opts...)
		inputs[i] = make(chan *model.EventRecord, shardBuffer)
	}

	// Owned by the reader goroutine until g.Wait returns.
	firstSeen := make(map[string]int)
	var (
		total, dropped int
		matches        = make(map[string]struct{})
		merged         = NewStore(opts...)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			for _, ch := range inputs {
				close(ch)
			}
		}()
		for i := 0; ; i++ {
			if i%ctxCheckEvery == 0 {
				if err := gctx.Err(); err != nil {
					return err
				}
			}
			ev, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read event %d: %w", i, err)
			}
			total++
			if ev == nil || !ev.HasPlayer() {
				dropped++
				merged.observer.EventDropped(DropNoPlayer)
				continue
			}
			if _, ok := firstSeen[ev.Player]; !ok {
				firstSeen[ev.Player] = len(firstSeen)
			}
			if ev.MatchID != "" {
				matches[ev.MatchID] = struct{}{}
			}
			select {
			case inputs[shardFor(ev.Player, n)] <- ev:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})
	for i := range shards {
		s, in := shards[i], inputs[i]
		g.Go(func() error {
			for ev := range in {
				if err := s.Record(ev); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()

	for _, s := range shards {
		for _, name := range s.order {
			merged.players[name] = s.players[name]
			merged.order = append(merged.order, name)
		}
		merged.stats.Unknown += s.stats.Unknown
		merged.stats.BadLocations += s.stats.BadLocations
	}
	sort.SliceStable(merged.order, func(i, j int) bool {
		return firstSeen[merged.order[i]] < firstSeen[merged.order[j]]
	})
	merged.matches = matches
	merged.stats.Events = total
	merged.stats.Dropped = dropped
	return merged, err
}

func shardFor(player string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(player))
	return int(h.Sum32() % uint32(n))
}
