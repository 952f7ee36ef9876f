package aggregator

import "github.com/pable/go-football-metrics/internal/model"

// Observer receives ingestion callbacks. Implementations used with
// IngestSharded must be safe for concurrent use.
type Observer interface {
	EventRecorded(t model.EventType)
	EventDropped(reason string)
	LocationRejected()
	PlayerDiscovered()
}

type nopObserver struct{}

func (nopObserver) EventRecorded(model.EventType) {}
func (nopObserver) EventDropped(string)           {}
func (nopObserver) LocationRejected()             {}
func (nopObserver) PlayerDiscovered()             {}
