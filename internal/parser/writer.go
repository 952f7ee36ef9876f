package parser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/go-football-metrics/internal/model"
)

// Writer persists events in a format Open can read back.
type Writer struct {
	format  Format
	csv     *csv.Writer
	enc     *json.Encoder
	closers []io.Closer
	events  int
}

// Create creates path and returns a writer for it. The format follows the
// file name; a ".gz" suffix enables gzip compression.
func Create(path string) (*Writer, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create events: %w", err)
	}
	w := &Writer{format: format, closers: []io.Closer{f}}
	var out io.Writer = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zw := gzip.NewWriter(f)
		w.closers = append(w.closers, zw)
		out = zw
	}
	if err := w.init(out); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter writes uncompressed events of the given format to out.
func NewWriter(out io.Writer, format Format) (*Writer, error) {
	w := &Writer{format: format}
	if err := w.init(out); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) init(out io.Writer) error {
	switch w.format {
	case FormatCSV:
		w.csv = csv.NewWriter(out)
		if err := w.csv.Write(CSVColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	case FormatJSON:
		w.enc = json.NewEncoder(out)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, w.format)
	}
	return nil
}

// Write appends one event.
func (w *Writer) Write(ev *model.EventRecord) error {
	var err error
	if w.csv != nil {
		err = w.csv.Write(CSVRow(ev))
	} else {
		err = w.enc.Encode(toRaw(ev))
	}
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	w.events++
	return nil
}

// Events returns how many events were written.
func (w *Writer) Events() int { return w.events }

// Close flushes and closes the writer chain.
func (w *Writer) Close() error {
	var first error
	if w.csv != nil {
		w.csv.Flush()
		first = w.csv.Error()
	}
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}

func ref(name string) *named {
	if name == "" {
		return nil
	}
	return &named{Name: name}
}

func toRaw(ev *model.EventRecord) *rawEvent {
	r := &rawEvent{
		MatchID: flexID(ev.MatchID),
		Type:    ref(typeLabel(ev)),
		Player:  ref(ev.Player),
		Team:    ref(ev.Team),
	}
	if r.Player != nil {
		r.Player.ID = flexID(ev.PlayerID)
	}
	if ev.Location.Valid() {
		r.Location, _ = json.Marshal([]float64{ev.Location.X, ev.Location.Y})
	}
	switch ev.Type {
	case model.EventPass:
		r.Pass = &rawPass{
			Length:     flexFloat(ev.PassLength),
			Angle:      flexFloat(ev.PassAngle),
			Outcome:    ref(ev.PassOutcome),
			Cross:      flexBool(ev.PassCross),
			ShotAssist: flexBool(ev.PassShotAssist),
			KeyPassID:  flexID(ev.PassKeyPassID),
		}
	case model.EventShot:
		r.Shot = &rawShot{
			StatsbombXG: flexFloat(ev.ShotStatsbombXG),
			Outcome:     ref(ev.ShotOutcome),
			BodyPart:    ref(ev.ShotBodyPart),
		}
	case model.EventDribble:
		r.Dribble = &rawOutcome{Outcome: ref(ev.DribbleOutcome)}
	case model.EventDuel:
		r.Duel = &rawDuel{Type: ref(ev.DuelType), Outcome: ref(ev.DuelOutcome)}
	case model.EventFoulCommitted:
		r.FoulCommitted = &rawFoulCommitted{Card: ref(ev.FoulCommittedCard)}
	case model.EventGoalKeeper:
		r.Goalkeeper = &rawOutcome{Outcome: ref(ev.GoalkeeperOutcome)}
	}
	return r
}
