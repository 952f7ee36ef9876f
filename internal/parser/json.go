package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pable/go-football-metrics/internal/model"
)

// named is the StatsBomb {"id": .., "name": ..} reference shape.
type named struct {
	ID   flexID `json:"id,omitempty"`
	Name string `json:"name"`
}

func (n *named) name() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Name)
}

// flexID accepts a JSON number or string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// Not an id we can use; treat as absent rather than failing the event.
		*f = ""
		return nil
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}

// flexFloat accepts a number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	*f = flexFloat(parseFloat(s))
	return nil
}

// flexBool accepts a JSON bool, a string or number in the lenient boolean
// forms, or null. Anything else reads as false.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	*f = flexBool(parseBool(s))
	return nil
}

// rawEvent mirrors the subset of a StatsBomb open-data event that feeds
// aggregation.
type rawEvent struct {
	MatchID  flexID          `json:"match_id,omitempty"`
	Type     *named          `json:"type,omitempty"`
	Player   *named          `json:"player,omitempty"`
	Team     *named          `json:"team,omitempty"`
	Location json.RawMessage `json:"location,omitempty"`

	Pass          *rawPass          `json:"pass,omitempty"`
	Shot          *rawShot          `json:"shot,omitempty"`
	Dribble       *rawOutcome       `json:"dribble,omitempty"`
	Duel          *rawDuel          `json:"duel,omitempty"`
	FoulCommitted *rawFoulCommitted `json:"foul_committed,omitempty"`
	Goalkeeper    *rawOutcome       `json:"goalkeeper,omitempty"`
}

type rawPass struct {
	Length     flexFloat `json:"length,omitempty"`
	Angle      flexFloat `json:"angle,omitempty"`
	Outcome    *named    `json:"outcome,omitempty"`
	Cross      flexBool  `json:"cross,omitempty"`
	ShotAssist flexBool  `json:"shot_assist,omitempty"`
	KeyPassID  flexID    `json:"key_pass_id,omitempty"`
}

type rawShot struct {
	StatsbombXG flexFloat `json:"statsbomb_xg,omitempty"`
	Outcome     *named    `json:"outcome,omitempty"`
	BodyPart    *named    `json:"body_part,omitempty"`
}

type rawOutcome struct {
	Outcome *named `json:"outcome,omitempty"`
}

type rawDuel struct {
	Type    *named `json:"type,omitempty"`
	Outcome *named `json:"outcome,omitempty"`
}

type rawFoulCommitted struct {
	Card *named `json:"card,omitempty"`
}

func (r *rawEvent) record(defaultMatchID string) *model.EventRecord {
	typeName := r.Type.name()
	ev := &model.EventRecord{
		Type:     model.ParseEventType(typeName),
		TypeName: typeName,
		Player:   r.Player.name(),
		Team:     r.Team.name(),
		MatchID:  string(r.MatchID),
		Location: parseLocationJSON(r.Location),
	}
	if r.Player != nil {
		ev.PlayerID = string(r.Player.ID)
	}
	if ev.MatchID == "" {
		ev.MatchID = defaultMatchID
	}
	if p := r.Pass; p != nil {
		ev.PassLength = float64(p.Length)
		ev.PassAngle = float64(p.Angle)
		ev.PassOutcome = p.Outcome.name()
		ev.PassCross = bool(p.Cross)
		ev.PassShotAssist = bool(p.ShotAssist)
		ev.PassKeyPassID = string(p.KeyPassID)
	}
	if s := r.Shot; s != nil {
		ev.ShotStatsbombXG = float64(s.StatsbombXG)
		ev.ShotOutcome = s.Outcome.name()
		ev.ShotBodyPart = s.BodyPart.name()
	}
	if d := r.Dribble; d != nil {
		ev.DribbleOutcome = d.Outcome.name()
	}
	if d := r.Duel; d != nil {
		ev.DuelType = d.Type.name()
		ev.DuelOutcome = d.Outcome.name()
	}
	if f := r.FoulCommitted; f != nil {
		ev.FoulCommittedCard = f.Card.name()
	}
	if g := r.Goalkeeper; g != nil {
		ev.GoalkeeperOutcome = g.Outcome.name()
	}
	return ev
}

// DecodeEvents decodes a StatsBomb events document (a JSON array) into
// records tagged with matchID where the objects carry none.
func DecodeEvents(r io.Reader, matchID string) ([]model.EventRecord, error) {
	jr, err := newJSONReader(r, matchID)
	if err != nil {
		return nil, err
	}
	var out []model.EventRecord
	for {
		ev, err := jr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
}

// jsonReader streams either one top-level array of events or a sequence of
// whitespace-separated objects (JSON lines).
type jsonReader struct {
	dec     *json.Decoder
	array   bool
	done    bool
	n       int
	matchID string
}

func newJSONReader(r io.Reader, defaultMatchID string) (*jsonReader, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return &jsonReader{done: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	jr := &jsonReader{dec: json.NewDecoder(br), matchID: defaultMatchID}
	switch first {
	case '[':
		if _, err := jr.dec.Token(); err != nil {
			return nil, fmt.Errorf("read json array: %w", err)
		}
		jr.array = true
	case '{':
	default:
		return nil, fmt.Errorf("%w: json starting with %q", ErrUnsupportedFormat, first)
	}
	return jr, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func (j *jsonReader) Next() (*model.EventRecord, error) {
	if j.done {
		return nil, io.EOF
	}
	if j.array && !j.dec.More() {
		j.done = true
		return nil, io.EOF
	}
	var raw rawEvent
	if err := j.dec.Decode(&raw); err != nil {
		if !j.array && errors.Is(err, io.EOF) {
			j.done = true
			return nil, io.EOF
		}
		return nil, fmt.Errorf("json event %d: %w", j.n+1, err)
	}
	j.n++
	return raw.record(j.matchID), nil
}
