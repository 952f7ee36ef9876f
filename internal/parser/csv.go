package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pable/go-football-metrics/internal/model"
)

// Column names of the flattened event table.
const (
	colType              = "type"
	colPlayer            = "player"
	colPlayerID          = "player_id"
	colTeam              = "team"
	colMatchID           = "match_id"
	colLocation          = "location"
	colPassOutcome       = "pass_outcome"
	colPassLength        = "pass_length"
	colPassAngle         = "pass_angle"
	colPassCross         = "pass_cross"
	colPassShotAssist    = "pass_shot_assist"
	colPassKeyPassID     = "pass_key_pass_id"
	colShotOutcome       = "shot_outcome"
	colShotXG            = "shot_statsbomb_xg"
	colShotBodyPart      = "shot_body_part"
	colDribbleOutcome    = "dribble_outcome"
	colDuelType          = "duel_type"
	colDuelOutcome       = "duel_outcome"
	colFoulCommittedCard = "foul_committed_card"
	colGoalkeeperOutcome = "goalkeeper_outcome"
)

// CSVColumns is the header written by the fetch command and read here.
var CSVColumns = []string{
	colType, colPlayer, colPlayerID, colTeam, colMatchID, colLocation,
	colPassOutcome, colPassLength, colPassAngle, colPassCross, colPassShotAssist, colPassKeyPassID,
	colShotOutcome, colShotXG, colShotBodyPart,
	colDribbleOutcome, colDuelType, colDuelOutcome,
	colFoulCommittedCard, colGoalkeeperOutcome,
}

// csvReader decodes one row per event. Missing columns read as absent.
type csvReader struct {
	r       *csv.Reader
	index   map[string]int
	row     []string
	line    int
	matchID string
}

func newCSVReader(r io.Reader, defaultMatchID string) (*csvReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &csvReader{r: cr, index: map[string]int{}, matchID: defaultMatchID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return &csvReader{r: cr, index: index, line: 1, matchID: defaultMatchID}, nil
}

func (c *csvReader) get(col string) string {
	i, ok := c.index[col]
	if !ok || i >= len(c.row) {
		return ""
	}
	return c.row[i]
}

func (c *csvReader) Next() (*model.EventRecord, error) {
	row, err := c.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("csv line %d: %w", c.line+1, err)
	}
	c.line++
	c.row = row

	typeName := cleanText(c.get(colType))
	ev := &model.EventRecord{
		Type:     model.ParseEventType(typeName),
		TypeName: typeName,
		Player:   cleanText(c.get(colPlayer)),
		PlayerID: parseID(c.get(colPlayerID)),
		Team:     cleanText(c.get(colTeam)),
		MatchID:  parseID(c.get(colMatchID)),
		Location: parseLocationText(c.get(colLocation)),

		PassOutcome:    cleanText(c.get(colPassOutcome)),
		PassLength:     parseFloat(c.get(colPassLength)),
		PassAngle:      parseFloat(c.get(colPassAngle)),
		PassCross:      parseBool(c.get(colPassCross)),
		PassShotAssist: parseBool(c.get(colPassShotAssist)),
		PassKeyPassID:  cleanText(c.get(colPassKeyPassID)),

		ShotOutcome:     cleanText(c.get(colShotOutcome)),
		ShotStatsbombXG: parseFloat(c.get(colShotXG)),
		ShotBodyPart:    cleanText(c.get(colShotBodyPart)),

		DribbleOutcome:    cleanText(c.get(colDribbleOutcome)),
		DuelType:          cleanText(c.get(colDuelType)),
		DuelOutcome:       cleanText(c.get(colDuelOutcome)),
		FoulCommittedCard: cleanText(c.get(colFoulCommittedCard)),
		GoalkeeperOutcome: cleanText(c.get(colGoalkeeperOutcome)),
	}
	if ev.MatchID == "" {
		ev.MatchID = c.matchID
	}
	return ev, nil
}

// CSVRow renders ev in CSVColumns order.
func CSVRow(ev *model.EventRecord) []string {
	loc := ""
	if ev.Location.Valid() {
		loc = fmt.Sprintf("[%g, %g]", ev.Location.X, ev.Location.Y)
	}
	return []string{
		typeLabel(ev), ev.Player, ev.PlayerID, ev.Team, ev.MatchID, loc,
		ev.PassOutcome, formatFloat(ev.PassLength), formatFloat(ev.PassAngle),
		formatBool(ev.PassCross), formatBool(ev.PassShotAssist), ev.PassKeyPassID,
		ev.ShotOutcome, formatFloat(ev.ShotStatsbombXG), ev.ShotBodyPart,
		ev.DribbleOutcome, ev.DuelType, ev.DuelOutcome,
		ev.FoulCommittedCard, ev.GoalkeeperOutcome,
	}
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return fmt.Sprintf("%g", f)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func typeLabel(ev *model.EventRecord) string {
	if ev.TypeName == "" && ev.Type != model.EventUnknown {
		return ev.Type.String()
	}
	return ev.TypeName
}
