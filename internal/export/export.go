// Package export writes the finalized player table as delimited text. Every
// view is a projection of model.Columns.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
)

// TimestampLayout is the file-name timestamp format.
const TimestampLayout = "20060102_150405"

// View is a named column projection.
type View struct {
	Name    string
	Columns []model.Column
}

var (
	Full       = View{Name: "player_stats_full", Columns: model.Columns}
	Simple     = View{Name: "player_stats_simple", Columns: model.SelectColumns(model.SimpleColumnNames)}
	TopScorers = View{Name: "top_scorers", Columns: model.SelectColumns(model.TopScorerColumnNames)}
)

// ViewByName resolves "full", "simple" or "top_scorers" (or a full view
// name such as "player_stats_simple").
func ViewByName(name string) (View, bool) {
	for _, v := range []View{Full, Simple, TopScorers} {
		if name == v.Name || "player_stats_"+name == v.Name {
			return v, true
		}
	}
	return View{}, false
}

// WriteCSV writes a header and one row per player, in the given order.
func WriteCSV(w io.Writer, cols []model.Column, players []*model.PlayerAggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ColumnNames(cols)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols))
	for _, p := range players {
		for i, c := range cols {
			row[i] = c.Format(p)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", p.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes players as a JSON array of column -> value objects, keys
// in schema order.
func WriteJSON(w io.Writer, cols []model.Column, players []*model.PlayerAggregate) error {
	rows := make([]json.RawMessage, 0, len(players))
	for _, p := range players {
		raw, err := MarshalRow(cols, p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.Name, err)
		}
		rows = append(rows, raw)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// MarshalRow encodes one player as a JSON object with keys in column order.
func MarshalRow(cols []model.Column, p *model.PlayerAggregate) (json.RawMessage, error) {
	buf := []byte{'{'}
	for i, c := range cols {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, _ := json.Marshal(c.Name)
		v, err := json.Marshal(c.Value(p))
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

// FileName builds "<prefix>_<view>_<timestamp>.csv"; an empty prefix is
// omitted.
func FileName(prefix, view string, ts time.Time) string {
	name := view + "_" + ts.Format(TimestampLayout) + ".csv"
	if prefix != "" {
		name = prefix + "_" + name
	}
	return name
}

// Files are the paths written by WriteAll.
type Files struct {
	Full, Simple, TopScorers string
}

// WriteAll writes the full, simple and top-scorers views of players (already
// in report order) into dir. The top scorers view holds topN rows.
func WriteAll(dir, prefix string, players []*model.PlayerAggregate, topN int, now time.Time) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}
	scorers, err := ranking.TopBy(players, "goals_scored", topN, 0)
	if err != nil {
		return Files{}, err
	}

	var out Files
	for _, job := range []struct {
		view    View
		players []*model.PlayerAggregate
		dst     *string
	}{
		{Full, players, &out.Full},
		{Simple, players, &out.Simple},
		{TopScorers, scorers, &out.TopScorers},
	} {
		path := filepath.Join(dir, FileName(prefix, job.view.Name, now))
		if err := writeFile(path, job.view.Columns, job.players); err != nil {
			return out, err
		}
		*job.dst = path
	}
	return out, nil
}

func writeFile(path string, cols []model.Column, players []*model.PlayerAggregate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, cols, players); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
