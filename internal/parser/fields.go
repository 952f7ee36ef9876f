package parser

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pable/go-football-metrics/internal/model"
)

// absent reports whether a cell carries no value. Exports from dataframe
// tooling write missing values as nan/None.
func absent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null", "<na>":
		return true
	}
	return false
}

// cleanText returns s trimmed, or "" when the cell is absent.
func cleanText(s string) string {
	if absent(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// parseFloat returns 0 for absent or unparseable cells.
func parseFloat(s string) float64 {
	if absent(s) {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0", "yes", "y", "t":
		return true
	}
	return false
}

// parseID normalizes numeric ids that went through a float column ("5503.0").
func parseID(s string) string {
	s = cleanText(s)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// invalidLocation marks a location that was present but unusable, so the
// aggregator skips the position sample and reports it.
func invalidLocation() *model.Location {
	return &model.Location{X: math.NaN(), Y: math.NaN()}
}

// parseLocationText parses "[x, y]" (brackets and parentheses optional).
func parseLocationText(s string) *model.Location {
	if absent(s) {
		return nil
	}
	s = strings.Trim(strings.TrimSpace(s), "[]()")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return invalidLocation()
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return invalidLocation()
	}
	return &model.Location{X: x, Y: y}
}

// parseLocationJSON accepts a two-element numeric array.
func parseLocationJSON(raw json.RawMessage) *model.Location {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var vals []any
	if err := json.Unmarshal(raw, &vals); err != nil || len(vals) != 2 {
		return invalidLocation()
	}
	x, okX := vals[0].(float64)
	y, okY := vals[1].(float64)
	if !okX || !okY {
		return invalidLocation()
	}
	return &model.Location{X: x, Y: y}
}
