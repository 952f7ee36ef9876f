package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/similarity"
	"github.com/pable/go-football-metrics/internal/statsbomb"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func marker(p *model.PlayerAggregate, focus string) string {
	if focus != "" && p.Name == focus {
		return ">"
	}
	return " "
}

// sampleFlag grades how far a player's rates can be trusted by matches played.
func sampleFlag(matches int) string {
	switch {
	case matches >= ranking.CoreMatches:
		return "OK"
	case matches >= ranking.RegularMatches:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }
func f2(v float64) string { return fmt.Sprintf("%.2f", v) }
func itoa(v int) string { return strconv.Itoa(v) }
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintRunHeader prints a one-line summary header for a stored run.
func PrintRunHeader(w io.Writer, r model.RunSummary) {
	label := r.Label
	if label == "" {
		label = "-"
	}
	fmt.Fprintf(w, "\nRun: %s  |  Label: %s  |  Created: %s  |  Matches: %d  |  Events: %d  |  Players: %d\n\n",
		short(r.RunID), label, r.CreatedAt, r.Matches, r.Events, r.Players)
}

// PrintRunList prints stored runs, newest first.
func PrintRunList(w io.Writer, runs []model.RunSummary) {
	table := newTable(w)
	table.Header("RUN", "LABEL", "CREATED", "COMP", "SEASON", "MATCHES", "EVENTS", "DROPPED", "PLAYERS")
	for _, r := range runs {
		table.Append(short(r.RunID), r.Label, r.CreatedAt,
			itoa(r.Competition), itoa(r.Season),
			itoa(r.Matches), itoa(r.Events), itoa(r.Dropped), itoa(r.Players))
	}
	table.Render()
}

// PrintPlayerTable prints the season overview table. If focus is non-empty,
// that player's row is marked with ">".
func PrintPlayerTable(w io.Writer, players []*model.PlayerAggregate, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "TEAM", "MP", "EVENTS", "PASS", "CMP%", "KP", "A",
		"SH", "SOT", "G", "XG", "DRB%", "TKL", "INT", "SAMPLE")
	for _, p := range players {
		table.Append(
			marker(p, focus),
			p.Name,
			p.Team,
			itoa(p.MatchesPlayed),
			itoa(p.TotalEvents),
			itoa(p.PassesAttempted),
			pct(p.PassCompletionRate),
			itoa(p.KeyPasses),
			itoa(p.Assists),
			itoa(p.ShotsTotal),
			itoa(p.ShotsOnTarget),
			itoa(p.GoalsScored),
			f2(p.TotalXG),
			pct(p.DribbleSuccessRate),
			itoa(p.TacklesAttempted),
			itoa(p.Interceptions),
			sampleFlag(p.MatchesPlayed),
		)
	}
	table.Render()
}

// PrintShootingTable prints shot volume, placement and quality.
func PrintShootingTable(w io.Writer, players []*model.PlayerAggregate, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "SH", "SOT", "OFF", "BLK", "G", "IN_BOX", "OUT_BOX", "HEAD",
		"XG", "XG/SH", "G-XG", "ACC%", "SH/G")
	for _, p := range players {
		xgPerShot := "-"
		if p.ShotsTotal > 0 {
			xgPerShot = fmt.Sprintf("%.3f", p.XGPerShot())
		}
		table.Append(
			marker(p, focus),
			p.Name,
			itoa(p.ShotsTotal),
			itoa(p.ShotsOnTarget),
			itoa(p.ShotsOffTarget),
			itoa(p.ShotsBlocked),
			itoa(p.GoalsScored),
			itoa(p.ShotsFromInsideBox),
			itoa(p.ShotsOutsideBox),
			itoa(p.Headers),
			f2(p.TotalXG),
			xgPerShot,
			fmt.Sprintf("%+.2f", float64(p.GoalsScored)-p.TotalXG),
			pct(p.ShotAccuracy),
			f2(p.ShotsPerGame),
		)
	}
	table.Render()
}

// PrintDefendingTable prints defensive actions and discipline.
func PrintDefendingTable(w io.Writer, players []*model.PlayerAggregate, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "TKL", "TKL_W", "INT", "CLR", "BLK", "PRESS", "RECOV",
		"FC", "FW", "YC", "RC", "SAVES")
	for _, p := range players {
		table.Append(
			marker(p, focus),
			p.Name,
			itoa(p.TacklesAttempted),
			itoa(p.TacklesWon),
			itoa(p.Interceptions),
			itoa(p.Clearances),
			itoa(p.Blocks),
			itoa(p.PressureEvents),
			itoa(p.BallRecoveries),
			itoa(p.FoulsCommitted),
			itoa(p.FoulsWon),
			itoa(p.YellowCards),
			itoa(p.RedCards),
			itoa(p.Saves),
		)
	}
	table.Render()
}

// PrintPlayerCard prints every column of one player as FIELD / VALUE rows.
func PrintPlayerCard(w io.Writer, p *model.PlayerAggregate) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("FIELD", "VALUE")
	for _, c := range model.Columns {
		v := c.Format(p)
		if c.Kind == model.KindFloat {
			v = f2(c.Numeric(p))
		}
		table.Append(c.Name, v)
	}
	table.Render()
}

// PrintLeaders prints a ranked leaderboard for one metric column.
func PrintLeaders(w io.Writer, metric model.Column, players []*model.PlayerAggregate) {
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "MP", "PASS", metric.Name)
	for i, p := range players {
		v := metric.Format(p)
		if metric.Kind == model.KindFloat {
			v = f2(metric.Numeric(p))
		}
		table.Append(itoa(i+1), p.Name, p.Team, itoa(p.MatchesPlayed), itoa(p.PassesAttempted), v)
	}
	table.Render()
}

// PrintSummary prints the season summary: headcounts and the four leaderboards.
func PrintSummary(w io.Writer, s ranking.Summary) {
	fmt.Fprintf(w, "\nPlayers: %d  |  %d+ matches: %d  |  %d+ matches: %d  |  Goals: %d  |  xG: %.1f\n",
		s.TotalPlayers, ranking.RegularMatches, s.RegularPlayers, ranking.CoreMatches, s.CorePlayers,
		s.TotalGoals, s.TotalXG)

	boards := []struct {
		title   string
		metric  string
		players []*model.PlayerAggregate
	}{
		{"Top scorers", "goals_scored", s.TopScorers},
		{"Top assisters", "assists", s.TopAssisters},
		{"Most passes", "passes_attempted", s.TopPassers},
		{fmt.Sprintf("Best pass completion (min %d passes)", s.MinPasses), "pass_completion_rate", s.TopPassAccuracy},
	}
	for _, b := range boards {
		fmt.Fprintf(w, "\n%s\n", b.title)
		if len(b.players) == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}
		col, _ := model.ColumnByName(b.metric)
		PrintLeaders(w, col, b.players)
	}
}

// PrintTeamTable prints per-team totals of a run.
func PrintTeamTable(w io.Writer, teams []model.TeamTotals) {
	table := newTable(w)
	table.Header("TEAM", "PLAYERS", "G", "A", "SH", "SOT", "XG", "PASS", "CMP%", "YC", "RC")
	for _, t := range teams {
		table.Append(t.Team, itoa(t.Players), itoa(t.Goals), itoa(t.Assists),
			itoa(t.Shots), itoa(t.ShotsOnTarget), f2(t.TotalXG),
			itoa(t.PassesAttempted), pct(t.PassCompletionRate()),
			itoa(t.YellowCards), itoa(t.RedCards))
	}
	table.Render()
}

// PrintSimilar prints similarity results for target.
func PrintSimilar(w io.Writer, target *model.PlayerAggregate, results []similarity.Result) {
	fmt.Fprintf(w, "\nPlayers similar to %s (%s, %d matches)\n\n", target.Name, target.Team, target.MatchesPlayed)
	table := newTable(w)
	table.Header("#", "PLAYER", "TEAM", "MP", "SIMILARITY", "SAMPLE")
	for i, r := range results {
		table.Append(itoa(i+1), r.Player.Name, r.Player.Team, itoa(r.Player.MatchesPlayed),
			fmt.Sprintf("%.3f", r.Score), sampleFlag(r.Player.MatchesPlayed))
	}
	table.Render()
}

// PrintCompetitions lists the competition seasons available for fetch.
func PrintCompetitions(w io.Writer, comps []statsbomb.Competition) {
	table := newTable(w)
	table.Header("COMP", "SEASON", "COUNTRY", "COMPETITION", "SEASON NAME")
	for _, c := range comps {
		table.Append(itoa(c.CompetitionID), itoa(c.SeasonID), c.CountryName, c.CompetitionName, c.SeasonName)
	}
	table.Render()
}

// PrintRaw prints the result of an ad-hoc query followed by its row count.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
