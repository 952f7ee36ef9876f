package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/ranking"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/similarity"
	"github.com/pable/go-football-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession keeps the selected run between commands.
type shellSession struct {
	db      *storage.DB
	run     *model.RunSummary
	players []*model.PlayerAggregate
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{db: db}
	cGreeting.Println("fbmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	if err := s.use(""); err != nil {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("fbmetrics")
		if s.run != nil {
			cMuted.Printf("[%s]", short(s.run.RunID))
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "use":
			if err := s.use(rest); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "show":
			s.show(rest)
		case "player":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			s.player(rest)
		case "top":
			s.top(strings.Fields(rest))
		case "similar":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: similar <name> [--role <role>]")
				continue
			}
			s.similar(rest)
		case "summary":
			s.summary()
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored runs"},
		{"use [run-prefix]", "select a run (latest when omitted)"},
		{"show [player]", "player table of the run, highlighting one player"},
		{"player <name>", "stat card of one player"},
		{"top <metric> [n] [min-passes]", "leaders by a numeric column"},
		{"similar <name> [--role <role>]", "players with a similar profile"},
		{"summary", "season summary of the run"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) use(prefix string) error {
	run, err := s.db.ResolveRun(prefix)
	if err != nil {
		return err
	}
	players, err := s.db.GetPlayerStats(run.RunID)
	if err != nil {
		return err
	}
	s.run, s.players = run, players
	cMuted.Printf("using run %s (%d players)\n", short(run.RunID), len(players))
	return nil
}

func (s *shellSession) ready() bool {
	if s.run == nil {
		cWarn.Fprintln(os.Stderr, "no run selected: aggregate some events, then 'use'")
		return false
	}
	return true
}

func (s *shellSession) list() {
	runs, err := s.db.ListRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunList(os.Stdout, runs)
}

func (s *shellSession) show(focus string) {
	if !s.ready() {
		return
	}
	report.PrintRunHeader(os.Stdout, *s.run)
	report.PrintPlayerTable(os.Stdout, firstN(s.players, 30), focus)
}

func (s *shellSession) player(name string) {
	if !s.ready() {
		return
	}
	p, err := s.db.GetPlayer(s.run.RunID, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if p == nil {
		cWarn.Fprintf(os.Stderr, "no player matching %q\n", name)
		return
	}
	cHeader.Fprintf(os.Stdout, "\n--- %s (%s) ---\n", p.Name, p.Team)
	report.PrintPlayerCard(os.Stdout, p)
}

func (s *shellSession) top(args []string) {
	if !s.ready() {
		return
	}
	if len(args) == 0 {
		cError.Fprintln(os.Stderr, "usage: top <metric> [n] [min-passes]")
		return
	}
	n, minPasses := cfg.TopN, 0
	if len(args) > 1 {
		n, _ = strconv.Atoi(args[1])
	}
	if len(args) > 2 {
		minPasses, _ = strconv.Atoi(args[2])
	}
	col, err := ranking.Metric(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	leaders, err := ranking.TopBy(s.players, col.Name, n, minPasses)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintLeaders(os.Stdout, col, leaders)
}

func (s *shellSession) similar(rest string) {
	if !s.ready() {
		return
	}
	name, role := rest, ""
	if i := strings.Index(rest, "--role"); i >= 0 {
		name = strings.TrimSpace(rest[:i])
		role = strings.TrimSpace(rest[i+len("--role"):])
	}
	target, err := similarity.Find(s.players, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	results, err := similarity.Search(s.players, similarity.Query{Player: target.Name, Role: role, N: 10, MinMatches: 5})
	if errors.Is(err, similarity.ErrUnknownRole) {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
		return
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSimilar(os.Stdout, target, results)
}

func (s *shellSession) summary() {
	if !s.ready() {
		return
	}
	report.PrintRunHeader(os.Stdout, *s.run)
	report.PrintSummary(os.Stdout, ranking.Summarize(s.players, cfg.SummaryTopN, cfg.MinPassesForAccuracy))
}
