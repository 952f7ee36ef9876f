package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/export"
	"github.com/pable/go-football-metrics/internal/model"
)

const analyzeSystemPrompt = `You are a football performance analyst. You are given one player's season
statistics, aggregated from StatsBomb event data, and a question about that player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise. Compare per-game numbers rather than season totals when
  players have different matches_played.

Metrics glossary:
- pass_completion_rate, shot_accuracy, dribble_success_rate: percentages 0-100.
- Short/medium/long passes: under 15, 15-30, over 30 pitch units.
- Forward/backward passes: pass angle within 45 degrees of straight ahead/behind.
- key_passes: passes leading to a shot. assists: passes leading to a goal.
- total_xg: summed expected goals of the player's shots.
- shots_from_inside_box: shot taken at x > 102 and 18 <= y <= 62 (pitch 120x80).
- avg_position_x/y: mean event location; x grows towards the opponent goal.
- pressure_events: pressures applied. tackles_won: duel tackles won.
- saves: goalkeeper saves (goalkeepers only).
- team_totals: summed counters of the player's team in the same run.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeRun    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <player> <question>",
	Short: "AI-powered grounded analysis of one player (requires ANTHROPIC_API_KEY)",
	Long: `Send one player's stored season row, with their team totals for context, to
the Anthropic API and stream back an answer grounded only in that data.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default anthropic_model from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzeRun, "run", "", "run ID prefix (default latest)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.ResolveRun(analyzeRun)
	if err != nil {
		return fmt.Errorf("resolve run: %w", err)
	}
	p, err := db.GetPlayer(run.RunID, name)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no player matching %q in run %s", name, short(run.RunID))
	}
	teams, err := db.TeamTotalsForRun(run.RunID)
	if err != nil {
		return fmt.Errorf("team totals: %w", err)
	}

	data, err := buildAnalyzeData(run, p, teams)
	if err != nil {
		return err
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	fmt.Fprintf(os.Stdout, "Player: %s (%s), %d matches\n", p.Name, p.Team, p.MatchesPlayed)
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, data, question)
}

// buildAnalyzeData renders the grounding document: the run, the player row in
// schema column order and the player's team totals.
func buildAnalyzeData(run *model.RunSummary, p *model.PlayerAggregate, teams []model.TeamTotals) (string, error) {
	row, err := export.MarshalRow(model.Columns, p)
	if err != nil {
		return "", fmt.Errorf("marshal player: %w", err)
	}
	doc := struct {
		Run        model.RunSummary  `json:"run"`
		Player     json.RawMessage   `json:"player"`
		TeamTotals *model.TeamTotals `json:"team_totals,omitempty"`
	}{Run: *run, Player: row}
	for i := range teams {
		if teams[i].Team == p.Team {
			doc.TeamTotals = &teams[i]
			break
		}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}
	return string(b), nil
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return errors.New("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n--- AI Analysis ---------------------------------------")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n-------------------------------------------------------")

	if err := stream.Err(); err != nil {
		if s := err.Error(); strings.Contains(s, "401") || strings.Contains(s, "authentication") {
			return errors.New("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}

