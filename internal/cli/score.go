package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/engine"
)

// ScoreResult lists every registered optimizer's metrics for a stream.
type ScoreResult struct {
	Entity     string                  `json:"entity"`
	Dialect    string                  `json:"dialect"`
	Support    string                  `json:"support"`
	Path       string                  `json:"path"`
	Chosen     string                  `json:"chosen"`
	Candidates []engine.CandidateScore `json:"candidates"`
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <scenario.yaml>",
		Short: "Score a stream with every registered optimizer",
		Long: `Show how many filter, sort, skip and limit steps each optimizer
would push into SQL. The optimizer with the highest benefit is chosen;
ties go to the one registered first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScore(opts *RootOptions, path string, cmd *cobra.Command) error {
	setup, err := loadStream(opts, path)
	if err != nil {
		return err
	}

	eng := setup.newEngine(nil, newLogger(opts, cmd.ErrOrStderr()))
	plan, err := eng.Explain(setup.Entity.Name, setup.Pipeline)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to score stream", err)
	}

	result := ScoreResult{
		Entity:     plan.Entity,
		Dialect:    plan.Dialect,
		Support:    plan.Support.String(),
		Path:       plan.Path.String(),
		Chosen:     plan.Optimizer,
		Candidates: plan.Candidates,
	}
	if result.Candidates == nil {
		result.Candidates = []engine.CandidateScore{}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return writeScoreText(cmd.OutOrStdout(), newPalette(opts), result)
}

func writeScoreText(w io.Writer, pal palette, result ScoreResult) error {
	fmt.Fprintf(w, "Scores for %s (%s, skip/limit %s, path %s)\n\n", result.Entity, result.Dialect, result.Support, result.Path)

	table := newMarkdownTable(w, 7)
	table.Header([]string{"optimizer", "filter", "sort", "skip", "limit", "benefit", "chosen"})
	for _, c := range result.Candidates {
		chosen := ""
		if c.Optimizer == result.Chosen {
			chosen = "✓"
		}
		if err := table.Append([]string{
			c.Optimizer,
			strconv.Itoa(c.Metrics.FilterCount),
			strconv.Itoa(c.Metrics.SortCount),
			strconv.Itoa(c.Metrics.SkipCount),
			strconv.Itoa(c.Metrics.LimitCount),
			strconv.Itoa(c.Benefit),
			chosen,
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Chosen: %s\n", pal.bold.Sprint(result.Chosen))
	return nil
}
