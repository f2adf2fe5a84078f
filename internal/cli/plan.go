package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/engine"
)

// PlanView is the JSON form of a plan.
type PlanView struct {
	QueryID    string                  `json:"query_id"`
	Entity     string                  `json:"entity"`
	Dialect    string                  `json:"dialect"`
	Support    string                  `json:"support"`
	Path       string                  `json:"path"`
	Optimizer  string                  `json:"optimizer"`
	Benefit    int                     `json:"benefit"`
	Candidates []engine.CandidateScore `json:"candidates"`
	SQL        string                  `json:"sql"`
	Params     []any                   `json:"params"`
	Pushed     []string                `json:"pushed"`
	Residual   []string                `json:"residual"`
	Warnings   []string                `json:"warnings"`
}

func newPlanView(p *engine.Plan) PlanView {
	params := p.Params
	if params == nil {
		params = []any{}
	}
	candidates := p.Candidates
	if candidates == nil {
		candidates = []engine.CandidateScore{}
	}
	warnings := p.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return PlanView{
		QueryID:    p.QueryID,
		Entity:     p.Entity,
		Dialect:    p.Dialect,
		Support:    p.Support.String(),
		Path:       p.Path.String(),
		Optimizer:  p.Optimizer,
		Benefit:    p.Metrics.PipelineReductions(),
		Candidates: candidates,
		SQL:        p.SQL,
		Params:     params,
		Pushed:     p.PushedSteps(),
		Residual:   p.ResidualSteps(),
		Warnings:   warnings,
	}
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <scenario.yaml>",
		Short: "Show how a stream is split between SQL and in-process steps",
		Long: `Plan the stream a scenario declares without touching a database.

Prints the chosen optimizer and its benefit, the SQL with its bound
parameters, and the steps left for in-process evaluation.

Examples:
  speedment plan ./scenarios/full_pushdown.yaml
  speedment plan ./scenarios/full_pushdown.yaml --dialect sqlserver
  speedment plan ./scenarios/full_pushdown.yaml --dsn postgres://localhost/app`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runPlan(opts *RootOptions, path string, cmd *cobra.Command) error {
	setup, err := loadStream(opts, path)
	if err != nil {
		return err
	}

	eng := setup.newEngine(nil, newLogger(opts, cmd.ErrOrStderr()))
	plan, err := eng.Explain(setup.Entity.Name, setup.Pipeline)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to plan stream", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: newPlanView(plan), QueryID: plan.QueryID})
	}
	writePlanText(cmd.OutOrStdout(), newPalette(opts), plan)
	return nil
}

// writePlanText prints a plan for humans.
func writePlanText(w io.Writer, pal palette, plan *engine.Plan) {
	fmt.Fprintf(w, "Plan for %s (%s, skip/limit %s)\n", plan.Entity, plan.Dialect, plan.Support)
	fmt.Fprintf(w, "  Query:     %s\n", plan.QueryID)
	fmt.Fprintf(w, "  Optimizer: %s (benefit %d)\n", pal.bold.Sprint(plan.Optimizer), plan.Metrics.PipelineReductions())
	fmt.Fprintf(w, "  Path:      %s\n", plan.Path)
	fmt.Fprintf(w, "  SQL:       %s\n", plan.SQL)
	fmt.Fprintf(w, "  Params:    %s\n", formatParams(plan.Params))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pushed:")
	writeSteps(w, plan.PushedSteps(), pal.ok.Sprint("✓"))
	fmt.Fprintln(w, "Residual:")
	writeSteps(w, plan.ResidualSteps(), pal.warn.Sprint("→"))

	if len(plan.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		writeSteps(w, plan.Warnings, pal.fail.Sprint("!"))
	}
}

func writeSteps(w io.Writer, steps []string, mark string) {
	if len(steps) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, s := range steps {
		fmt.Fprintf(w, "  %s %s\n", mark, s)
	}
}
