package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	Entity   string // optional - filter to one entity
}

// LogEntry is one executed query as shown by the log command.
type LogEntry struct {
	Seq       int64  `json:"seq"`
	QueryID   string `json:"query_id"`
	Entity    string `json:"entity"`
	Dialect   string `json:"dialect"`
	Optimizer string `json:"optimizer"`
	SQL       string `json:"sql"`
	Params    []any  `json:"params"`
	Pushed    int    `json:"pushed"`
	Residual  int    `json:"residual"`
	Rows      int    `json:"rows"`
}

// LogResult holds the log output.
type LogResult struct {
	Entity  string     `json:"entity,omitempty"`
	Entries []LogEntry `json:"entries"`
	Stats   LogStats   `json:"stats"`
}

// LogStats summarises how much work the logged queries pushed to SQL.
type LogStats struct {
	Queries       int `json:"queries"`
	FullyPushed   int `json:"fully_pushed"`
	PushedSteps   int `json:"pushed_steps"`
	ResidualSteps int `json:"residual_steps"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show executed queries",
		Long: `Show the queries recorded by run, oldest first.

Each entry has the optimizer that built the SQL, the statement and its
parameters, and how many stream steps were pushed to SQL versus evaluated
in-process.

Examples:
  speedment log --db ./speedment.db
  speedment log --db ./speedment.db --entity User
  speedment log --db ./speedment.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database path or sqlite: URL (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "filter to one entity")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	entries, err := st.ReadQueryLog(ctx, opts.Entity)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read query log", err)
	}

	result := buildLogResult(opts.Entity, entries)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return writeLogText(cmd.OutOrStdout(), newPalette(opts.RootOptions), result, opts.Verbose)
}

func buildLogResult(entity string, entries []store.QueryLogEntry) LogResult {
	result := LogResult{
		Entity:  entity,
		Entries: make([]LogEntry, len(entries)),
	}
	for i, e := range entries {
		params := e.Params
		if params == nil {
			params = []any{}
		}
		result.Entries[i] = LogEntry{
			Seq:       e.Seq,
			QueryID:   e.ID,
			Entity:    e.Entity,
			Dialect:   e.Dialect,
			Optimizer: e.Optimizer,
			SQL:       e.SQL,
			Params:    params,
			Pushed:    e.Pushed,
			Residual:  e.Residual,
			Rows:      e.Rows,
		}
		result.Stats.PushedSteps += e.Pushed
		result.Stats.ResidualSteps += e.Residual
		if e.Residual == 0 {
			result.Stats.FullyPushed++
		}
	}
	result.Stats.Queries = len(entries)
	return result
}

func writeLogText(w io.Writer, pal palette, result LogResult, verbose bool) error {
	if len(result.Entries) == 0 {
		if result.Entity != "" {
			fmt.Fprintf(w, "No queries logged for entity: %s\n", result.Entity)
		} else {
			fmt.Fprintln(w, "No queries logged.")
		}
		return nil
	}

	table := newMarkdownTable(w, 7)
	table.Header([]string{"seq", "entity", "dialect", "optimizer", "pushed", "residual", "rows"})
	for _, e := range result.Entries {
		if err := table.Append([]string{
			strconv.FormatInt(e.Seq, 10),
			e.Entity,
			e.Dialect,
			e.Optimizer,
			strconv.Itoa(e.Pushed),
			strconv.Itoa(e.Residual),
			strconv.Itoa(e.Rows),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintln(w)
		for _, e := range result.Entries {
			fmt.Fprintf(w, "[%d] %s\n", e.Seq, e.QueryID)
			fmt.Fprintf(w, "  SQL: %s\n", e.SQL)
			if len(e.Params) > 0 {
				fmt.Fprintf(w, "  Params: %s\n", formatParams(e.Params))
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d of %d quer(ies) fully pushed (%d step(s) in SQL, %d in-process)\n",
		pal.ok.Sprint("✓"),
		result.Stats.FullyPushed,
		result.Stats.Queries,
		result.Stats.PushedSteps,
		result.Stats.ResidualSteps)
	return nil
}

func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if s, ok := p.(string); ok {
			parts[i] = strconv.Quote(s)
			continue
		}
		parts[i] = fmt.Sprint(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
