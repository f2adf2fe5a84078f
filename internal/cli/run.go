package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/engine"
	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	MaxRows  int
}

// RunResult is the JSON form of an executed stream.
type RunResult struct {
	Plan    PlanView         `json:"plan"`
	Seeded  int              `json:"seeded"`
	Fetched int              `json:"fetched"`
	Rows    []map[string]any `json:"rows"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a stream against a SQLite database",
		Long: `Execute the stream a scenario declares against a SQLite database.

The entity table is created if it does not exist and seeded with the
scenario rows when it is empty. The pushed-down SQL runs in the database,
the residual steps in-process, and the resulting rows are printed.

Example:
  speedment run --db ./app.db ./scenarios/full_pushdown.yaml
  speedment run --db :memory: ./scenarios/partial_pushdown.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database path or sqlite: URL (required)")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", engine.DefaultMaxRows, "fail when the SQL returns more rows than this")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStream(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	setup, err := loadStream(opts.RootOptions, path)
	if err != nil {
		return err
	}
	if setup.Dialect.Name() != "sqlite" {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: run executes against SQLite only, plan %s streams instead", ErrCodeDialect, setup.Dialect.Name()))
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seeded, err := seedTable(ctx, st, setup, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to prepare table", err)
	}

	eng := setup.newEngine(st, logger, engine.WithMaxRows(opts.MaxRows))
	res, err := eng.Execute(ctx, setup.Entity.Name, setup.Pipeline)
	if err != nil {
		return WrapExitError(ExitFailure, ErrCodeExecution, err)
	}

	if opts.Format == "json" {
		rows := make([]map[string]any, len(res.Rows))
		for i, row := range res.Rows {
			rows[i] = irObjectToMap(row)
		}
		return writeJSON(cmd.OutOrStdout(), CLIResponse{
			Status:  "ok",
			QueryID: res.Plan.QueryID,
			Data: RunResult{
				Plan:    newPlanView(res.Plan),
				Seeded:  seeded,
				Fetched: res.Fetched,
				Rows:    rows,
			},
		})
	}

	w := cmd.OutOrStdout()
	pal := newPalette(opts.RootOptions)
	if opts.Verbose {
		writePlanText(w, pal, res.Plan)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %s via %s\n", pal.ok.Sprint("✓"), res.Plan.Entity, res.Plan.Optimizer)
	fmt.Fprintf(w, "  SQL: %s\n\n", res.Plan.SQL)
	if err := writeRowsTable(w, setup.Entity, res.Rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d row(s), %d fetched from SQL\n", len(res.Rows), res.Fetched)
	return nil
}

// seedTable creates the entity table and inserts the scenario rows if the
// table is empty. Returns the number of rows inserted.
func seedTable(ctx context.Context, st *store.Store, setup *streamSetup, logger *slog.Logger) (int, error) {
	if err := st.CreateTable(ctx, setup.Entity); err != nil {
		return 0, err
	}

	n, err := st.CountRows(ctx, "SELECT * FROM "+setup.Dialect.QuoteIdentifier(setup.Entity.Table))
	if err != nil {
		return 0, err
	}
	if n > 0 || len(setup.Rows) == 0 {
		logger.Debug("table not seeded", "table", setup.Entity.Table, "existing", n)
		return 0, nil
	}

	if err := st.InsertRows(ctx, setup.Entity, setup.Rows); err != nil {
		return 0, err
	}
	logger.Info("table seeded", "table", setup.Entity.Table, "rows", len(setup.Rows))
	return len(setup.Rows), nil
}

// writeRowsTable renders rows as a markdown table. Columns follow the
// entity's declaration order; a projected stream shows only the columns
// its rows carry.
func writeRowsTable(w io.Writer, entity *ir.EntitySpec, rows []ir.IRObject) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	var columns []string
	for _, col := range entity.Columns {
		for _, row := range rows {
			if _, ok := row[col.Name]; ok {
				columns = append(columns, col.Name)
				break
			}
		}
	}

	table := newMarkdownTable(w, len(columns))
	table.Header(columns)
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = formatValue(row[c])
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}
	return table.Render()
}
