package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/querysql"
)

// DialectInfo describes how one dialect renders SQL.
type DialectInfo struct {
	Name        string `json:"name"`
	SkipLimit   string `json:"skip_limit"`
	Placeholder string `json:"placeholder"`
	Quoted      string `json:"quoted"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List SQL dialects",
		Long: `List the SQL dialects the planner can render and how far each
supports skip and limit pushdown:

  full             OFFSET/LIMIT (or equivalent) anywhere in the stream
  only_after_sort  paging is only pushed after an ORDER BY
  unsupported      skip and limit always run in-process`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialects(rootOpts, cmd)
		},
	}
}

func runDialects(opts *RootOptions, cmd *cobra.Command) error {
	dialects := querysql.Dialects()
	infos := make([]DialectInfo, len(dialects))
	for i, d := range dialects {
		infos[i] = DialectInfo{
			Name:        d.Name(),
			SkipLimit:   d.SkipLimitSupport().String(),
			Placeholder: d.Placeholder(1),
			Quoted:      d.QuoteIdentifier("id"),
		}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: infos})
	}
	return writeDialectsText(cmd.OutOrStdout(), infos)
}

func writeDialectsText(w io.Writer, infos []DialectInfo) error {
	table := newMarkdownTable(w, 4)
	table.Header([]string{"dialect", "skip/limit", "placeholder", "identifier"})
	for _, info := range infos {
		if err := table.Append([]string{info.Name, info.SkipLimit, info.Placeholder, info.Quoted}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d dialect(s)\n", len(infos))
	return nil
}
