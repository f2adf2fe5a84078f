package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhafizyusof/speedment/internal/queryir"
)

// ValidationResult reports which steps of a stream can never reach SQL.
type ValidationResult struct {
	Pushable bool     `json:"pushable"`
	Steps    []string `json:"steps"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check that every stream step can be translated to SQL",
		Long: `Validate the stream a scenario declares, step by step.

Opaque predicates and comparators, OR combinators, composite comparators,
map and distinct steps are reported with the reason they stay in-process.
Validation looks at each step on its own; use plan to see which steps a
given dialect actually pushes.

Exit codes:
  0 - Every step is pushable
  1 - At least one step is evaluated in-process
  2 - Command error (invalid scenario, specs, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	setup, err := loadStream(opts, path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Validating %d step(s) of %s", setup.Pipeline.Len(), setup.Scenario.Name)

	validation := queryir.Validate(setup.Pipeline)
	result := ValidationResult{
		Pushable: validation.IsPushable,
		Steps:    make([]string, setup.Pipeline.Len()),
		Warnings: validation.Warnings,
	}
	for i, op := range setup.Pipeline.Operations() {
		result.Steps[i] = queryir.Describe(op)
	}

	if result.Pushable {
		return outputValidateSuccess(formatter, newPalette(opts), result)
	}
	return outputValidationWarnings(formatter, newPalette(opts), result)
}

// outputValidateSuccess outputs a fully pushable stream.
func outputValidateSuccess(formatter *OutputFormatter, pal palette, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "%s All %d step(s) pushable\n", pal.ok.Sprint("✓"), len(result.Steps))
	return nil
}

// outputValidationWarnings outputs the steps that stay in-process.
func outputValidationWarnings(formatter *OutputFormatter, pal palette, result ValidationResult) error {
	msg := fmt.Sprintf("%d step(s) evaluated in-process", len(result.Warnings))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeNotPushable,
				Message: msg,
			},
		}
		if err := writeJSON(formatter.Writer, response); err != nil {
			return err
		}
		// Non-pushable steps = exit code 1 (validation failure)
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintf(formatter.Writer, "%s %s\n\n", pal.fail.Sprint("✗"), msg)
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "  %s\n", w)
	}

	return NewExitError(ExitFailure, msg)
}
