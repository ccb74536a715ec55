package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/roach88/bitemp/internal/condition"
	"github.com/roach88/bitemp/internal/queryir"
	"github.com/roach88/bitemp/internal/querysql"
	"github.com/roach88/bitemp/internal/schema"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Schema string
	Window windowFlags
}

// SelectionRow is one selected partition with its query bounds.
type SelectionRow struct {
	Partition   string `json:"partition"`
	Valid       string `json:"valid"`
	Transaction string `json:"transaction"`
}

// ExplainResult describes how a query window is decomposed.
type ExplainResult struct {
	Field      string         `json:"field"`
	Branch     string         `json:"branch"`
	Selections []SelectionRow `json:"selections"`
	Predicate  string         `json:"predicate"`
	Tree       string         `json:"-"` // Predicate one node per line
	SQL        string         `json:"sql"`
	Params     []any          `json:"params"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show how a query window is decomposed",
		Long: `Show the partitions a query window selects, the bounds each is queried
with, the composed predicate and the SQL it compiles to. No database is read.

Examples:
  bitemp explain --schema ./schema --field tenancy --vt-from 10 --vt-to 20 --tt-from now --tt-to 8
  bitemp explain --schema schema.cue --field tenancy --tt-from now --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema file or directory (required)")
	_ = cmd.MarkFlagRequired("schema")
	opts.Window.register(cmd)

	return cmd
}

func runExplain(opts *ExplainOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(opts.Schema)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result, err := Explain(loaded.Schema, opts.Window.condition())
	if err != nil {
		code := conditionErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	writeExplainText(formatter.Writer, result)
	return nil
}

// Explain plans c against s and compiles the plan's predicate to SQL.
func Explain(s *schema.Schema, c *condition.Bitemporal) (*ExplainResult, error) {
	plan, err := c.Plan(s)
	if err != nil {
		return nil, err
	}

	sql, params, err := querysql.NewSQLCompiler().Compile(c.Field, plan.Predicate)
	if err != nil {
		return nil, err
	}

	result := &ExplainResult{
		Field:      c.Field,
		Branch:     plan.Branch.String(),
		Selections: make([]SelectionRow, len(plan.Selections)),
		Predicate:  queryir.Format(plan.Predicate),
		Tree:       queryir.FormatIndent(plan.Predicate),
		SQL:        sql,
		Params:     params,
		Warnings:   queryir.Validate(plan.Predicate).Warnings,
	}
	for i, sel := range plan.Selections {
		result.Selections[i] = SelectionRow{
			Partition:   sel.Partition.String(),
			Valid:       sel.Valid.String(),
			Transaction: sel.Transaction.String(),
		}
	}
	return result, nil
}

var headingStyle = lipgloss.NewStyle().Bold(true)

// writeExplainText renders an explain result for terminals.
func writeExplainText(w io.Writer, r *ExplainResult) {
	fmt.Fprintf(w, "%s %s\n", headingStyle.Render("field:"), r.Field)
	fmt.Fprintf(w, "%s %s\n\n", headingStyle.Render("branch:"), r.Branch)

	rows := make([][]string, len(r.Selections))
	for i, sel := range r.Selections {
		rows[i] = []string{sel.Partition, sel.Valid, sel.Transaction}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PARTITION", "VALID", "TRANSACTION").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "\n%s\n%s\n", headingStyle.Render("predicate:"), indent(strings.TrimRight(r.Tree, "\n")))
	fmt.Fprintf(w, "\n%s\n%s\n", headingStyle.Render("sql:"), indent(r.SQL))
	fmt.Fprintf(w, "%s %v\n", headingStyle.Render("params:"), r.Params)

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
