package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/metrics"
	"github.com/roach88/bitemp/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Schema   string
	Metrics  bool
	Window   windowFlags
}

// QueryHit is one matching version in query output.
type QueryHit struct {
	ir.VersionRecord
	Score float64 `json:"score"`
}

// QueryResult holds the query output.
type QueryResult struct {
	Field  string     `json:"field"`
	Branch string     `json:"branch"`
	Hits   []QueryHit `json:"hits"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find record versions matching a bi-temporal window",
		Long: `Find the record versions of a bi-temporal field whose valid-time and
transaction-time intervals relate to the given window.

Bounds are parsed with the field's schema pattern. Omitted "from" bounds are
MIN and omitted "to" bounds are MAX. --tt-from now restricts the search to
current versions.

Examples:
  bitemp query --db ./bitemp.db --schema ./schema --field tenancy --tt-from now
  bitemp query --db ./bitemp.db --schema ./schema --field tenancy \
      --vt-from 2020-01-01T00:00:00Z --vt-to 2020-12-31T00:00:00Z --op is_within`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema file or directory (required)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("schema")
	opts.Window.register(cmd)

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(opts.Schema)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	cond := opts.Window.condition()
	plan, err := cond.Plan(loaded.Schema)
	if err != nil {
		code := conditionErrorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	var m *metrics.Metrics
	if opts.Metrics {
		m = metrics.New()
	}
	m.ObservePlan(plan)

	st, err := openStore(opts.RootOptions, opts.Database, m)
	if err != nil {
		return err
	}
	defer st.Close()

	hits, err := st.Search(cmd.Context(), cond.Field, plan.Predicate)
	if err != nil {
		_ = formatter.Error(ErrCodeSearchFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "search failed", err)
	}
	opts.logger().Debug("query", "field", cond.Field, "branch", plan.Branch.String(), "hits", len(hits))

	result := QueryResult{
		Field:  cond.Field,
		Branch: plan.Branch.String(),
		Hits:   toQueryHits(hits),
	}

	if opts.Format == "json" {
		err = formatter.Success(result)
	} else {
		writeQueryText(formatter.Writer, result)
	}
	if err != nil {
		return err
	}
	return writeMetrics(cmd, m)
}

func toQueryHits(hits []store.Hit) []QueryHit {
	out := make([]QueryHit, len(hits))
	for i, h := range hits {
		out[i] = QueryHit{VersionRecord: h.Version, Score: h.Score}
	}
	return out
}

func writeQueryText(w io.Writer, r QueryResult) {
	for _, h := range r.Hits {
		fmt.Fprintf(w, "%s\tvalid=[%s, %s]\ttransaction=[%s, %s]\tscore=%g\n",
			h.Key, h.VtFrom, h.VtTo, h.TtFrom, h.TtTo, h.Score)
	}
	fmt.Fprintf(w, "%d hit(s) on %s (%s)\n", len(r.Hits), r.Field, r.Branch)
}
