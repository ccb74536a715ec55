package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemp/internal/condition"
	"github.com/roach88/bitemp/internal/metrics"
	"github.com/roach88/bitemp/internal/store"
)

// windowFlags are the query window flags shared by query and explain.
type windowFlags struct {
	Field     string
	VtFrom    string
	VtTo      string
	TtFrom    string
	TtTo      string
	Operation string
	Boost     float64
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Field, "field", "", "bi-temporal field to query (required)")
	cmd.Flags().StringVar(&f.VtFrom, "vt-from", "", "valid time start (default MIN)")
	cmd.Flags().StringVar(&f.VtTo, "vt-to", "", "valid time end (default MAX)")
	cmd.Flags().StringVar(&f.TtFrom, "tt-from", "", `transaction time start, "now" for current versions (default MIN)`)
	cmd.Flags().StringVar(&f.TtTo, "tt-to", "", "transaction time end (default MAX)")
	cmd.Flags().StringVar(&f.Operation, "op", "", "spatial relation (contains|intersects|is_within) (default is_within)")
	cmd.Flags().Float64Var(&f.Boost, "boost", condition.DefaultBoost, "score of every match")
}

// condition builds the query condition. Empty bounds take their defaults.
func (f *windowFlags) condition() *condition.Bitemporal {
	raw := func(s string) any {
		if s == "" {
			return nil
		}
		return s
	}
	boost := f.Boost
	return &condition.Bitemporal{
		Field:     f.Field,
		VtFrom:    raw(f.VtFrom),
		VtTo:      raw(f.VtTo),
		TtFrom:    raw(f.TtFrom),
		TtTo:      raw(f.TtTo),
		Operation: f.Operation,
		Boost:     &boost,
	}
}

// conditionErrorCode returns the condition error code of err, or
// ErrCodeInvalidQuery when err is not a condition error.
func conditionErrorCode(err error) string {
	var cerr *condition.Error
	if errors.As(err, &cerr) {
		return string(cerr.Code)
	}
	return ErrCodeInvalidQuery
}

// openStore opens the database at path with a wall clock and the given
// metrics sink.
func openStore(opts *RootOptions, path string, m *metrics.Metrics) (*store.Store, error) {
	if path == "" {
		return nil, NewExitError(ExitCommandError, "--db is required")
	}
	opts.logger().Debug("opening database", "path", path)
	st, err := store.Open(path, store.WithLogger(opts.logger()), store.WithMetrics(m))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// writeMetrics dumps m in Prometheus text format to stderr when enabled.
func writeMetrics(cmd *cobra.Command, m *metrics.Metrics) error {
	if m == nil {
		return nil
	}
	if err := m.WriteText(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
