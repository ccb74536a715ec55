package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bitemp/internal/harness"
	"github.com/roach88/bitemp/internal/metrics"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Database string
	Schema   string
	Metrics  bool
}

// RecordsFile is the YAML document read by the index command.
type RecordsFile struct {
	Records []harness.RecordStep `yaml:"records"`
}

// IndexedVersion summarizes one written version.
type IndexedVersion struct {
	ID     string `json:"id"`
	Field  string `json:"field"`
	Key    string `json:"key"`
	TtFrom string `json:"tt_from"`
}

// IndexResult holds the index output.
type IndexResult struct {
	Written  int              `json:"written"`
	Versions []IndexedVersion `json:"versions"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index <records.yaml>",
		Short: "Write record versions to the store",
		Long: `Write record versions from a YAML file to the store, in file order.

Each record takes the next transaction time and supersedes the open version
of its key. A record with "retract: true" closes the open version instead.

Payload values may be strings, integers, booleans, lists or maps. Floats and
nulls are rejected because payloads are hashed as canonical JSON; write
fractional amounts as strings such as "9.50".

Example file:
  records:
    - {field: tenancy, key: alice, vt_from: 2020-01-01T00:00:00Z, payload: {unit: 4B}}
    - {field: tenancy, key: bob, retract: true}

Example:
  bitemp index --db ./bitemp.db --schema ./schema records.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "CUE schema file or directory (required)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runIndex(opts *IndexOptions, recordsPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loaded, err := LoadSchema(opts.Schema)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	records, err := LoadRecords(recordsPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load records", err)
	}

	var m *metrics.Metrics
	if opts.Metrics {
		m = metrics.New()
	}

	st, err := openStore(opts.RootOptions, opts.Database, m)
	if err != nil {
		return err
	}
	defer st.Close()

	written, err := harness.ApplyRecords(cmd.Context(), st, loaded.Schema, records.Records)
	result := IndexResult{Written: len(written), Versions: make([]IndexedVersion, len(written))}
	for i, v := range written {
		result.Versions[i] = IndexedVersion{ID: v.ID, Field: v.Field, Key: v.Key, TtFrom: v.TtFrom.String()}
		opts.logger().Debug("version written", "field", v.Field, "key", v.Key, "id", v.ID)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), result)
		return WrapExitError(ExitFailure, fmt.Sprintf("indexing stopped after %d version(s)", len(written)), err)
	}

	if opts.Format == "json" {
		err = formatter.Success(result)
	} else {
		for _, v := range result.Versions {
			fmt.Fprintf(formatter.Writer, "%s/%s@%s %s\n", v.Field, v.Key, v.TtFrom, v.ID)
		}
		fmt.Fprintf(formatter.Writer, "%d version(s) written\n", result.Written)
	}
	if err != nil {
		return err
	}
	return writeMetrics(cmd, m)
}

// LoadRecords reads a records YAML file, rejecting unknown keys.
func LoadRecords(path string) (*RecordsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var file RecordsFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, r := range file.Records {
		if r.Field == "" || r.Key == "" {
			return nil, fmt.Errorf("records[%d]: field and key are required", i)
		}
	}
	return &file, nil
}
