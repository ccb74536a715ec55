package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bitemp/internal/condition"
)

// Scenario defines a query conformance scenario.
// Records are written in order, each at the next transaction time, then
// every query is evaluated and checked against its expectation.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is inline CUE declaring the scenario's fields.
	Schema string `yaml:"schema,omitempty"`

	// SchemaFile is a path to a CUE schema, relative to the scenario file.
	// Exactly one of Schema and SchemaFile must be set.
	SchemaFile string `yaml:"schema_file,omitempty"`

	// Clock configures transaction time. Defaults to start 0, step 10.
	Clock *ClockConfig `yaml:"clock,omitempty"`

	// Records are the writes applied before any query runs.
	Records []RecordStep `yaml:"records"`

	// Queries are evaluated concurrently against the resulting store.
	Queries []QueryStep `yaml:"queries"`
}

// ClockConfig sets the deterministic transaction clock.
type ClockConfig struct {
	Start int64 `yaml:"start"`
	Step  int64 `yaml:"step"`
}

// RecordStep writes or retracts one version.
type RecordStep struct {
	Field string `yaml:"field"`
	Key   string `yaml:"key"`

	// VtFrom and VtTo are raw values parsed by the field's mapper.
	// An omitted VtFrom is MIN and an omitted VtTo is NOW.
	VtFrom any `yaml:"vt_from,omitempty"`
	VtTo   any `yaml:"vt_to,omitempty"`

	// Payload values must not be floats or nulls.
	Payload map[string]any `yaml:"payload,omitempty"`

	// Retract closes the open version of Key instead of writing one.
	Retract bool `yaml:"retract,omitempty"`
}

// QueryStep is a single bi-temporal query and its expected outcome.
type QueryStep struct {
	Name      string               `yaml:"name"`
	Condition condition.Bitemporal `yaml:"condition"`
	Expect    Expectation          `yaml:"expect"`
}

// Expectation describes what a query must produce.
// Unset fields are not checked.
type Expectation struct {
	// Matches lists "key@tt_from" labels of the versions the query returns,
	// in any order. An explicit empty list expects no hits.
	Matches []string `yaml:"matches"`

	// Branch is the expected planning branch, e.g. "open_before".
	Branch string `yaml:"branch,omitempty"`

	// Score is the expected score of every hit.
	Score *float64 `yaml:"score,omitempty"`

	// Error is the expected condition error code, e.g. "UNSUPPORTED_FIELD".
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative SchemaFile is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.SchemaFile != "" && !filepath.IsAbs(scenario.SchemaFile) {
		scenario.SchemaFile = filepath.Join(filepath.Dir(path), scenario.SchemaFile)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Schema == "") == (s.SchemaFile == "") {
		return fmt.Errorf("exactly one of schema and schema_file is required")
	}

	if s.Clock != nil && s.Clock.Step <= 0 {
		return fmt.Errorf("clock step must be positive, got %d", s.Clock.Step)
	}

	for i, r := range s.Records {
		if r.Field == "" || r.Key == "" {
			return fmt.Errorf("records[%d]: field and key are required", i)
		}
		if r.Retract && (r.VtFrom != nil || r.VtTo != nil || r.Payload != nil) {
			return fmt.Errorf("records[%d]: retract takes only field and key", i)
		}
	}

	if len(s.Queries) == 0 {
		return fmt.Errorf("queries list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("queries[%d]: name is required", i)
		}
		if seen[q.Name] {
			return fmt.Errorf("queries[%d]: duplicate name %q", i, q.Name)
		}
		seen[q.Name] = true

		if q.Expect.Error != "" && (q.Expect.Matches != nil || q.Expect.Branch != "" || q.Expect.Score != nil) {
			return fmt.Errorf("queries[%d]: error cannot be combined with other expectations", i)
		}
	}

	return nil
}
