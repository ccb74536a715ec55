package harness

import (
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bitemp/internal/ir"
)

// ExplainSnapshot captures how every query of a scenario was planned and
// what it matched.
type ExplainSnapshot struct {
	ScenarioName string        `json:"scenario_name"`
	Queries      []QueryResult `json:"queries"`
}

// toCanonicalMap converts a snapshot to a map[string]any for canonical JSON
// serialization. Scores become strings because canonical JSON has no floats.
func (s *ExplainSnapshot) toCanonicalMap() map[string]any {
	queries := make([]any, len(s.Queries))
	for i, q := range s.Queries {
		m := map[string]any{
			"name":    q.Name,
			"matches": toAnySlice(q.Matches),
		}
		if q.Error != "" {
			m["error"] = q.Error
		} else {
			m["branch"] = q.Branch
			m["selections"] = toAnySlice(q.Selections)
			m["predicate"] = q.Predicate
			m["score"] = strconv.FormatFloat(q.Score, 'g', -1, 64)
		}
		queries[i] = m
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"queries":       queries,
	}
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// MarshalSnapshot renders the explain snapshot of a result as canonical
// JSON, the golden file format.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := ExplainSnapshot{
		ScenarioName: scenarioName,
		Queries:      result.Queries,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its explain snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
