package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemp/internal/testutil"
)

const passingScenario = `name: current_tenancy
description: One open tenancy is visible in the current view.
schema: |
  field: tenancy: type: "bitemporal"
records:
  - {field: tenancy, key: alice, vt_from: 100}
queries:
  - name: current
    condition: {field: tenancy, tt_from: now}
    expect:
      branch: open_full_valid
      matches: [alice@10]
`

const failingScenario = `name: wrong_tenant
description: Expects a tenant that was never written.
schema: |
  field: tenancy: type: "bitemporal"
records:
  - {field: tenancy, key: alice, vt_from: 100}
queries:
  - name: current
    condition: {field: tenancy, tt_from: now}
    expect:
      matches: [bob@10]
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeTest(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format, IDs: testutil.NewFixedIDGenerator("")}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeTest(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeTest(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandNoScenarios(t *testing.T) {
	output, err := executeTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "No scenarios found.")
}

func TestTestCommandPassingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "current.yaml", passingScenario)

	output, err := executeTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ current_tenancy")
	assert.Contains(t, output, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, output, "✓ All scenarios passed")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "current.yaml", passingScenario)
	writeScenario(t, dir, "wrong.yml", failingScenario)

	output, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ wrong_tenant")
	assert.Contains(t, output, "current: matches: expected [bob@10], got [alice@10]")
	assert.Contains(t, output, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nqueries: []\n")

	output, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, output, "✗ broken.yaml")
	assert.Contains(t, output, "failed to load scenario")
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "current.yaml", passingScenario)
	writeScenario(t, dir, "wrong.yaml", failingScenario)

	output, err := executeTest(t, "text", dir, "--filter", "cur*")
	require.NoError(t, err)
	assert.Contains(t, output, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, output, "wrong_tenant")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "current.yaml", passingScenario)

	_, err := executeTest(t, "text", dir, "--filter", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestTestCommandGoldenFiles(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := writeScenario(t, dir, "current.yaml", passingScenario)
	goldenPath := goldenFilePath(scenarioPath)
	assert.Equal(t, filepath.Join(dir, "golden", "current.golden"), goldenPath)

	_, err := executeTest(t, "text", dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"current_tenancy"`)
	assert.Contains(t, string(golden), `"branch":"open_full_valid"`)

	// Unchanged snapshot matches
	_, err = executeTest(t, "text", dir)
	require.NoError(t, err)

	// Drifted snapshot fails
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"queries":[]}`), 0644))
	output, err := executeTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, output, "explain snapshot does not match golden file")
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "current.yaml", passingScenario)

	output, err := executeTest(t, "json", dir)
	require.NoError(t, err)

	var resp struct {
		Status  string     `json:"status"`
		Data    TestResult `json:"data"`
		TraceID string     `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-fixed", resp.TraceID)
	assert.Equal(t, TestResult{
		Scenarios: []ScenarioResult{{Name: "current_tenancy", Pass: true}},
		Passed:    1,
		Total:     1,
	}, resp.Data)
}

func TestTestCommandJSONFailure(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong.yaml", failingScenario)

	output, err := executeTest(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	output, err := executeTest(t, "text", dir)
	require.NoError(t, err, output)
	assert.Contains(t, output, "✓ tenancy_history")
	assert.Contains(t, output, "✓ dated_tenancy")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", passingScenario)
	writeScenario(t, dir, "b.yml", passingScenario)
	writeScenario(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	writeScenario(t, dir, filepath.Join("golden", "a.golden"), "{}")

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yml")}, files)
}
