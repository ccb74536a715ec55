package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/tenancy_history.yaml")
	require.NoError(t, err)

	assert.Equal(t, "tenancy_history", s.Name)
	assert.Len(t, s.Records, 4)
	assert.True(t, s.Records[3].Retract)
	assert.Equal(t, map[string]any{"unit": "4B"}, s.Records[0].Payload)

	require.Len(t, s.Queries, 5)
	assert.Equal(t, "tenancy", s.Queries[0].Condition.Field)
	assert.Equal(t, "now", s.Queries[0].Condition.TtFrom)
	assert.Equal(t, []string{"alice@30"}, s.Queries[0].Expect.Matches)
	require.NotNil(t, s.Queries[2].Condition.Boost)
	assert.Equal(t, 2.0, *s.Queries[2].Condition.Boost)

	// An explicit empty list is kept distinct from an omitted one.
	assert.NotNil(t, s.Queries[2].Expect.Matches)
	assert.Empty(t, s.Queries[2].Expect.Matches)
	assert.Nil(t, s.Queries[4].Expect.Matches)
}

func TestLoadScenario_ResolvesSchemaFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/dated_tenancy.yaml")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "schemas", "dated.cue"), s.SchemaFile)
	require.NotNil(t, s.Clock)
	assert.Equal(t, ClockConfig{Start: 1000, Step: 1}, *s.Clock)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: unknown key
schema: 'field: t: type: "bitemporal"'
querys: []
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	const query = `
queries:
  - name: q
    condition: {field: t}
`
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nschema: s\n" + query,
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nschema: s\n" + query,
			wantErr: "description is required",
		},
		{
			name:    "no schema",
			yaml:    "name: n\ndescription: d\n" + query,
			wantErr: "exactly one of schema and schema_file",
		},
		{
			name:    "both schemas",
			yaml:    "name: n\ndescription: d\nschema: s\nschema_file: f.cue\n" + query,
			wantErr: "exactly one of schema and schema_file",
		},
		{
			name:    "zero clock step",
			yaml:    "name: n\ndescription: d\nschema: s\nclock: {start: 0, step: 0}\n" + query,
			wantErr: "clock step must be positive",
		},
		{
			name:    "record without key",
			yaml:    "name: n\ndescription: d\nschema: s\nrecords:\n  - field: t\n" + query,
			wantErr: "records[0]: field and key are required",
		},
		{
			name:    "retract with bounds",
			yaml:    "name: n\ndescription: d\nschema: s\nrecords:\n  - {field: t, key: k, retract: true, vt_from: 1}\n" + query,
			wantErr: "retract takes only field and key",
		},
		{
			name:    "no queries",
			yaml:    "name: n\ndescription: d\nschema: s\n",
			wantErr: "queries list is required",
		},
		{
			name: "duplicate query",
			yaml: "name: n\ndescription: d\nschema: s\nqueries:\n" +
				"  - {name: q, condition: {field: t}}\n" +
				"  - {name: q, condition: {field: t}}\n",
			wantErr: `duplicate name "q"`,
		},
		{
			name: "error with matches",
			yaml: "name: n\ndescription: d\nschema: s\nqueries:\n" +
				"  - {name: q, condition: {field: t}, expect: {error: MISSING_FIELD, matches: []}}\n",
			wantErr: "error cannot be combined",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadScenario_AllTestdataParse(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			_, err := LoadScenario(p)
			require.NoError(t, err)
		})
	}
}
