// Package harness runs query conformance scenarios.
//
// A scenario is a YAML file with a CUE schema, a sequence of record writes
// and a list of bi-temporal queries with expected outcomes:
//
//	name: tenancy_history
//	description: superseded and retracted tenancies
//	schema: |
//	  field: tenancy: type: "bitemporal"
//	records:
//	  - {field: tenancy, key: alice, vt_from: 100}
//	  - {field: tenancy, key: bob, retract: true}
//	queries:
//	  - name: current
//	    condition: {field: tenancy, tt_from: now}
//	    expect: {branch: open_full_valid, matches: [alice@30]}
//
// Each run uses a fresh in-memory store whose transaction clock is
// deterministic, so versions are labelled "key@tt_from" predictably. Every
// query is executed twice: through the SQL shape index and through the
// in-memory matcher. The two must return the same versions.
//
// RunWithGolden additionally snapshots each query's branch, selections,
// predicate and matches under testdata/golden.
package harness
