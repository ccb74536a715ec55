// Package condition turns caller-facing search conditions into query IR.
//
// A Condition is validated at construction boundaries: unknown operations,
// blank or unmapped fields, unparseable bounds and non-positive boosts all
// surface as *Error before any planning runs. Once a Bitemporal condition
// has produced a bitemporal.Window, planning cannot fail.
//
//	cond := &condition.Bitemporal{Field: "tenancy", VtFrom: "2020-01-01T00:00:00Z", Operation: "intersects"}
//	pred, err := cond.Query(schema)
package condition
