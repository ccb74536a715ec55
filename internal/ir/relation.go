package ir

import (
	"fmt"
	"strings"
)

// Relation is the spatial relation a stored interval must satisfy against a
// query interval.
type Relation uint8

const (
	// IsWithin matches stored intervals lying inside the query interval.
	IsWithin Relation = iota
	// Intersects matches stored intervals sharing at least one point with the
	// query interval.
	Intersects
	// Contains matches stored intervals covering the whole query interval.
	Contains
)

// DefaultRelation is used when the caller names no operation.
const DefaultRelation = IsWithin

var relationNames = map[Relation]string{
	IsWithin:   "is_within",
	Intersects: "intersects",
	Contains:   "contains",
}

// ValidOperations lists the accepted operation strings.
var ValidOperations = []string{"contains", "intersects", "is_within"}

// String returns the operation name ("is_within", "intersects", "contains").
func (r Relation) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Relation(%d)", uint8(r))
}

// ParseRelation maps an operation name to a Relation, ignoring case.
// An empty string yields DefaultRelation.
func ParseRelation(op string) (Relation, error) {
	switch strings.ToLower(op) {
	case "":
		return DefaultRelation, nil
	case "contains":
		return Contains, nil
	case "intersects":
		return Intersects, nil
	case "is_within":
		return IsWithin, nil
	default:
		return 0, fmt.Errorf("operation %q is not one of %v", op, ValidOperations)
	}
}
