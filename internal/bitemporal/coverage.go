package bitemporal

import (
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
)

// Coverage produces the predicate for one partition, one axis and one bound
// pair. Implementations hold no cross-partition state.
type Coverage interface {
	Cover(p ir.Partition, axis ir.Axis, b ir.Bounds, rel ir.Relation) (queryir.Predicate, error)
}

// CoverageFunc adapts a function to the Coverage interface.
type CoverageFunc func(p ir.Partition, axis ir.Axis, b ir.Bounds, rel ir.Relation) (queryir.Predicate, error)

// Cover calls f.
func (f CoverageFunc) Cover(p ir.Partition, axis ir.Axis, b ir.Bounds, rel ir.Relation) (queryir.Predicate, error) {
	return f(p, axis, b, rel)
}

// ShapeCoverage emits queryir leaves for the shape index.
//
// (MIN, MAX) becomes queryir.Present, which matches any shape with an
// interval on that axis regardless of relation. Every other bound pair
// becomes a queryir.Range; backends handle a MAX upper bound as open.
type ShapeCoverage struct{}

// Cover implements Coverage.
func (ShapeCoverage) Cover(p ir.Partition, axis ir.Axis, b ir.Bounds, rel ir.Relation) (queryir.Predicate, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cover: unknown partition %s", p)
	}
	if b.IsFull() {
		return queryir.Present{Partition: p, Axis: axis}, nil
	}
	return queryir.Range{Partition: p, Axis: axis, Bounds: b, Relation: rel}, nil
}
