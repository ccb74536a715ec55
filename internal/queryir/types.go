package queryir

import "github.com/roach88/bitemp/internal/ir"

// Predicate represents a filter condition over stored shapes.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Range matches shapes in one partition whose interval on Axis satisfies
// Relation against Bounds.
//
// Semantics for a stored interval [s, e] and Bounds [f, t]:
//
//	Intersects: s <= t AND e >= f
//	IsWithin:   s >= f AND e <= t
//	Contains:   s <= f AND e >= t
//
// A To of MAX is an open upper end: Intersects and IsWithin drop their upper
// constraint.
type Range struct {
	Partition ir.Partition
	Axis      ir.Axis
	Bounds    ir.Bounds
	Relation  ir.Relation
}

func (Range) predicateNode() {}

// Present matches every shape in Partition that has an interval on Axis.
// It is the (MIN, MAX) case of Range, independent of the relation.
type Present struct {
	Partition ir.Partition
	Axis      ir.Axis
}

func (Present) predicateNode() {}

// And is a conjunction. Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or is a disjunction. Empty Predicates means "never true".
// Order affects rendering only.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Not negates a predicate.
type Not struct {
	Predicate Predicate
}

func (Not) predicateNode() {}

// Boost multiplies the weight of matches of Predicate by Factor.
type Boost struct {
	Predicate Predicate
	Factor    float64
}

func (Boost) predicateNode() {}

// MatchAll matches every shape.
type MatchAll struct{}

func (MatchAll) predicateNode() {}

// MatchNone returns the canonical predicate that matches nothing.
func MatchNone() Predicate {
	return Or{}
}

// Weight returns the effective weight of p: the product of the factors of
// the Boost chain wrapping it, or 1.0 when p is not boosted.
func Weight(p Predicate) float64 {
	w := 1.0
	for {
		switch b := p.(type) {
		case Boost:
			w *= b.Factor
			p = b.Predicate
		case *Boost:
			w *= b.Factor
			p = b.Predicate
		default:
			return w
		}
	}
}
