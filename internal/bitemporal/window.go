package bitemporal

import "github.com/roach88/bitemp/internal/ir"

// DefaultBoost is the weight of a window that names no boost.
const DefaultBoost = 1.0

// Window is the four-bound query input plus the spatial relation.
//
// A Window is a value: it is built once per query evaluation and never
// mutated. Copies are independent.
type Window struct {
	Field    string
	VtFrom   ir.Instant
	VtTo     ir.Instant
	TtFrom   ir.Instant
	TtTo     ir.Instant
	Relation ir.Relation
	Boost    float64
}

// NewWindow builds a window with DefaultBoost. Nil bounds take their
// defaults: MIN for the "from" bounds and MAX for the "to" bounds.
func NewWindow(field string, vtFrom, vtTo, ttFrom, ttTo *ir.Instant, rel ir.Relation) Window {
	return Window{
		Field:    field,
		VtFrom:   ir.FromOrMin(vtFrom),
		VtTo:     ir.ToOrMax(vtTo),
		TtFrom:   ir.FromOrMin(ttFrom),
		TtTo:     ir.ToOrMax(ttTo),
		Relation: rel,
		Boost:    DefaultBoost,
	}
}

// WithBoost returns a copy of w with the given boost.
func (w Window) WithBoost(boost float64) Window {
	w.Boost = boost
	return w
}

// fullValid reports whether the valid-time bounds span the whole timeline.
func (w Window) fullValid() bool {
	return w.VtFrom.IsMin() && w.VtTo.IsMax()
}
