package shape

import (
	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
)

// Match reports whether s satisfies pred.
//
// Unknown predicate types never match.
func Match(pred queryir.Predicate, s Shape) bool {
	switch p := pred.(type) {
	case queryir.Range:
		return matchRange(p, s)
	case *queryir.Range:
		return matchRange(*p, s)
	case queryir.Present:
		return s.Partition == p.Partition
	case *queryir.Present:
		return s.Partition == p.Partition
	case queryir.And:
		return matchAll(p.Predicates, s)
	case *queryir.And:
		return matchAll(p.Predicates, s)
	case queryir.Or:
		return matchAny(p.Predicates, s)
	case *queryir.Or:
		return matchAny(p.Predicates, s)
	case queryir.Not:
		return !Match(p.Predicate, s)
	case *queryir.Not:
		return !Match(p.Predicate, s)
	case queryir.Boost:
		return Match(p.Predicate, s)
	case *queryir.Boost:
		return Match(p.Predicate, s)
	case queryir.MatchAll, *queryir.MatchAll:
		return true
	default:
		return false
	}
}

// Filter returns the shapes matching pred, preserving order.
func Filter(pred queryir.Predicate, shapes []Shape) []Shape {
	var out []Shape
	for _, s := range shapes {
		if Match(pred, s) {
			out = append(out, s)
		}
	}
	return out
}

func matchAll(preds []queryir.Predicate, s Shape) bool {
	for _, p := range preds {
		if !Match(p, s) {
			return false
		}
	}
	return true
}

func matchAny(preds []queryir.Predicate, s Shape) bool {
	for _, p := range preds {
		if Match(p, s) {
			return true
		}
	}
	return false
}

// matchRange applies the relation between the stored interval and the query
// bounds. A MAX upper bound is open: nothing stored can lie beyond it.
func matchRange(r queryir.Range, s Shape) bool {
	if s.Partition != r.Partition {
		return false
	}
	iv := s.Axis(r.Axis)
	from := r.Bounds.From.Timestamp()
	to := r.Bounds.To.Timestamp()
	openEnd := r.Bounds.To.IsMax()

	switch r.Relation {
	case ir.Intersects:
		return (openEnd || iv.Start <= to) && iv.End >= from
	case ir.IsWithin:
		return iv.Start >= from && (openEnd || iv.End <= to)
	case ir.Contains:
		return iv.Start <= from && iv.End >= to
	default:
		return false
	}
}
