package bitemporal

import (
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
)

// Compose turns a selection into the final predicate:
//
//	boost(w.Boost, or(and(valid_1, transaction_1), ..., and(valid_n, transaction_n)))
//
// Disjuncts keep selection order. An empty selection composes to a boosted
// empty disjunction, which matches nothing. Errors come only from cov.
func Compose(sel []Selection, w Window, cov Coverage) (queryir.Predicate, error) {
	disjuncts := make([]queryir.Predicate, 0, len(sel))
	for _, s := range sel {
		valid, err := cov.Cover(s.Partition, ir.Valid, s.Valid, w.Relation)
		if err != nil {
			return nil, fmt.Errorf("compose %s valid: %w", s.Partition, err)
		}
		transaction, err := cov.Cover(s.Partition, ir.Transaction, s.Transaction, w.Relation)
		if err != nil {
			return nil, fmt.Errorf("compose %s transaction: %w", s.Partition, err)
		}
		disjuncts = append(disjuncts, queryir.And{Predicates: []queryir.Predicate{valid, transaction}})
	}

	return queryir.Boost{
		Predicate: queryir.Or{Predicates: disjuncts},
		Factor:    w.Boost,
	}, nil
}

// Plan is the result of planning one window.
type Plan struct {
	Window     Window
	Branch     Branch
	Selections []Selection
	Predicate  queryir.Predicate
}

// NewPlan selects partitions for w and composes them with cov.
func NewPlan(w Window, cov Coverage) (*Plan, error) {
	sel := Select(w)
	pred, err := Compose(sel, w, cov)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Window:     w,
		Branch:     Classify(w),
		Selections: sel,
		Predicate:  pred,
	}, nil
}
