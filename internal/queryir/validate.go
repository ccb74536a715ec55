package queryir

import (
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
)

// ValidationResult contains the diagnostics for a predicate tree.
//
// Warnings never stop evaluation: every node is evaluated as written. An
// empty disjunction matches nothing, as does an inverted is_within range.
// Inverted intersects and contains ranges can still match wide intervals.
type ValidationResult struct {
	// Valid is true when no warnings were produced.
	Valid bool

	// Warnings lists suspicious constructs, in traversal order.
	Warnings []string
}

// Validate walks a predicate and reports degenerate constructs:
//  1. Ranges whose From sorts after To
//  2. Ranges or Present nodes naming an unknown partition
//  3. Boost factors that are not positive
//  4. Or nodes with no disjuncts (match nothing)
//  5. nil nodes
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validate(p, "$")

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validate(p Predicate, path string) {
	switch pred := p.(type) {
	case nil:
		v.addWarning("%s: nil predicate", path)
	case Range:
		v.validateRange(pred, path)
	case *Range:
		v.validateRange(*pred, path)
	case Present:
		v.validatePartition(pred.Partition, path)
	case *Present:
		v.validatePartition(pred.Partition, path)
	case And:
		v.validateAll(pred.Predicates, path+".and")
	case *And:
		v.validateAll(pred.Predicates, path+".and")
	case Or:
		v.validateOr(pred, path)
	case *Or:
		v.validateOr(*pred, path)
	case Not:
		v.validate(pred.Predicate, path+".not")
	case *Not:
		v.validate(pred.Predicate, path+".not")
	case Boost:
		v.validateBoost(pred, path)
	case *Boost:
		v.validateBoost(*pred, path)
	case MatchAll, *MatchAll:
		// always well-formed
	default:
		v.addWarning("%s: unknown predicate type %T", path, p)
	}
}

func (v *validator) validateAll(preds []Predicate, path string) {
	for i, sub := range preds {
		v.validate(sub, fmt.Sprintf("%s[%d]", path, i))
	}
}

func (v *validator) validateOr(or Or, path string) {
	if len(or.Predicates) == 0 {
		v.addWarning("%s: empty disjunction matches nothing", path)
		return
	}
	v.validateAll(or.Predicates, path+".or")
}

func (v *validator) validateBoost(b Boost, path string) {
	if b.Factor <= 0 {
		v.addWarning("%s: boost factor %g is not positive", path, b.Factor)
	}
	v.validate(b.Predicate, path+".boost")
}

func (v *validator) validateRange(r Range, path string) {
	v.validatePartition(r.Partition, path)
	if !r.Bounds.Inverted() {
		return
	}
	if r.Relation == ir.IsWithin {
		v.addWarning("%s: %s %s %s range %s is inverted and matches nothing",
			path, r.Partition, r.Axis, r.Relation, r.Bounds)
		return
	}
	v.addWarning("%s: %s %s %s range %s is inverted",
		path, r.Partition, r.Axis, r.Relation, r.Bounds)
}

func (v *validator) validatePartition(p ir.Partition, path string) {
	if !p.Valid() {
		v.addWarning("%s: unknown partition %s", path, p)
	}
}
