package queryir

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a predicate as a deterministic single-line expression.
//
//	boost(1.5, or(and(range(p1, valid, is_within, [MIN, 20]), ...)))
//
// The output is stable and used for explain output and golden files.
func Format(p Predicate) string {
	var sb strings.Builder
	format(&sb, p)
	return sb.String()
}

// FormatIndent renders a predicate one node per line, indented by depth.
func FormatIndent(p Predicate) string {
	var sb strings.Builder
	formatIndent(&sb, p, 0)
	return sb.String()
}

func format(sb *strings.Builder, p Predicate) {
	switch pred := p.(type) {
	case nil:
		sb.WriteString("nil")
	case Range:
		fmt.Fprintf(sb, "range(%s, %s, %s, %s)", pred.Partition, pred.Axis, pred.Relation, pred.Bounds)
	case *Range:
		format(sb, *pred)
	case Present:
		fmt.Fprintf(sb, "present(%s, %s)", pred.Partition, pred.Axis)
	case *Present:
		format(sb, *pred)
	case And:
		formatList(sb, "and", pred.Predicates)
	case *And:
		formatList(sb, "and", pred.Predicates)
	case Or:
		formatList(sb, "or", pred.Predicates)
	case *Or:
		formatList(sb, "or", pred.Predicates)
	case Not:
		sb.WriteString("not(")
		format(sb, pred.Predicate)
		sb.WriteString(")")
	case *Not:
		format(sb, *pred)
	case Boost:
		fmt.Fprintf(sb, "boost(%s, ", formatFactor(pred.Factor))
		format(sb, pred.Predicate)
		sb.WriteString(")")
	case *Boost:
		format(sb, *pred)
	case MatchAll, *MatchAll:
		sb.WriteString("all()")
	default:
		fmt.Fprintf(sb, "unknown(%T)", p)
	}
}

func formatList(sb *strings.Builder, op string, preds []Predicate) {
	sb.WriteString(op)
	sb.WriteString("(")
	for i, sub := range preds {
		if i > 0 {
			sb.WriteString(", ")
		}
		format(sb, sub)
	}
	sb.WriteString(")")
}

func formatIndent(sb *strings.Builder, p Predicate, depth int) {
	pad := strings.Repeat("  ", depth)
	switch pred := p.(type) {
	case And:
		formatIndentList(sb, "and", pred.Predicates, depth)
	case *And:
		formatIndentList(sb, "and", pred.Predicates, depth)
	case Or:
		formatIndentList(sb, "or", pred.Predicates, depth)
	case *Or:
		formatIndentList(sb, "or", pred.Predicates, depth)
	case Not:
		sb.WriteString(pad + "not\n")
		formatIndent(sb, pred.Predicate, depth+1)
	case *Not:
		formatIndent(sb, *pred, depth)
	case Boost:
		sb.WriteString(pad + "boost " + formatFactor(pred.Factor) + "\n")
		formatIndent(sb, pred.Predicate, depth+1)
	case *Boost:
		formatIndent(sb, *pred, depth)
	default:
		sb.WriteString(pad + Format(p) + "\n")
	}
}

func formatIndentList(sb *strings.Builder, op string, preds []Predicate, depth int) {
	pad := strings.Repeat("  ", depth)
	if len(preds) == 0 {
		sb.WriteString(pad + op + "()\n")
		return
	}
	sb.WriteString(pad + op + "\n")
	for _, sub := range preds {
		formatIndent(sb, sub, depth+1)
	}
}

func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
