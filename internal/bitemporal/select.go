package bitemporal

import (
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
)

// Selection is one partition of a plan with the bounds to query it with.
type Selection struct {
	Partition   ir.Partition `json:"partition"`
	Valid       ir.Bounds    `json:"valid"`
	Transaction ir.Bounds    `json:"transaction"`
}

// String renders "p1 valid=[MIN, 20] transaction=[MIN, 25]".
func (s Selection) String() string {
	return fmt.Sprintf("%s valid=%s transaction=%s", s.Partition, s.Valid, s.Transaction)
}

// Branch identifies which row of the decision table a window falls in.
type Branch uint8

const (
	// BranchClosedReaching: ttFrom is not NOW and ttTo >= vtFrom.
	BranchClosedReaching Branch = iota + 1
	// BranchClosedBefore: ttFrom is not NOW and ttTo < vtFrom.
	BranchClosedBefore
	// BranchOpenReaching: ttFrom is NOW, valid time bounded, ttTo >= vtFrom.
	BranchOpenReaching
	// BranchOpenBefore: ttFrom is NOW, valid time bounded, ttTo < vtFrom.
	BranchOpenBefore
	// BranchOpenFullValid: ttFrom is NOW and valid time is (MIN, MAX).
	BranchOpenFullValid
)

var branchNames = map[Branch]string{
	BranchClosedReaching: "closed_reaching",
	BranchClosedBefore:   "closed_before",
	BranchOpenReaching:   "open_reaching",
	BranchOpenBefore:     "open_before",
	BranchOpenFullValid:  "open_full_valid",
}

// String returns the branch label used in logs and metrics.
func (b Branch) String() string {
	if name, ok := branchNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Branch(%d)", uint8(b))
}

// branchPartitions lists the partitions each branch queries, in order.
var branchPartitions = map[Branch][]ir.Partition{
	BranchClosedReaching: {ir.P1, ir.P2, ir.P3, ir.P4},
	BranchClosedBefore:   {ir.P2, ir.P4},
	BranchOpenReaching:   {ir.P1, ir.P2},
	BranchOpenBefore:     {ir.P2},
	BranchOpenFullValid:  {ir.P1, ir.P2},
}

// Classify returns the decision-table branch for w.
//
// The checks run in table order. With a NOW transaction start, the bounded
// valid-time rows are tested before the full-range row.
func Classify(w Window) Branch {
	reaches := ir.Compare(w.TtTo, w.VtFrom) >= 0

	if !w.TtFrom.IsNow() {
		if reaches {
			return BranchClosedReaching
		}
		return BranchClosedBefore
	}

	if !w.fullValid() {
		if reaches {
			return BranchOpenReaching
		}
		return BranchOpenBefore
	}
	return BranchOpenFullValid
}

// Select returns the partitions that can hold records matching w, each
// with the valid-time and transaction-time bounds to query it with.
//
// Select is pure and total: every window yields between one and four
// selections, in partition order.
func Select(w Window) []Selection {
	branch := Classify(w)
	partitions := branchPartitions[branch]

	out := make([]Selection, 0, len(partitions))
	for _, p := range partitions {
		if branch == BranchOpenFullValid {
			out = append(out, Selection{
				Partition:   p,
				Valid:       ir.FullRange(),
				Transaction: ir.FullRange(),
			})
			continue
		}
		out = append(out, substitute(p, w))
	}
	return out
}

// substitute applies the bound substitution table for one partition.
//
//	P1: valid (MIN, vtTo)     transaction (MIN, ttTo)
//	P2: valid (vtFrom, vtTo)  transaction (MIN, ttTo)
//	P3: valid (MIN, vtTo)     transaction (max(ttFrom, vtFrom), ttTo)
//	P4: valid (vtFrom, vtTo)  transaction (ttFrom, ttTo)
func substitute(p ir.Partition, w Window) Selection {
	sel := Selection{Partition: p}
	switch p {
	case ir.P1:
		sel.Valid = ir.Bounds{From: ir.Min(), To: w.VtTo}
		sel.Transaction = ir.Bounds{From: ir.Min(), To: w.TtTo}
	case ir.P2:
		sel.Valid = ir.Bounds{From: w.VtFrom, To: w.VtTo}
		sel.Transaction = ir.Bounds{From: ir.Min(), To: w.TtTo}
	case ir.P3:
		sel.Valid = ir.Bounds{From: ir.Min(), To: w.VtTo}
		sel.Transaction = ir.Bounds{From: ir.MaxOf(w.TtFrom, w.VtFrom), To: w.TtTo}
	case ir.P4:
		sel.Valid = ir.Bounds{From: w.VtFrom, To: w.VtTo}
		sel.Transaction = ir.Bounds{From: w.TtFrom, To: w.TtTo}
	}
	return sel
}
