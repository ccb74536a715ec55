package shape

import (
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
)

// Interval is a closed interval of storage timestamps.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Shape is the indexed footprint of one record version.
type Shape struct {
	VersionID   string       `json:"version_id"`
	Partition   ir.Partition `json:"partition"`
	Valid       Interval     `json:"valid"`
	Transaction Interval     `json:"transaction"`
}

// Axis returns the interval for the given axis.
func (s Shape) Axis(a ir.Axis) Interval {
	if a == ir.Transaction {
		return s.Transaction
	}
	return s.Valid
}

// Encode computes the shape of a version.
//
// Returns an error when a start bound is NOW or when an interval is inverted:
// neither can be placed in a partition.
func Encode(v ir.VersionRecord) (Shape, error) {
	if v.VtFrom.IsNow() || v.TtFrom.IsNow() {
		return Shape{}, fmt.Errorf("encode %s: start bounds must not be NOW", v.Key)
	}

	s := Shape{VersionID: v.ID}
	vtStart := v.VtFrom.Timestamp()
	ttStart := v.TtFrom.Timestamp()

	validOpen := v.VtTo.IsNow()
	txOpen := v.TtTo.IsNow()

	switch {
	case txOpen && validOpen:
		s.Partition = ir.P1
		s.Valid = Interval{vtStart, vtStart}
		s.Transaction = Interval{ttStart, ttStart}
	case txOpen:
		s.Partition = ir.P2
		s.Valid = Interval{vtStart, v.VtTo.Timestamp()}
		s.Transaction = Interval{ttStart, ttStart}
	case validOpen:
		s.Partition = ir.P3
		s.Valid = Interval{vtStart, vtStart}
		s.Transaction = Interval{ttStart, v.TtTo.Timestamp()}
	default:
		s.Partition = ir.P4
		s.Valid = Interval{vtStart, v.VtTo.Timestamp()}
		s.Transaction = Interval{ttStart, v.TtTo.Timestamp()}
	}

	if s.Valid.Start > s.Valid.End {
		return Shape{}, fmt.Errorf("encode %s: valid interval %d > %d", v.Key, s.Valid.Start, s.Valid.End)
	}
	if s.Transaction.Start > s.Transaction.End {
		return Shape{}, fmt.Errorf("encode %s: transaction interval %d > %d", v.Key, s.Transaction.Start, s.Transaction.End)
	}
	return s, nil
}
