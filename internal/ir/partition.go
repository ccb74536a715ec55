package ir

import "fmt"

// Partition identifies one of the four fixed regions of the
// valid-time × transaction-time plane. Each region is indexed independently.
//
//	P1: valid time open (NOW), transaction time open (NOW)
//	P2: valid time closed,     transaction time open (NOW)
//	P3: valid time open (NOW), transaction time closed
//	P4: valid time closed,     transaction time closed
type Partition uint8

const (
	P1 Partition = iota + 1
	P2
	P3
	P4
)

// Partitions lists every partition in index order.
var Partitions = []Partition{P1, P2, P3, P4}

// String returns "p1".."p4".
func (p Partition) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Partition(%d)", uint8(p))
	}
	return fmt.Sprintf("p%d", uint8(p))
}

// Valid reports whether p is one of P1..P4.
func (p Partition) Valid() bool {
	return p >= P1 && p <= P4
}

// Axis selects one of the two time dimensions.
type Axis uint8

const (
	// Valid is the real-world validity axis.
	Valid Axis = iota
	// Transaction is the recording axis.
	Transaction
)

// String returns "valid" or "transaction".
func (a Axis) String() string {
	switch a {
	case Valid:
		return "valid"
	case Transaction:
		return "transaction"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Bounds is a closed [From, To] range on one axis.
type Bounds struct {
	From Instant `json:"from"`
	To   Instant `json:"to"`
}

// FullRange returns (MIN, MAX).
func FullRange() Bounds {
	return Bounds{From: Min(), To: Max()}
}

// IsFull reports whether b is (MIN, MAX).
func (b Bounds) IsFull() bool {
	return b.From.IsMin() && b.To.IsMax()
}

// Inverted reports whether From sorts after To. Bounds containing NOW are
// never reported as inverted because NOW has no fixed position.
func (b Bounds) Inverted() bool {
	if b.From.IsNow() || b.To.IsNow() {
		return false
	}
	return Compare(b.From, b.To) > 0
}

// String renders "[from, to]".
func (b Bounds) String() string {
	return fmt.Sprintf("[%s, %s]", b.From, b.To)
}
