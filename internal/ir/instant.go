package ir

import (
	"fmt"
	"math"
	"strconv"
)

// Sentinel timestamps used by the storage encoding.
//
// MinTimestamp is the smallest representable instant and the default for an
// omitted "from" bound. MaxTimestamp is the open upper end and the default for
// an omitted "to" bound.
const (
	MinTimestamp int64 = 0
	MaxTimestamp int64 = math.MaxInt64
)

// InstantKind tags the variant held by an Instant.
type InstantKind uint8

const (
	// KindMin is the lower extreme of the timeline.
	KindMin InstantKind = iota
	// KindFinite is a concrete epoch-millisecond timestamp.
	KindFinite
	// KindNow marks a transaction that is still open (no recorded end).
	KindNow
	// KindMax is the upper extreme of the timeline.
	KindMax
)

// String returns the kind name.
func (k InstantKind) String() string {
	switch k {
	case KindMin:
		return "MIN"
	case KindFinite:
		return "FINITE"
	case KindNow:
		return "NOW"
	case KindMax:
		return "MAX"
	default:
		return fmt.Sprintf("InstantKind(%d)", uint8(k))
	}
}

// Instant is a point on the extended timeline {MIN, Finite(t), NOW, MAX}.
//
// The zero value is MIN. Instants are comparable with == and safe to copy.
//
// NOW is a logical state, not a large number: branch logic tests it with
// IsNow before relying on Compare.
type Instant struct {
	kind InstantKind
	ts   int64
}

// Min returns the MIN instant.
func Min() Instant { return Instant{kind: KindMin} }

// Max returns the MAX instant.
func Max() Instant { return Instant{kind: KindMax} }

// Now returns the NOW instant.
func Now() Instant { return Instant{kind: KindNow} }

// At returns a finite instant for the given epoch-millisecond timestamp.
//
// Values equal to MinTimestamp or MaxTimestamp collapse to MIN and MAX so a
// caller-supplied extreme behaves exactly like an omitted bound. Values below
// MinTimestamp are clamped to MIN.
func At(ts int64) Instant {
	switch {
	case ts <= MinTimestamp:
		return Min()
	case ts == MaxTimestamp:
		return Max()
	default:
		return Instant{kind: KindFinite, ts: ts}
	}
}

// FromOrMin dereferences a nullable "from" bound, defaulting to MIN.
func FromOrMin(i *Instant) Instant {
	if i == nil {
		return Min()
	}
	return *i
}

// ToOrMax dereferences a nullable "to" bound, defaulting to MAX.
func ToOrMax(i *Instant) Instant {
	if i == nil {
		return Max()
	}
	return *i
}

// Kind returns the variant tag.
func (i Instant) Kind() InstantKind { return i.kind }

// IsMin reports whether i is MIN.
func (i Instant) IsMin() bool { return i.kind == KindMin }

// IsMax reports whether i is MAX.
func (i Instant) IsMax() bool { return i.kind == KindMax }

// IsNow reports whether i is NOW.
func (i Instant) IsNow() bool { return i.kind == KindNow }

// IsFinite reports whether i holds a concrete timestamp.
func (i Instant) IsFinite() bool { return i.kind == KindFinite }

// Timestamp returns the storage encoding of i.
// MIN maps to MinTimestamp; MAX and NOW map to MaxTimestamp (an open end).
func (i Instant) Timestamp() int64 {
	switch i.kind {
	case KindMin:
		return MinTimestamp
	case KindFinite:
		return i.ts
	default:
		return MaxTimestamp
	}
}

// rank orders the variants: MIN < finite < NOW < MAX.
func (i Instant) rank() int {
	switch i.kind {
	case KindMin:
		return 0
	case KindFinite:
		return 1
	case KindNow:
		return 2
	default:
		return 3
	}
}

// Compare returns -1, 0 or +1 as a is less than, equal to, or greater than b.
//
// MIN < every finite instant < MAX. NOW sorts after every finite instant and
// before MAX. Two NOW values compare equal, which carries no meaning about
// when either transaction closes; callers must check IsNow first.
func Compare(a, b Instant) int {
	ra, rb := a.rank(), b.rank()
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if a.kind != KindFinite {
		return 0
	}
	switch {
	case a.ts < b.ts:
		return -1
	case a.ts > b.ts:
		return 1
	default:
		return 0
	}
}

// MaxOf returns whichever of a and b is greater under Compare.
// On a tie a is returned.
func MaxOf(a, b Instant) Instant {
	if Compare(b, a) > 0 {
		return b
	}
	return a
}

// String renders MIN, NOW, MAX or the decimal timestamp.
func (i Instant) String() string {
	if i.kind == KindFinite {
		return strconv.FormatInt(i.ts, 10)
	}
	return i.kind.String()
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses the String form back into an Instant.
func (i *Instant) UnmarshalText(text []byte) error {
	parsed, err := ParseInstant(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseInstant parses "MIN", "NOW", "MAX" (case-sensitive) or a decimal
// epoch-millisecond timestamp.
func ParseInstant(s string) (Instant, error) {
	switch s {
	case "MIN":
		return Min(), nil
	case "NOW":
		return Now(), nil
	case "MAX":
		return Max(), nil
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Instant{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return At(ts), nil
}
