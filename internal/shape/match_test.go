package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemp/internal/bitemporal"
	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
)

func stored(start, end int64) Shape {
	return Shape{Partition: ir.P4, Valid: Interval{start, end}}
}

func validRange(from, to ir.Instant, rel ir.Relation) queryir.Range {
	return queryir.Range{
		Partition: ir.P4,
		Axis:      ir.Valid,
		Bounds:    ir.Bounds{From: from, To: to},
		Relation:  rel,
	}
}

func TestMatchRange_Relations(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		rel   ir.Relation
		from  ir.Instant
		to    ir.Instant
		want  bool
	}{
		{"intersects overlap left", stored(5, 12), ir.Intersects, ir.At(10), ir.At(20), true},
		{"intersects touching end", stored(20, 30), ir.Intersects, ir.At(10), ir.At(20), true},
		{"intersects disjoint", stored(21, 30), ir.Intersects, ir.At(10), ir.At(20), false},
		{"intersects open end", stored(500, 900), ir.Intersects, ir.At(10), ir.Max(), true},
		{"within inside", stored(12, 18), ir.IsWithin, ir.At(10), ir.At(20), true},
		{"within same", stored(10, 20), ir.IsWithin, ir.At(10), ir.At(20), true},
		{"within overhang", stored(5, 18), ir.IsWithin, ir.At(10), ir.At(20), false},
		{"within open end", stored(12, ir.MaxTimestamp), ir.IsWithin, ir.At(10), ir.Max(), true},
		{"contains covering", stored(5, 25), ir.Contains, ir.At(10), ir.At(20), true},
		{"contains short", stored(12, 25), ir.Contains, ir.At(10), ir.At(20), false},
		{"contains open query end", stored(5, 25), ir.Contains, ir.At(10), ir.Max(), false},
		{"contains open stored end", stored(5, ir.MaxTimestamp), ir.Contains, ir.At(10), ir.Max(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(validRange(tt.from, tt.to, tt.rel), tt.shape))
		})
	}
}

func TestMatch_PartitionMismatch(t *testing.T) {
	s := Shape{Partition: ir.P2, Valid: Interval{1, 2}}
	assert.False(t, Match(validRange(ir.Min(), ir.Max(), ir.Intersects), s))
	assert.False(t, Match(queryir.Present{Partition: ir.P1, Axis: ir.Valid}, s))
	assert.True(t, Match(queryir.Present{Partition: ir.P2, Axis: ir.Valid}, s))
}

func TestMatch_Combinators(t *testing.T) {
	s := stored(1, 2)

	assert.True(t, Match(queryir.And{}, s), "empty and is true")
	assert.False(t, Match(queryir.MatchNone(), s), "empty or is false")
	assert.True(t, Match(queryir.MatchAll{}, s))
	assert.False(t, Match(queryir.Not{Predicate: queryir.MatchAll{}}, s))
	assert.True(t, Match(&queryir.Boost{Factor: 3, Predicate: &queryir.MatchAll{}}, s))
	assert.False(t, Match(nil, s))
}

// corpus holds one version per partition plus two that never match.
func corpus(t *testing.T) []Shape {
	t.Helper()
	versions := []ir.VersionRecord{
		version("a", ir.At(10), ir.Now(), ir.At(3), ir.Now()),   // P1
		version("b", ir.At(12), ir.At(18), ir.At(4), ir.Now()),  // P2
		version("c", ir.At(2), ir.Now(), ir.At(1), ir.At(6)),    // P3
		version("d", ir.At(15), ir.At(30), ir.At(2), ir.At(7)),  // P4
		version("e", ir.At(40), ir.At(50), ir.At(3), ir.Now()),  // P2
		version("f", ir.At(25), ir.Now(), ir.At(30), ir.Now()),  // P1
		version("g", ir.At(1), ir.Now(), ir.At(12), ir.At(40)),  // P3
		version("h", ir.At(11), ir.At(19), ir.At(9), ir.At(11)), // P4
	}
	out := make([]Shape, len(versions))
	for i, v := range versions {
		s, err := Encode(v)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func ids(shapes []Shape) []string {
	out := make([]string, len(shapes))
	for i, s := range shapes {
		out[i] = s.VersionID
	}
	return out
}

func TestFilter_PlannedWindows(t *testing.T) {
	tests := []struct {
		name   string
		vtFrom ir.Instant
		vtTo   ir.Instant
		ttFrom ir.Instant
		ttTo   ir.Instant
		want   []string
	}{
		{
			name:   "finite reaching",
			vtFrom: ir.At(10), vtTo: ir.At(20), ttFrom: ir.At(5), ttTo: ir.At(25),
			want: []string{"id-a", "id-b", "id-d", "id-g", "id-h"},
		},
		{
			name:   "finite before",
			vtFrom: ir.At(10), vtTo: ir.At(20), ttFrom: ir.At(5), ttTo: ir.At(8),
			want: []string{"id-b", "id-d"},
		},
		{
			name:   "open reaching",
			vtFrom: ir.At(10), vtTo: ir.At(20), ttFrom: ir.Now(), ttTo: ir.At(25),
			want: []string{"id-a", "id-b"},
		},
		{
			name:   "open before",
			vtFrom: ir.At(10), vtTo: ir.At(20), ttFrom: ir.Now(), ttTo: ir.At(8),
			want: []string{"id-b"},
		},
		{
			name:   "open full valid",
			vtFrom: ir.Min(), vtTo: ir.Max(), ttFrom: ir.Now(), ttTo: ir.At(25),
			want: []string{"id-a", "id-b", "id-e", "id-f"},
		},
	}

	shapes := corpus(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bitemporal.Window{
				Field:    "tenancy",
				VtFrom:   tt.vtFrom,
				VtTo:     tt.vtTo,
				TtFrom:   tt.ttFrom,
				TtTo:     tt.ttTo,
				Relation: ir.Intersects,
				Boost:    1,
			}
			plan, err := bitemporal.NewPlan(w, bitemporal.ShapeCoverage{})
			require.NoError(t, err)

			assert.Equal(t, tt.want, ids(Filter(plan.Predicate, shapes)))
		})
	}
}
