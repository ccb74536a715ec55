package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemp/internal/ir"
)

func version(key string, vtFrom, vtTo, ttFrom, ttTo ir.Instant) ir.VersionRecord {
	return ir.VersionRecord{
		ID:     "id-" + key,
		Field:  "tenancy",
		Key:    key,
		VtFrom: vtFrom,
		VtTo:   vtTo,
		TtFrom: ttFrom,
		TtTo:   ttTo,
	}
}

func TestEncode_Partitions(t *testing.T) {
	tests := []struct {
		name string
		v    ir.VersionRecord
		want Shape
	}{
		{
			name: "both open",
			v:    version("a", ir.At(10), ir.Now(), ir.At(3), ir.Now()),
			want: Shape{VersionID: "id-a", Partition: ir.P1, Valid: Interval{10, 10}, Transaction: Interval{3, 3}},
		},
		{
			name: "transaction open",
			v:    version("b", ir.At(12), ir.At(18), ir.At(4), ir.Now()),
			want: Shape{VersionID: "id-b", Partition: ir.P2, Valid: Interval{12, 18}, Transaction: Interval{4, 4}},
		},
		{
			name: "valid open",
			v:    version("c", ir.At(2), ir.Now(), ir.At(1), ir.At(6)),
			want: Shape{VersionID: "id-c", Partition: ir.P3, Valid: Interval{2, 2}, Transaction: Interval{1, 6}},
		},
		{
			name: "both closed",
			v:    version("d", ir.At(15), ir.At(30), ir.At(2), ir.At(7)),
			want: Shape{VersionID: "id-d", Partition: ir.P4, Valid: Interval{15, 30}, Transaction: Interval{2, 7}},
		},
		{
			name: "valid to MAX is closed",
			v:    version("e", ir.Min(), ir.Max(), ir.At(2), ir.At(7)),
			want: Shape{VersionID: "id-e", Partition: ir.P4, Valid: Interval{ir.MinTimestamp, ir.MaxTimestamp}, Transaction: Interval{2, 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Rejects(t *testing.T) {
	_, err := Encode(version("x", ir.Now(), ir.At(10), ir.At(1), ir.Now()))
	assert.Error(t, err, "NOW start")

	_, err = Encode(version("x", ir.At(20), ir.At(10), ir.At(1), ir.Now()))
	assert.Error(t, err, "inverted valid interval")

	_, err = Encode(version("x", ir.At(1), ir.At(10), ir.At(9), ir.At(3)))
	assert.Error(t, err, "inverted transaction interval")
}

func TestShapeAxis(t *testing.T) {
	s := Shape{Valid: Interval{1, 2}, Transaction: Interval{3, 4}}
	assert.Equal(t, Interval{1, 2}, s.Axis(ir.Valid))
	assert.Equal(t, Interval{3, 4}, s.Axis(ir.Transaction))
}
