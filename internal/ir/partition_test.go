package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionString(t *testing.T) {
	assert.Equal(t, "p1", P1.String())
	assert.Equal(t, "p4", P4.String())
	assert.False(t, Partition(0).Valid())
	assert.False(t, Partition(5).Valid())
	assert.Len(t, Partitions, 4)
}

func TestBounds(t *testing.T) {
	assert.True(t, FullRange().IsFull())
	assert.False(t, Bounds{From: At(1), To: Max()}.IsFull())

	assert.True(t, Bounds{From: At(20), To: At(10)}.Inverted())
	assert.False(t, Bounds{From: At(10), To: At(20)}.Inverted())
	assert.False(t, Bounds{From: Now(), To: At(10)}.Inverted())

	assert.Equal(t, "[MIN, 20]", Bounds{From: Min(), To: At(20)}.String())
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		in   string
		want Relation
	}{
		{"contains", Contains},
		{"CONTAINS", Contains},
		{"Intersects", Intersects},
		{"is_within", IsWithin},
		{"IS_WITHIN", IsWithin},
		{"", IsWithin},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRelation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRelation_Unknown(t *testing.T) {
	for _, op := range []string{"overlaps", " contains ", "intersects\n", " "} {
		t.Run(op, func(t *testing.T) {
			_, err := ParseRelation(op)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is not one of")
		})
	}
}
