package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantPredicates(t *testing.T) {
	assert.True(t, Min().IsMin())
	assert.True(t, Max().IsMax())
	assert.True(t, Now().IsNow())
	assert.True(t, At(10).IsFinite())

	assert.False(t, At(10).IsMin())
	assert.False(t, At(10).IsMax())
	assert.False(t, At(10).IsNow())
	assert.False(t, Now().IsMax(), "NOW is a state, not the upper extreme")
}

func TestInstantZeroValueIsMin(t *testing.T) {
	var i Instant
	assert.True(t, i.IsMin())
	assert.Equal(t, Min(), i)
}

func TestAt_SentinelValuesCollapse(t *testing.T) {
	assert.Equal(t, Min(), At(MinTimestamp))
	assert.Equal(t, Max(), At(MaxTimestamp))
	assert.Equal(t, Min(), At(-5), "values below the minimum clamp to MIN")
}

func TestCompare_TotalOrder(t *testing.T) {
	ordered := []Instant{Min(), At(1), At(10), At(1000), Now(), Max()}

	for i := range ordered {
		for j := range ordered {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			assert.Equal(t, want, Compare(ordered[i], ordered[j]),
				"Compare(%s, %s)", ordered[i], ordered[j])
		}
	}
}

func TestMaxOf(t *testing.T) {
	tests := []struct {
		name string
		a, b Instant
		want Instant
	}{
		{"finite pair", At(5), At(10), At(10)},
		{"finite pair reversed", At(10), At(5), At(10)},
		{"min loses", Min(), At(3), At(3)},
		{"max wins", At(3), Max(), Max()},
		{"equal", At(7), At(7), At(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxOf(tt.a, tt.b))
		})
	}
}

func TestNullableDefaults(t *testing.T) {
	assert.Equal(t, Min(), FromOrMin(nil))
	assert.Equal(t, Max(), ToOrMax(nil))

	v := At(42)
	assert.Equal(t, v, FromOrMin(&v))
	assert.Equal(t, v, ToOrMax(&v))
}

func TestTimestampEncoding(t *testing.T) {
	assert.Equal(t, MinTimestamp, Min().Timestamp())
	assert.Equal(t, MaxTimestamp, Max().Timestamp())
	assert.Equal(t, MaxTimestamp, Now().Timestamp())
	assert.Equal(t, int64(99), At(99).Timestamp())
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in   string
		want Instant
	}{
		{"MIN", Min()},
		{"NOW", Now()},
		{"MAX", Max()},
		{"1234", At(1234)},
		{"0", Min()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInstant(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseInstant("yesterday")
	assert.Error(t, err)
}

func TestInstantTextRoundTrip(t *testing.T) {
	for _, in := range []Instant{Min(), At(17), Now(), Max()} {
		text, err := in.MarshalText()
		require.NoError(t, err)

		var out Instant
		require.NoError(t, out.UnmarshalText(text))
		assert.Equal(t, in, out)
	}
}
