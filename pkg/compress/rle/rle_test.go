package rle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		values []int32
		want   []Run
	}{
		{"Empty", nil, nil},
		{"Single", []int32{7}, []Run{{7, 1}}},
		{"TrailingRun", []int32{1, 1, 2, 0, 4, 0, 0}, []Run{{1, 2}, {2, 1}, {0, 1}, {4, 1}, {0, 2}}},
		{"AllSame", make([]int32, 64), []Run{{0, 64}}},
		{"Alternating", []int32{0, 1, 0, 1}, []Run{{0, 1}, {1, 1}, {0, 1}, {1, 1}}},
		{"Negative", []int32{-3, -3, 5}, []Run{{-3, 2}, {5, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.values))
		})
	}
}

func TestEncodeExpand_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n <= 128; n++ {
		values := make([]int32, n)
		for i := range values {
			// small alphabet so runs actually form
			values[i] = int32(rng.Intn(3) - 1)
		}
		runs := Encode(values)
		got, err := Expand(runs)
		require.NoError(t, err)
		require.Equal(t, values, got, "length %d", n)

		for i := 1; i < len(runs); i++ {
			assert.NotEqual(t, runs[i-1].Value, runs[i].Value, "adjacent runs must differ")
		}
	}
}

func TestExpand_InvalidRun(t *testing.T) {
	_, err := Expand([]Run{{1, 2}, {0, 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRun)
	assert.Contains(t, err.Error(), "run 1")
}

func TestLen(t *testing.T) {
	n, err := Len([]Run{{0, 10}, {3, 1}, {0, 53}})
	require.NoError(t, err)
	assert.Equal(t, 64, n)
}

func TestRunString(t *testing.T) {
	assert.Equal(t, "(-2,5)", Run{-2, 5}.String())
}
