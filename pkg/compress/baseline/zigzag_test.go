package baseline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZigZag_StandardOrder(t *testing.T) {
	want := [64]int{
		0, 1, 8, 16, 9, 2, 3, 10,
		17, 24, 32, 25, 18, 11, 4, 5,
		12, 19, 26, 33, 40, 48, 41, 34,
		27, 20, 13, 6, 7, 14, 21, 28,
		35, 42, 49, 56, 57, 50, 43, 36,
		29, 22, 15, 23, 30, 37, 44, 51,
		58, 59, 52, 45, 38, 31, 39, 46,
		53, 60, 61, 54, 47, 55, 62, 63,
	}
	assert.Equal(t, want, ZigZag)
}

func TestZigZag_Diagonals(t *testing.T) {
	seen := map[int]bool{}
	prev := 0
	for k, idx := range ZigZag {
		assert.False(t, seen[idx], "index %d visited twice", idx)
		seen[idx] = true
		d := idx/8 + idx%8
		assert.GreaterOrEqual(t, d, prev, "position %d steps back a diagonal", k)
		prev = d
	}
	assert.Len(t, seen, 64)
}

func TestZigzag_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		var q Quantized
		for i := range q {
			q[i] = int32(rng.Intn(2001) - 1000)
		}
		seq := Zigzag(&q)
		assert.Equal(t, q, Unzigzag(&seq))
	}
}

func TestZigzag_LowFrequencyFirst(t *testing.T) {
	var q Quantized
	q[0] = 5  // DC
	q[1] = 4  // F(0,1)
	q[8] = 3  // F(1,0)
	q[63] = 9 // highest frequency
	seq := Zigzag(&q)
	assert.Equal(t, int32(5), seq[0])
	assert.Equal(t, int32(4), seq[1])
	assert.Equal(t, int32(3), seq[2])
	assert.Equal(t, int32(9), seq[63])
}
