// Package rle collapses runs of equal coefficients into (value, length) pairs.
//
// A zigzag-ordered quantized block is dominated by zeros toward its tail, so
// each block is coded as the ordered list of its runs. Replaying every run
// Length times, in order, reproduces the input exactly.
package rle

import (
	"errors"
	"fmt"
)

// ErrInvalidRun is returned when a run cannot be expanded.
var ErrInvalidRun = errors.New("rle: invalid run")

// Run is one (value, run-length) symbol. Length is always >= 1.
type Run struct {
	Value  int32
	Length int
}

func (r Run) String() string {
	return fmt.Sprintf("(%d,%d)", r.Value, r.Length)
}

// Encode returns the runs of values. The final run is always emitted; an
// empty input yields no runs.
func Encode(values []int32) []Run {
	if len(values) == 0 {
		return nil
	}

	runs := make([]Run, 0, 8)
	cur := Run{Value: values[0], Length: 1}
	for _, v := range values[1:] {
		if v == cur.Value {
			cur.Length++
			continue
		}
		runs = append(runs, cur)
		cur = Run{Value: v, Length: 1}
	}
	return append(runs, cur)
}

// Expand replays runs back into the original sequence.
func Expand(runs []Run) ([]int32, error) {
	n, err := Len(runs)
	if err != nil {
		return nil, err
	}
	out := make([]int32, 0, n)
	for _, r := range runs {
		for k := 0; k < r.Length; k++ {
			out = append(out, r.Value)
		}
	}
	return out, nil
}

// Len returns the number of values the runs expand to.
func Len(runs []Run) (int, error) {
	n := 0
	for i, r := range runs {
		if r.Length < 1 {
			return 0, fmt.Errorf("%w: run %d has length %d", ErrInvalidRun, i, r.Length)
		}
		n += r.Length
	}
	return n, nil
}
