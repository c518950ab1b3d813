package baseline

import (
	"fmt"
	"math"
)

// QuantTable holds one quantization step per coefficient, row-major in the
// same (i,j) layout as Coefficients.
type QuantTable [64]int

// Quantized is a block of rounded, quantized coefficients in (i,j) layout.
type Quantized [64]int32

// DefaultLuminanceQuantTable is the standard luminance quantization table
var DefaultLuminanceQuantTable = QuantTable{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// DefaultChrominanceQuantTable is the standard chrominance quantization table
var DefaultChrominanceQuantTable = QuantTable{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// Validate checks every step fits an 8-bit baseline table and is non-zero.
func (q *QuantTable) Validate() error {
	for i, v := range q {
		if v < 1 || v > 255 {
			return fmt.Errorf("%w: step %d at (%d,%d)", ErrInvalidQuantTable, v, i/8, i%8)
		}
	}
	return nil
}

// Scale applies a quality factor (1-100) to the table
func (q QuantTable) Scale(quality int) QuantTable {
	// Quality 50 = no scaling
	// Quality < 50: coarser steps, higher compression
	// Quality > 50: finer steps, lower compression
	var scale int
	if quality < 50 {
		scale = 5000 / quality
	} else {
		scale = 200 - quality*2
	}

	var result QuantTable
	for i, v := range q {
		result[i] = clamp((v*scale+50)/100, 1, 255)
	}
	return result
}

// Quantize divides every coefficient by its step and rounds half away from
// zero.
func Quantize(f *Coefficients, q *QuantTable) Quantized {
	var out Quantized
	for i := range f {
		out[i] = int32(math.Round(f[i] / float64(q[i])))
	}
	return out
}

// Dequantize multiplies quantized values back by their steps.
func Dequantize(z *Quantized, q *QuantTable) Coefficients {
	var out Coefficients
	for i := range z {
		out[i] = float64(z[i]) * float64(q[i])
	}
	return out
}
