package baseline

import "math"

// Coefficients are DCT outputs, row-major by frequency: index i*8+j holds
// F(i,j) where i is the vertical and j the horizontal frequency. F(0,0) is DC.
type Coefficients [64]float64

// cosTable[k][n] = cos((2n+1)kπ/16)
var cosTable = func() (t [8][8]float64) {
	for k := 0; k < 8; k++ {
		for n := 0; n < 8; n++ {
			t[k][n] = math.Cos(float64(2*n+1) * float64(k) * math.Pi / 16)
		}
	}
	return t
}()

// alpha is the normalization C(k): 1/√2 for k == 0, else 1.
func alpha(k int) float64 {
	if k == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// DCT applies the 2-D DCT-II to a block after shifting samples from [0,255]
// to [-128,127]:
//
//	F(i,j) = 1/4 C(i) C(j) Σx Σy s(x,y) cos((2x+1)iπ/16) cos((2y+1)jπ/16)
//
// It runs as two passes of the 8-point 1-D transform, rows then columns.
func DCT(b *Block) Coefficients {
	var s [8][8]float64
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			s[x][y] = float64(b[x*8+y]) - 128
		}
	}

	// tmp[i][y] = Σx s(x,y) cos((2x+1)iπ/16)
	var tmp [8][8]float64
	for i := 0; i < 8; i++ {
		for y := 0; y < 8; y++ {
			sum := 0.0
			for x := 0; x < 8; x++ {
				sum += s[x][y] * cosTable[i][x]
			}
			tmp[i][y] = sum
		}
	}

	var f Coefficients
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				sum += tmp[i][y] * cosTable[j][y]
			}
			f[i*8+j] = 0.25 * alpha(i) * alpha(j) * sum
		}
	}
	return f
}

// DCTDirect evaluates the same transform term by term, 4096 multiply-adds
// per block. DCT must agree with it to floating-point tolerance.
func DCTDirect(b *Block) Coefficients {
	var f Coefficients
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			sum := 0.0
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					s := float64(b[x*8+y]) - 128
					sum += s * cosTable[i][x] * cosTable[j][y]
				}
			}
			f[i*8+j] = 0.25 * alpha(i) * alpha(j) * sum
		}
	}
	return f
}

// InverseDCT recovers level-shifted samples from coefficients, undoing the
// shift. Results are real-valued; callers round and clamp as they need.
func InverseDCT(f *Coefficients) [64]float64 {
	var out [64]float64
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			sum := 0.0
			for i := 0; i < 8; i++ {
				for j := 0; j < 8; j++ {
					sum += alpha(i) * alpha(j) * f[i*8+j] * cosTable[i][x] * cosTable[j][y]
				}
			}
			out[x*8+y] = 0.25*sum + 128
		}
	}
	return out
}
