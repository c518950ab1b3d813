package baseline

// Plane holds the samples of one channel, row-major.
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the sample at (col, row), clamping out-of-range coordinates to
// the nearest edge sample.
func (p Plane) At(col, row int) uint8 {
	col = clamp(col, 0, p.Width-1)
	row = clamp(row, 0, p.Height-1)
	return p.Pix[row*p.Width+col]
}

// Subsample420 keeps luma at full resolution and averages every 2x2 chroma
// group into one sample, truncating the mean. Chroma planes are
// ceil(w/2) x ceil(h/2); groups hanging off an odd edge repeat the last row
// or column.
func Subsample420(src *YCbCr) (y, cb, cr Plane) {
	y = Plane{Width: src.Width, Height: src.Height, Pix: src.Y}
	full := func(pix []uint8) Plane {
		return Plane{Width: src.Width, Height: src.Height, Pix: pix}
	}
	return y, halve(full(src.Cb)), halve(full(src.Cr))
}

func halve(src Plane) Plane {
	w := (src.Width + 1) / 2
	h := (src.Height + 1) / 2
	dst := Plane{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			sum := int(src.At(2*i, 2*j)) +
				int(src.At(2*i+1, 2*j)) +
				int(src.At(2*i, 2*j+1)) +
				int(src.At(2*i+1, 2*j+1))
			dst.Pix[j*w+i] = uint8(sum / 4)
		}
	}
	return dst
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
