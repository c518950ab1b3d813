package baseline

// YCbCr is the full-resolution result of color conversion, one plane per
// channel, each indexed row*Width+col like the source raster.
type YCbCr struct {
	Width  int
	Height int
	Y      []uint8
	Cb     []uint8
	Cr     []uint8
}

// ConvertRGB maps every pixel to YCbCr:
//
//	Y  =  0.299*R + 0.587*G + 0.114*B
//	Cb = -0.1687*R - 0.3313*G + 0.5*B + 128
//	Cr =  0.5*R - 0.4187*G - 0.0813*B + 128
//
// Each result is clamped to [0, 255] and truncated, not rounded.
func ConvertRGB(src *RGB) *YCbCr {
	n := src.Width * src.Height
	dst := &YCbCr{
		Width:  src.Width,
		Height: src.Height,
		Y:      make([]uint8, n),
		Cb:     make([]uint8, n),
		Cr:     make([]uint8, n),
	}
	for i := 0; i < n; i++ {
		p := src.Pix[i*3 : i*3+3 : i*3+3]
		dst.Y[i], dst.Cb[i], dst.Cr[i] = ycbcr(p[0], p[1], p[2])
	}
	return dst
}

// ycbcr converts one pixel. The explicit float64 conversions keep the
// compiler from fusing multiply-adds, which would change truncated results.
func ycbcr(r8, g8, b8 uint8) (y, cb, cr uint8) {
	r, g, b := float64(r8), float64(g8), float64(b8)
	yf := float64(0.299*r) + float64(0.587*g) + float64(0.114*b)
	cbf := float64(-0.1687*r) - float64(0.3313*g) + float64(0.5*b) + 128
	crf := float64(0.5*r) - float64(0.4187*g) - float64(0.0813*b) + 128
	return truncate(yf), truncate(cbf), truncate(crf)
}

func truncate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
