// Package baseline implements the forward half of baseline sequential JPEG:
// RGB to YCbCr conversion, 4:2:0 chroma subsampling, 8x8 block splitting, the
// 2-D DCT-II, quantization, zigzag ordering, run-length coding and per-plane
// Huffman coding.
//
// Every stage is a pure function over typed planes and blocks. Encode drives
// them, fanning block work out over a worker pool and joining before each
// plane's Huffman pass. Marker framing (JFIF/SOF/DHT/SOS) is left to the
// container writer that consumes an Image.
package baseline

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

// Common errors
var (
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrInvalidQuality    = errors.New("invalid quality factor")
	ErrInvalidQuantTable = errors.New("invalid quantization table")
)

// RGB is an interleaved 8-bit RGB raster, row-major: the sample for channel
// c of pixel (col, row) is Pix[(row*Width+col)*3+c].
type RGB struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGB allocates a zeroed raster.
func NewRGB(width, height int) *RGB {
	return &RGB{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// Set stores one pixel.
func (m *RGB) Set(col, row int, r, g, b uint8) {
	i := (row*m.Width + col) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// At returns one pixel.
func (m *RGB) At(col, row int) (r, g, b uint8) {
	i := (row*m.Width + col) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Validate rejects rasters the block and subsampling stages cannot handle.
func (m *RGB) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if m.Width > math.MaxInt/3/m.Height {
		return fmt.Errorf("%w: %dx%d overflows the sample count", ErrInvalidDimensions, m.Width, m.Height)
	}
	if need := m.Width * m.Height * 3; len(m.Pix) < need {
		return fmt.Errorf("%w: %dx%d needs %d samples, have %d", ErrInvalidDimensions, m.Width, m.Height, need, len(m.Pix))
	}
	return nil
}

// Options configures encoding
type Options struct {
	Quality     int         // 1-100, 50 leaves the base tables unscaled (default: 50)
	LumaTable   *QuantTable // base luminance table (default: Annex K)
	ChromaTable *QuantTable // base chrominance table (default: Annex K)
	Workers     int         // block workers per plane (0 = runtime.NumCPU)
}

// DefaultOptions returns default encoding options
func DefaultOptions() *Options {
	return &Options{
		Quality: 50,
		Workers: 0,
	}
}

// tables validates the options and returns the scaled luma and chroma tables.
func (o *Options) tables() (luma, chroma QuantTable, err error) {
	if o.Quality < 1 || o.Quality > 100 {
		return luma, chroma, fmt.Errorf("%w: %d (want 1-100)", ErrInvalidQuality, o.Quality)
	}
	luma, chroma = DefaultLuminanceQuantTable, DefaultChrominanceQuantTable
	if o.LumaTable != nil {
		luma = *o.LumaTable
	}
	if o.ChromaTable != nil {
		chroma = *o.ChromaTable
	}
	if err := luma.Validate(); err != nil {
		return luma, chroma, fmt.Errorf("luma: %w", err)
	}
	if err := chroma.Validate(); err != nil {
		return luma, chroma, fmt.Errorf("chroma: %w", err)
	}
	return luma.Scale(o.Quality), chroma.Scale(o.Quality), nil
}

func (o *Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}
