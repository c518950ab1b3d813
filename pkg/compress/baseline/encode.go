package baseline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jpfielding/jpegenc.go/pkg/compress/huffman"
	"github.com/jpfielding/jpegenc.go/pkg/compress/rle"
)

// Component identifies a color plane.
type Component int

const (
	ComponentY Component = iota
	ComponentCb
	ComponentCr
)

func (c Component) String() string {
	switch c {
	case ComponentY:
		return "Y"
	case ComponentCb:
		return "Cb"
	case ComponentCr:
		return "Cr"
	default:
		return fmt.Sprintf("Component(%d)", int(c))
	}
}

// EncodedBlock is one block's codeword stream: indices into its plane's
// Huffman table, and the stream's length in bits.
type EncodedBlock struct {
	Codes []int
	Bits  int
}

// EncodedPlane is everything a container writer needs for one component.
type EncodedPlane struct {
	Component  Component
	Width      int
	Height     int
	BlocksWide int
	BlocksHigh int
	Quant      QuantTable
	Table      *huffman.Table
	Blocks     []EncodedBlock
}

// Bits is the coded size of the plane's block streams.
func (p *EncodedPlane) Bits() int {
	n := 0
	for _, b := range p.Blocks {
		n += b.Bits
	}
	return n
}

// Symbols is the number of run-length symbols coded in the plane.
func (p *EncodedPlane) Symbols() int {
	n := 0
	for _, b := range p.Blocks {
		n += len(b.Codes)
	}
	return n
}

// Runs maps block i back to its run-length symbols.
func (p *EncodedPlane) Runs(i int) ([]rle.Run, error) {
	if i < 0 || i >= len(p.Blocks) {
		return nil, fmt.Errorf("block %d out of range (0-%d)", i, len(p.Blocks)-1)
	}
	return p.Table.Symbols(p.Blocks[i].Codes)
}

// Quantized reverses the entropy stages for block i.
func (p *EncodedPlane) Quantized(i int) (Quantized, error) {
	runs, err := p.Runs(i)
	if err != nil {
		return Quantized{}, err
	}
	values, err := rle.Expand(runs)
	if err != nil {
		return Quantized{}, err
	}
	if len(values) != 64 {
		return Quantized{}, fmt.Errorf("%w: block %d expands to %d values", huffman.ErrInvariant, i, len(values))
	}
	seq := [64]int32(values)
	return Unzigzag(&seq), nil
}

// Pack returns the bitstream of block i.
func (p *EncodedPlane) Pack(i int) ([]byte, error) {
	if i < 0 || i >= len(p.Blocks) {
		return nil, fmt.Errorf("block %d out of range (0-%d)", i, len(p.Blocks)-1)
	}
	return p.Table.Pack(p.Blocks[i].Codes)
}

// Image is the encoder output: dimensions, the quality used, and the three
// coded planes in Y, Cb, Cr order.
type Image struct {
	Width   int
	Height  int
	Quality int
	Planes  [3]EncodedPlane
}

// Bits is the coded size of all block streams.
func (m *Image) Bits() int {
	n := 0
	for i := range m.Planes {
		n += m.Planes[i].Bits()
	}
	return n
}

// Ratio compares the raw 24-bit raster to the coded block streams.
func (m *Image) Ratio() float64 {
	bits := m.Bits()
	if bits == 0 {
		return 0
	}
	return float64(m.Width*m.Height*24) / float64(bits)
}

// Encode runs the whole pipeline over src. A nil opts uses DefaultOptions.
func Encode(ctx context.Context, src *RGB, opts *Options) (*Image, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	luma, chroma, err := opts.tables()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	y, cb, cr := Subsample420(ConvertRGB(src))
	slog.DebugContext(ctx, "converted and subsampled",
		slog.Int("width", src.Width),
		slog.Int("height", src.Height),
		slog.Int("chromaWidth", cb.Width),
		slog.Int("chromaHeight", cb.Height))

	img := &Image{Width: src.Width, Height: src.Height, Quality: opts.Quality}
	planes := [3]struct {
		comp  Component
		plane Plane
		quant *QuantTable
	}{
		{ComponentY, y, &luma},
		{ComponentCb, cb, &chroma},
		{ComponentCr, cr, &chroma},
	}

	var wg sync.WaitGroup
	var errs [3]error
	workers := opts.workers()
	for i := range planes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := planes[i]
			errs[i] = encodePlane(ctx, &img.Planes[i], p.comp, p.plane, p.quant, workers)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("plane %s: %w", planes[i].comp, err)
		}
	}

	slog.DebugContext(ctx, "encoded image",
		slog.Int("bits", img.Bits()),
		slog.Float64("ratio", img.Ratio()))
	return img, nil
}

// encodePlane transforms each block independently, then joins for the
// plane-wide Huffman pass.
func encodePlane(ctx context.Context, dst *EncodedPlane, comp Component, p Plane, q *QuantTable, workers int) error {
	blocks := Split(p)
	streams := make([][]rle.Run, len(blocks))
	parallelFor(len(blocks), workers, func(i int) {
		streams[i] = encodeBlock(&blocks[i], q)
	})
	if err := ctx.Err(); err != nil {
		return err
	}

	coded, err := huffman.Encode(streams)
	if err != nil {
		return err
	}

	wide, high := BlockGrid(p.Width, p.Height)
	*dst = EncodedPlane{
		Component:  comp,
		Width:      p.Width,
		Height:     p.Height,
		BlocksWide: wide,
		BlocksHigh: high,
		Quant:      *q,
		Table:      coded.Table,
		Blocks:     make([]EncodedBlock, len(blocks)),
	}
	for i := range dst.Blocks {
		dst.Blocks[i] = EncodedBlock{Codes: coded.Streams[i], Bits: coded.Bits[i]}
	}

	slog.DebugContext(ctx, "encoded plane",
		slog.String("component", comp.String()),
		slog.Int("blocks", len(blocks)),
		slog.Int("symbols", coded.Table.Len()),
		slog.Int("bits", coded.TotalBits()))
	return nil
}

// encodeBlock runs the per-block stages: DCT, quantization, zigzag and
// run-length coding.
func encodeBlock(b *Block, q *QuantTable) []rle.Run {
	f := DCT(b)
	z := Quantize(&f, q)
	seq := Zigzag(&z)
	return rle.Encode(seq[:])
}

// parallelFor calls fn for every index in [0, n). Workers claim indices from
// a shared counter; fn must only write state owned by its index.
func parallelFor(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}
