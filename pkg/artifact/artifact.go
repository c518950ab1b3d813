// Package artifact persists encoder output for a later container writer.
//
// A sidecar is a short uncompressed header followed by one zstd frame:
//
//	magic "JPGE" | version u8 | id [16]byte | zstd(body)
//
// The body carries the image dimensions and quality, then for each of the Y,
// Cb, Cr planes: geometry, the scaled quantization table, the canonical
// Huffman table as (symbol, length) pairs, and each block's packed bits. All
// integers are big-endian. The id is a content UUID of the body, so equal
// encodings always share it.
package artifact

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegenc.go/pkg/compress/huffman"
	"github.com/jpfielding/jpegenc.go/pkg/util"
	"github.com/klauspost/compress/zstd"
)

const (
	magic   = "JPGE"
	version = 1

	// bounds applied while reading, well past anything the encoder emits
	maxDimension = 1 << 16
	maxRunLength = 1 << 16

	// encoded sizes used to check counts against the bytes left in the body
	tableEntrySize = 4 + 4 + 1 // value, run, code length
	minBlockSize   = 4 + 4     // code count, bit count
)

// Common errors
var (
	ErrInvalidFormat = errors.New("artifact: invalid format")
	ErrVersion       = errors.New("artifact: unsupported version")
)

// Header is the uncompressed prefix of a sidecar.
type Header struct {
	Version byte
	ID      uuid.UUID
}

// Write serializes img to w and returns the sidecar id.
func Write(w io.Writer, img *baseline.Image) (uuid.UUID, error) {
	var body bytes.Buffer
	if err := writeBody(&body, img); err != nil {
		return uuid.Nil, err
	}
	id := util.ContentUUID(body.Bytes())

	bw := bufio.NewWriter(w)
	bw.WriteString(magic)
	bw.WriteByte(version)
	bw.Write(id[:])

	enc, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := enc.Write(body.Bytes()); err != nil {
		enc.Close()
		return uuid.Nil, err
	}
	if err := enc.Close(); err != nil {
		return uuid.Nil, err
	}
	return id, bw.Flush()
}

// ReadHeader reads just the uncompressed prefix.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [len(magic) + 1 + 16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidFormat, err)
	}
	if string(buf[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, buf[:len(magic)])
	}
	h := &Header{Version: buf[len(magic)]}
	if h.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	copy(h.ID[:], buf[len(magic)+1:])
	return h, nil
}

// Read parses a sidecar, rebuilding every plane's canonical table and
// decoding each block's bitstream back into table indices. The body must hash
// to the id in the header.
func Read(r io.Reader) (*Header, *baseline.Image, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer dec.Close()
	body, err := io.ReadAll(dec)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: body: %v", ErrInvalidFormat, err)
	}
	if id := util.ContentUUID(body); id != h.ID {
		return nil, nil, fmt.Errorf("%w: body hashes to %s, header says %s", ErrInvalidFormat, id, h.ID)
	}

	img, err := readBody(bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	return h, img, nil
}

func writeBody(w *bytes.Buffer, img *baseline.Image) error {
	if img.Quality < 1 || img.Quality > 100 {
		return fmt.Errorf("%w: quality %d", ErrInvalidFormat, img.Quality)
	}
	if img.Width > maxDimension || img.Height > maxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidFormat, img.Width, img.Height, maxDimension)
	}
	put32(w, uint32(img.Width))
	put32(w, uint32(img.Height))
	w.WriteByte(byte(img.Quality))

	for i := range img.Planes {
		if err := writePlane(w, &img.Planes[i]); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	return nil
}

func writePlane(w *bytes.Buffer, p *baseline.EncodedPlane) error {
	w.WriteByte(byte(p.Component))
	put32(w, uint32(p.Width))
	put32(w, uint32(p.Height))
	put32(w, uint32(p.BlocksWide))
	put32(w, uint32(p.BlocksHigh))
	if err := p.Quant.Validate(); err != nil {
		return err
	}
	for _, q := range p.Quant {
		w.WriteByte(byte(q))
	}

	put32(w, uint32(p.Table.Len()))
	for _, e := range p.Table.Entries {
		put32(w, uint32(e.Symbol.Value))
		put32(w, uint32(e.Symbol.Length))
		w.WriteByte(byte(e.Code.Len))
	}

	put32(w, uint32(len(p.Blocks)))
	for i := range p.Blocks {
		packed, err := p.Pack(i)
		if err != nil {
			return err
		}
		put32(w, uint32(len(p.Blocks[i].Codes)))
		put32(w, uint32(p.Blocks[i].Bits))
		w.Write(packed)
	}
	return nil
}

func readBody(r *bytes.Reader) (*baseline.Image, error) {
	br := &reader{r: r}
	img := &baseline.Image{
		Width:   br.dim(),
		Height:  br.dim(),
		Quality: int(br.u8()),
	}
	if br.err != nil {
		return nil, br.err
	}
	if img.Quality < 1 || img.Quality > 100 {
		return nil, fmt.Errorf("%w: quality %d", ErrInvalidFormat, img.Quality)
	}

	for i := range img.Planes {
		if err := readPlane(br, &img.Planes[i]); err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		if img.Planes[i].Component != baseline.Component(i) {
			return nil, fmt.Errorf("%w: plane %d holds %s", ErrInvalidFormat, i, img.Planes[i].Component)
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidFormat, r.Len())
	}
	return img, nil
}

func readPlane(br *reader, p *baseline.EncodedPlane) error {
	p.Component = baseline.Component(br.u8())
	p.Width = br.dim()
	p.Height = br.dim()
	p.BlocksWide = br.dim()
	p.BlocksHigh = br.dim()
	for i := range p.Quant {
		p.Quant[i] = int(br.u8())
	}
	if br.err != nil {
		return br.err
	}
	if wide, high := baseline.BlockGrid(p.Width, p.Height); wide != p.BlocksWide || high != p.BlocksHigh {
		return fmt.Errorf("%w: %dx%d plane with %dx%d blocks", ErrInvalidFormat, p.Width, p.Height, p.BlocksWide, p.BlocksHigh)
	}
	if err := p.Quant.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	blocks := p.BlocksWide * p.BlocksHigh
	n := int(br.u32())
	if br.err != nil {
		return br.err
	}
	if n > blocks*baseline.BlockSize*baseline.BlockSize {
		return fmt.Errorf("%w: %d table entries for %d blocks", ErrInvalidFormat, n, blocks)
	}
	if n*tableEntrySize > br.remaining() {
		return fmt.Errorf("%w: %d table entries need %d bytes, %d left", ErrInvalidFormat, n, n*tableEntrySize, br.remaining())
	}
	var written []huffman.Symbol
	lengths := map[huffman.Symbol]int{}
	for i := 0; i < n; i++ {
		value, run, codeLen := br.u32(), br.u32(), br.u8()
		if br.err != nil {
			break
		}
		if run == 0 || run > maxRunLength {
			return fmt.Errorf("%w: entry %d has run length %d", ErrInvalidFormat, i, run)
		}
		s := huffman.Symbol{Value: int32(value), Length: int(run)}
		if _, dup := lengths[s]; dup {
			return fmt.Errorf("%w: symbol %v listed twice", ErrInvalidFormat, s)
		}
		lengths[s] = int(codeLen)
		written = append(written, s)
	}
	if br.err != nil {
		return br.err
	}
	table, err := huffman.NewTable(lengths)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	// block streams index the table, so its order must survive the trip
	for i, s := range written {
		if table.Entries[i].Symbol != s {
			return fmt.Errorf("%w: table entry %d out of canonical order", ErrInvalidFormat, i)
		}
	}
	p.Table = table

	if got := int(br.u32()); br.err == nil && got != blocks {
		return fmt.Errorf("%w: %d blocks, grid holds %d", ErrInvalidFormat, got, blocks)
	}
	if br.err != nil {
		return br.err
	}
	if blocks*minBlockSize > br.remaining() {
		return fmt.Errorf("%w: %d blocks need at least %d bytes, %d left", ErrInvalidFormat, blocks, blocks*minBlockSize, br.remaining())
	}
	p.Blocks = nil
	for i := 0; i < blocks; i++ {
		codes := int(br.u32())
		bits := int(br.u32())
		if br.err != nil {
			return br.err
		}
		if codes > baseline.BlockSize*baseline.BlockSize || bits > codes*64 {
			return fmt.Errorf("%w: block %d claims %d codes in %d bits", ErrInvalidFormat, i, codes, bits)
		}
		packed := br.bytes((bits + 7) / 8)
		if br.err != nil {
			return br.err
		}
		idx, err := table.Unpack(packed, codes)
		if err != nil {
			return fmt.Errorf("%w: block %d: %w", ErrInvalidFormat, i, err)
		}
		sum := 0
		for _, k := range idx {
			sum += table.Entries[k].Code.Len
		}
		if sum != bits {
			return fmt.Errorf("%w: block %d decodes to %d bits, header says %d", ErrInvalidFormat, i, sum, bits)
		}
		p.Blocks = append(p.Blocks, baseline.EncodedBlock{Codes: idx, Bits: bits})
	}
	return nil
}

func put32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// reader latches the first short read so field sequences can be decoded
// without a check per field.
type reader struct {
	r   *bytes.Reader
	err error
}

func (br *reader) bytes(n int) []byte {
	if br.err != nil {
		return nil
	}
	if n > br.r.Len() {
		br.err = fmt.Errorf("%w: need %d bytes, %d left", ErrInvalidFormat, n, br.r.Len())
		return nil
	}
	b := make([]byte, n)
	io.ReadFull(br.r, b)
	return b
}

func (br *reader) remaining() int {
	return br.r.Len()
}

func (br *reader) u8() byte {
	b := br.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (br *reader) u32() uint32 {
	b := br.bytes(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (br *reader) dim() int {
	v := br.u32()
	if br.err == nil && (v == 0 || v > maxDimension) {
		br.err = fmt.Errorf("%w: dimension %d", ErrInvalidFormat, v)
	}
	return int(v)
}
