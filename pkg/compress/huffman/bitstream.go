package huffman

import "io"

// bitWriter accumulates bits MSB first.
type bitWriter struct {
	out  []byte
	buf  uint64
	bits int
}

func newBitWriter() *bitWriter {
	return &bitWriter{}
}

func (b *bitWriter) writeBits(val uint64, n int) {
	b.buf = (b.buf << n) | (val & ((1 << n) - 1))
	b.bits += n

	for b.bits >= 8 {
		b.bits -= 8
		b.out = append(b.out, byte(b.buf>>b.bits))
	}
}

// writeCode splits long codes so the 64-bit buffer never overflows.
func (b *bitWriter) writeCode(c Code) {
	n := c.Len
	for n > 32 {
		n -= 32
		b.writeBits(c.Bits>>n, 32)
	}
	b.writeBits(c.Bits, n)
}

func (b *bitWriter) flush() []byte {
	if b.bits > 0 {
		// Pad with 1s
		pad := 8 - b.bits
		b.buf = (b.buf << pad) | ((1 << pad) - 1)
		b.out = append(b.out, byte(b.buf))
		b.bits = 0
	}
	return b.out
}

// bitReader reads bits MSB first.
type bitReader struct {
	data []byte
	pos  int // bit offset
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (b *bitReader) readBit() (uint64, error) {
	if b.pos >= len(b.data)*8 {
		return 0, io.ErrUnexpectedEOF
	}
	bit := b.data[b.pos/8] >> (7 - b.pos%8) & 1
	b.pos++
	return uint64(bit), nil
}
