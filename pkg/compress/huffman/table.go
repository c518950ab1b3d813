package huffman

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Code is a codeword: the low Len bits of Bits, most significant first.
type Code struct {
	Bits uint64
	Len  int
}

func (c Code) append(bit uint64) Code {
	return Code{Bits: c.Bits<<1 | bit, Len: c.Len + 1}
}

// HasPrefix reports whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	if p.Len > c.Len {
		return false
	}
	return c.Bits>>(c.Len-p.Len) == p.Bits
}

func (c Code) String() string {
	var b strings.Builder
	for i := c.Len - 1; i >= 0; i-- {
		if c.Bits>>i&1 == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Entry pairs a symbol with its codeword.
type Entry struct {
	Symbol Symbol
	Code   Code
}

// Table is a canonical code: entries are ordered by code length, then by
// symbol, and codes of each length are consecutive integers. The lengths
// alone are enough to rebuild it.
type Table struct {
	Entries []Entry
	index   map[Symbol]int

	// decode state per code length
	first []uint64
	count []int
	start []int
}

// NewTable assigns canonical codes for the given codeword lengths.
func NewTable(lengths map[Symbol]int) (*Table, error) {
	t := &Table{
		Entries: make([]Entry, 0, len(lengths)),
		index:   make(map[Symbol]int, len(lengths)),
	}
	for s, l := range lengths {
		if l < 1 || l > maxCodeLen {
			return nil, fmt.Errorf("%w: symbol %v has code length %d", ErrInvariant, s, l)
		}
		t.Entries = append(t.Entries, Entry{Symbol: s, Code: Code{Len: l}})
	}
	slices.SortFunc(t.Entries, func(a, b Entry) int {
		if c := cmp.Compare(a.Code.Len, b.Code.Len); c != 0 {
			return c
		}
		return compareSymbols(a.Symbol, b.Symbol)
	})

	maxLen := 0
	if n := len(t.Entries); n > 0 {
		maxLen = t.Entries[n-1].Code.Len
	}
	t.first = make([]uint64, maxLen+1)
	t.count = make([]int, maxLen+1)
	t.start = make([]int, maxLen+1)

	var code uint64
	prev := 0
	for i := range t.Entries {
		e := &t.Entries[i]
		if i > 0 {
			code++
		}
		code <<= e.Code.Len - prev
		prev = e.Code.Len
		if e.Code.Len < maxCodeLen && code>>e.Code.Len != 0 {
			return nil, fmt.Errorf("%w: lengths oversubscribe the code space", ErrInvariant)
		}
		e.Code.Bits = code
		if t.count[e.Code.Len] == 0 {
			t.first[e.Code.Len] = code
			t.start[e.Code.Len] = i
		}
		t.count[e.Code.Len]++
		t.index[e.Symbol] = i
	}
	return t, nil
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int {
	return len(t.Entries)
}

// Lengths returns the codeword length of every symbol.
func (t *Table) Lengths() map[Symbol]int {
	m := make(map[Symbol]int, len(t.Entries))
	for _, e := range t.Entries {
		m[e.Symbol] = e.Code.Len
	}
	return m
}

// Index returns the table position of s.
func (t *Table) Index(s Symbol) (int, error) {
	i, ok := t.index[s]
	if !ok {
		return 0, fmt.Errorf("%w: symbol %v not in table", ErrInvariant, s)
	}
	return i, nil
}

// Rewrite maps a symbol stream onto table indices and reports its coded
// length in bits.
func (t *Table) Rewrite(stream []Symbol) ([]int, int, error) {
	idx := make([]int, len(stream))
	bits := 0
	for i, s := range stream {
		k, err := t.Index(s)
		if err != nil {
			return nil, 0, err
		}
		idx[i] = k
		bits += t.Entries[k].Code.Len
	}
	return idx, bits, nil
}

// Symbols maps indices back onto symbols.
func (t *Table) Symbols(indices []int) ([]Symbol, error) {
	out := make([]Symbol, len(indices))
	for i, k := range indices {
		if k < 0 || k >= len(t.Entries) {
			return nil, fmt.Errorf("%w: index %d outside table of %d", ErrInvariant, k, len(t.Entries))
		}
		out[i] = t.Entries[k].Symbol
	}
	return out, nil
}

// Pack writes the codewords for indices as a bitstream, MSB first. The last
// byte is padded with 1 bits.
func (t *Table) Pack(indices []int) ([]byte, error) {
	bw := newBitWriter()
	for _, k := range indices {
		if k < 0 || k >= len(t.Entries) {
			return nil, fmt.Errorf("%w: index %d outside table of %d", ErrInvariant, k, len(t.Entries))
		}
		bw.writeCode(t.Entries[k].Code)
	}
	return bw.flush(), nil
}

// Unpack decodes n codewords from data.
func (t *Table) Unpack(data []byte, n int) ([]int, error) {
	if n > 0 && len(t.Entries) == 0 {
		return nil, fmt.Errorf("%w: %d codes requested from an empty table", ErrCorrupt, n)
	}
	br := newBitReader(data)
	out := make([]int, 0, n)
	for len(out) < n {
		var code uint64
		found := false
		for l := 1; l < len(t.count); l++ {
			bit, err := br.readBit()
			if err != nil {
				return nil, fmt.Errorf("%w: code %d: %v", ErrCorrupt, len(out), err)
			}
			code = code<<1 | bit
			if t.count[l] > 0 && code >= t.first[l] && code-t.first[l] < uint64(t.count[l]) {
				out = append(out, t.start[l]+int(code-t.first[l]))
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no codeword matches at code %d", ErrCorrupt, len(out))
		}
	}
	return out, nil
}
