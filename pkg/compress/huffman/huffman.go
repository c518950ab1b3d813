// Package huffman builds per-plane Huffman codes over run-length symbols.
//
// Encoding a plane is a three step affair: count every (value, run-length)
// symbol across all of the plane's blocks, grow a tree by repeatedly merging
// the two lowest-frequency nodes, then hand out codewords by tree depth. The
// codewords are canonicalised so the decode key is just (symbol, length)
// pairs, and every block's symbol stream is rewritten as indices into that
// table.
package huffman

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/jpfielding/jpegenc.go/pkg/compress/rle"
)

// ErrInvariant reports an internal inconsistency: a merge that ran out of
// nodes, a symbol missing from its own table, or a code that cannot be
// represented. It always indicates a defect, never bad input pixels.
var ErrInvariant = errors.New("huffman: encoding invariant violated")

// ErrCorrupt is returned when packed bits do not decode against a table.
var ErrCorrupt = errors.New("huffman: corrupt bitstream")

// Symbol is the unit being coded.
type Symbol = rle.Run

// Frequencies counts occurrences of each distinct symbol. One table is built
// per plane per encode call and never shared.
type Frequencies map[Symbol]int

// Count tallies every symbol of every stream.
func Count(streams ...[]Symbol) Frequencies {
	f := Frequencies{}
	for _, s := range streams {
		f.Add(s)
	}
	return f
}

// Add tallies one stream.
func (f Frequencies) Add(stream []Symbol) {
	for _, s := range stream {
		f[s]++
	}
}

// Total is the number of symbols counted.
func (f Frequencies) Total() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

// Leaf is a symbol with its observed frequency.
type Leaf struct {
	Symbol Symbol
	Freq   int
}

// Sorted returns the leaves by descending frequency; ties fall back to
// symbol order so the result is reproducible.
func (f Frequencies) Sorted() []Leaf {
	leaves := make([]Leaf, 0, len(f))
	for s, c := range f {
		leaves = append(leaves, Leaf{Symbol: s, Freq: c})
	}
	slices.SortFunc(leaves, func(a, b Leaf) int {
		if c := cmp.Compare(b.Freq, a.Freq); c != 0 {
			return c
		}
		return compareSymbols(a.Symbol, b.Symbol)
	})
	return leaves
}

// compareSymbols orders by value, then by run length.
func compareSymbols(a, b Symbol) int {
	if c := cmp.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	return cmp.Compare(a.Length, b.Length)
}

// Encoded is the outcome of coding one plane.
type Encoded struct {
	Table   *Table
	Streams [][]int // per input stream, indices into Table.Entries
	Bits    []int   // per input stream, coded length in bits
}

// TotalBits sums the coded length of every stream.
func (e *Encoded) TotalBits() int {
	n := 0
	for _, b := range e.Bits {
		n += b
	}
	return n
}

// Encode codes a plane: streams holds the run-length symbols of each block in
// block order. The tree exists only for the duration of the call.
func Encode(streams [][]Symbol) (*Encoded, error) {
	tree, err := Build(Count(streams...))
	if err != nil {
		return nil, err
	}
	lengths, err := tree.Lengths()
	if err != nil {
		return nil, err
	}
	table, err := NewTable(lengths)
	if err != nil {
		return nil, err
	}

	out := &Encoded{
		Table:   table,
		Streams: make([][]int, len(streams)),
		Bits:    make([]int, len(streams)),
	}
	for i, s := range streams {
		idx, bits, err := table.Rewrite(s)
		if err != nil {
			return nil, fmt.Errorf("stream %d: %w", i, err)
		}
		out.Streams[i] = idx
		out.Bits[i] = bits
	}
	return out, nil
}
