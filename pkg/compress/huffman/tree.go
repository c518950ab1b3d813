package huffman

import "fmt"

// maxCodeLen bounds codeword length to what a Code can hold.
const maxCodeLen = 64

// node lives in the tree's arena. Children are handles into the same arena;
// leaves have both set to -1. Parents own children, nothing points back up.
type node struct {
	sym         Symbol
	freq        int
	left, right int
}

func (n node) leaf() bool {
	return n.left < 0
}

// Tree is a Huffman tree stored as an arena of nodes.
type Tree struct {
	nodes []node
	root  int // -1 when empty
}

// Build grows a tree by the greedy lowest-two merge. Leaves start in
// ascending frequency order (the reverse of Frequencies.Sorted). Each merged
// node is placed after every node whose frequency does not exceed its own, so
// ties resolve the same way on every run.
//
// No symbols gives an empty tree. A single symbol gives a lone leaf root.
func Build(freqs Frequencies) (*Tree, error) {
	leaves := freqs.Sorted()
	t := &Tree{
		nodes: make([]node, 0, 2*len(leaves)),
		root:  -1,
	}
	if len(leaves) == 0 {
		return t, nil
	}

	queue := make([]int, 0, len(leaves))
	for i := len(leaves) - 1; i >= 0; i-- {
		if leaves[i].Freq <= 0 {
			return nil, fmt.Errorf("%w: symbol %v has frequency %d", ErrInvariant, leaves[i].Symbol, leaves[i].Freq)
		}
		queue = append(queue, t.add(node{sym: leaves[i].Symbol, freq: leaves[i].Freq, left: -1, right: -1}))
	}

	for len(queue) > 1 {
		lo, hi := queue[0], queue[1]
		queue = queue[2:]
		parent := t.add(node{
			freq:  t.nodes[lo].freq + t.nodes[hi].freq,
			left:  lo,
			right: hi,
		})
		queue = t.insert(queue, parent)
	}
	if len(queue) != 1 {
		return nil, fmt.Errorf("%w: merge finished with %d nodes", ErrInvariant, len(queue))
	}
	t.root = queue[0]
	return t, nil
}

func (t *Tree) add(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// insert places h into the ascending queue by linear scan.
func (t *Tree) insert(queue []int, h int) []int {
	f := t.nodes[h].freq
	pos := len(queue)
	for i, q := range queue {
		if t.nodes[q].freq > f {
			pos = i
			break
		}
	}
	queue = append(queue, 0)
	copy(queue[pos+1:], queue[pos:])
	queue[pos] = h
	return queue
}

// Empty reports whether the tree has no symbols.
func (t *Tree) Empty() bool {
	return t.root < 0
}

// Weight is the root frequency, i.e. the number of symbols counted.
func (t *Tree) Weight() int {
	if t.Empty() {
		return 0
	}
	return t.nodes[t.root].freq
}

// Leaves returns the number of distinct symbols.
func (t *Tree) Leaves() int {
	n := 0
	for _, nd := range t.nodes {
		if nd.leaf() {
			n++
		}
	}
	return n
}

// Codes assigns each leaf the path from the root: 0 for the left edge, 1 for
// the right. A lone root leaf gets the 1-bit code 0.
func (t *Tree) Codes() (map[Symbol]Code, error) {
	codes := make(map[Symbol]Code, len(t.nodes)/2+1)
	if t.Empty() {
		return codes, nil
	}
	if t.nodes[t.root].leaf() {
		codes[t.nodes[t.root].sym] = Code{Bits: 0, Len: 1}
		return codes, nil
	}

	type frame struct {
		h    int
		code Code
	}
	stack := []frame{{h: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nd := t.nodes[f.h]
		if nd.leaf() {
			if _, dup := codes[nd.sym]; dup {
				return nil, fmt.Errorf("%w: symbol %v appears twice", ErrInvariant, nd.sym)
			}
			codes[nd.sym] = f.code
			continue
		}
		if f.code.Len >= maxCodeLen {
			return nil, fmt.Errorf("%w: code length exceeds %d bits", ErrInvariant, maxCodeLen)
		}
		stack = append(stack,
			frame{h: nd.right, code: f.code.append(1)},
			frame{h: nd.left, code: f.code.append(0)},
		)
	}
	return codes, nil
}

// Lengths returns the codeword length (leaf depth) of every symbol.
func (t *Tree) Lengths() (map[Symbol]int, error) {
	codes, err := t.Codes()
	if err != nil {
		return nil, err
	}
	lengths := make(map[Symbol]int, len(codes))
	for s, c := range codes {
		lengths[s] = c.Len
	}
	return lengths, nil
}
