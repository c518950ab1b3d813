package baseline

// ZigZag maps a position in the zigzag sequence to its row-major index.
// Diagonals i+j are visited in increasing order, alternating direction,
// from (0,0) to (7,7).
var ZigZag = zigzagOrder()

// unzigzag is the inverse permutation of ZigZag.
var unzigzag = func() (inv [64]int) {
	for k, idx := range ZigZag {
		inv[idx] = k
	}
	return inv
}()

func zigzagOrder() (order [64]int) {
	k := 0
	for d := 0; d < 2*BlockSize-1; d++ {
		lo := max(0, d-(BlockSize-1))
		hi := min(d, BlockSize-1)
		if d%2 == 0 {
			// up and to the right: row falls
			for row := hi; row >= lo; row-- {
				order[k] = row*BlockSize + (d - row)
				k++
			}
		} else {
			for row := lo; row <= hi; row++ {
				order[k] = row*BlockSize + (d - row)
				k++
			}
		}
	}
	return order
}

// Zigzag reorders a block into its 1-D frequency sequence.
func Zigzag(q *Quantized) [64]int32 {
	var seq [64]int32
	for k, idx := range ZigZag {
		seq[k] = q[idx]
	}
	return seq
}

// Unzigzag restores the row-major layout of a zigzag sequence.
func Unzigzag(seq *[64]int32) Quantized {
	var q Quantized
	for idx, k := range unzigzag {
		q[idx] = seq[k]
	}
	return q
}
