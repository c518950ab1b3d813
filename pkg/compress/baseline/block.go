package baseline

// BlockSize is the edge length of a transform block.
const BlockSize = 8

// Block is an 8x8 group of samples, row-major.
type Block [64]uint8

// BlockGrid returns how many blocks cover a plane horizontally and vertically.
func BlockGrid(width, height int) (wide, high int) {
	return (width + BlockSize - 1) / BlockSize, (height + BlockSize - 1) / BlockSize
}

// Split partitions a plane into blocks, left to right then top to bottom.
// Positions past the plane edge replicate the nearest in-bounds sample.
func Split(p Plane) []Block {
	wide, high := BlockGrid(p.Width, p.Height)
	blocks := make([]Block, 0, wide*high)
	for by := 0; by < high; by++ {
		for bx := 0; bx < wide; bx++ {
			var b Block
			for r := 0; r < BlockSize; r++ {
				for c := 0; c < BlockSize; c++ {
					b[r*BlockSize+c] = p.At(bx*BlockSize+c, by*BlockSize+r)
				}
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}
