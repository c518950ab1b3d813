package baseline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYCbCr_KnownColors(t *testing.T) {
	tests := []struct {
		name      string
		r, g, b   uint8
		y, cb, cr uint8
	}{
		{"black", 0, 0, 0, 0, 128, 128},
		{"red", 255, 0, 0, 76, 84, 255},
		{"green", 0, 255, 0, 149, 43, 21},
		{"blue", 0, 0, 255, 29, 255, 107},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, cb, cr := ycbcr(tt.r, tt.g, tt.b)
			assert.Equal(t, tt.y, y, "Y")
			assert.Equal(t, tt.cb, cb, "Cb")
			assert.Equal(t, tt.cr, cr, "Cr")
		})
	}
}

func TestYCbCr_Truncates(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				y, _, _ := ycbcr(uint8(r), uint8(g), uint8(b))
				exact := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
				// truncation never rounds up
				assert.LessOrEqual(t, float64(y), exact+1e-9, "rgb(%d,%d,%d)", r, g, b)
				assert.Less(t, exact-float64(y), 1+1e-9, "rgb(%d,%d,%d)", r, g, b)
			}
		}
	}
}

func TestTruncate_Clamps(t *testing.T) {
	assert.Equal(t, uint8(0), truncate(-4.2))
	assert.Equal(t, uint8(255), truncate(255.5))
	assert.Equal(t, uint8(254), truncate(254.99))
	assert.Equal(t, uint8(3), truncate(3.7))
}

func TestConvertRGB_RowMajor(t *testing.T) {
	src := NewRGB(3, 2)
	src.Set(2, 1, 255, 0, 0)

	dst := ConvertRGB(src)
	require.Len(t, dst.Y, 6)
	assert.Equal(t, uint8(76), dst.Y[1*3+2])
	assert.Equal(t, uint8(255), dst.Cr[1*3+2])
	for i := 0; i < 5; i++ {
		assert.Equal(t, uint8(0), dst.Y[i])
		assert.Equal(t, uint8(128), dst.Cb[i])
	}
}

func TestRGB_Validate(t *testing.T) {
	var nilImg *RGB
	assert.ErrorIs(t, nilImg.Validate(), ErrInvalidDimensions)
	assert.ErrorIs(t, (&RGB{Width: 0, Height: 4}).Validate(), ErrInvalidDimensions)
	assert.ErrorIs(t, (&RGB{Width: 2, Height: 2, Pix: make([]uint8, 11)}).Validate(), ErrInvalidDimensions)
	assert.ErrorIs(t, (&RGB{Width: 1 << 62, Height: 4}).Validate(), ErrInvalidDimensions)
	assert.ErrorIs(t, (&RGB{Width: 3, Height: math.MaxInt / 8}).Validate(), ErrInvalidDimensions)
	assert.NoError(t, NewRGB(2, 2).Validate())
}
