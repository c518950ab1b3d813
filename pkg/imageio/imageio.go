// Package imageio loads raster files into the encoder's interleaved RGB form.
// Any format registered with the image package decodes: PNG, JPEG, GIF, BMP,
// TIFF, WebP and QOI are linked in here.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInput reports a raster that could not be opened or decoded.
var ErrInput = errors.New("imageio: unreadable input")

// Load reads and decodes the image at path.
func Load(path string) (*baseline.RGB, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInput, err)
	}
	defer f.Close()
	img, format, err := Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return img, format, nil
}

// Decode reads any registered image format from r and returns its pixels
// along with the format name.
func Decode(r io.Reader) (*baseline.RGB, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInput, err)
	}
	return FromImage(img), format, nil
}

// FromImage copies img into an RGB raster, dropping alpha. Color is taken
// premultiplied, as image/color reports it, so translucent pixels come out
// composited over black whatever the concrete image type.
func FromImage(img image.Image) *baseline.RGB {
	b := img.Bounds()
	dst := baseline.NewRGB(b.Dx(), b.Dy())

	// fast paths for the common decoder outputs
	switch src := img.(type) {
	case *image.RGBA:
		for row := 0; row < dst.Height; row++ {
			in := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+row):]
			out := dst.Pix[row*dst.Width*3:]
			for col := 0; col < dst.Width; col++ {
				copy(out[col*3:col*3+3], in[col*4:col*4+3])
			}
		}
		return dst
	case *image.NRGBA:
		for row := 0; row < dst.Height; row++ {
			in := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+row):]
			out := dst.Pix[row*dst.Width*3:]
			for col := 0; col < dst.Width; col++ {
				px := in[col*4 : col*4+4 : col*4+4]
				a := uint32(px[3]) * 0x101
				for c := 0; c < 3; c++ {
					out[col*3+c] = premultiply(px[c], a)
				}
			}
		}
		return dst
	}

	for row := 0; row < dst.Height; row++ {
		for col := 0; col < dst.Width; col++ {
			r, g, bl, _ := img.At(b.Min.X+col, b.Min.Y+row).RGBA()
			dst.Set(col, row, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return dst
}

// premultiply scales an 8-bit straight sample by a 16-bit alpha with the
// same arithmetic as color.NRGBA.RGBA.
func premultiply(v uint8, a uint32) uint8 {
	return uint8(uint32(v) * 0x101 * a / 0xffff >> 8)
}
