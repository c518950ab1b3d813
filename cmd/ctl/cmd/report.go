package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegenc.go/pkg/util"
)

type planeReport struct {
	Component  string `json:"component"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Blocks     int    `json:"blocks"`
	Symbols    int    `json:"symbols"`
	TableSize  int    `json:"tableSize"`
	MaxCodeLen int    `json:"maxCodeLen"`
	Bits       int    `json:"bits"`
	Digest     string `json:"digest"`
}

type report struct {
	ID       string        `json:"id,omitempty"`
	Input    string        `json:"input,omitempty"`
	Format   string        `json:"format,omitempty"`
	Artifact string        `json:"artifact,omitempty"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Quality  int           `json:"quality"`
	Bits     int           `json:"bits"`
	Bytes    int           `json:"bytes"`
	Ratio    float64       `json:"ratio"`
	Planes   []planeReport `json:"planes"`
}

// newReport summarizes img. The digest of a plane covers its packed block
// bitstreams, so a sidecar and the encode that produced it report the same.
func newReport(img *baseline.Image) (*report, error) {
	r := &report{
		Width:   img.Width,
		Height:  img.Height,
		Quality: img.Quality,
		Bits:    img.Bits(),
		Bytes:   (img.Bits() + 7) / 8,
		Ratio:   img.Ratio(),
	}
	for i := range img.Planes {
		p := &img.Planes[i]
		packed := make([][]byte, len(p.Blocks))
		for b := range p.Blocks {
			data, err := p.Pack(b)
			if err != nil {
				return nil, fmt.Errorf("plane %s: %w", p.Component, err)
			}
			packed[b] = data
		}
		maxLen := 0
		if n := p.Table.Len(); n > 0 {
			maxLen = p.Table.Entries[n-1].Code.Len
		}
		r.Planes = append(r.Planes, planeReport{
			Component:  p.Component.String(),
			Width:      p.Width,
			Height:     p.Height,
			Blocks:     len(p.Blocks),
			Symbols:    p.Symbols(),
			TableSize:  p.Table.Len(),
			MaxCodeLen: maxLen,
			Bits:       p.Bits(),
			Digest:     util.Md5ThenHex(packed...),
		})
	}
	return r, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (text|json)", format)
	}
}

func (r *report) write(w io.Writer, format string) error {
	switch format {
	case "text":
		if r.Input != "" {
			fmt.Fprintf(w, "Input: %s (%s)\n", r.Input, r.Format)
		}
		if r.Artifact != "" {
			fmt.Fprintf(w, "Artifact: %s\n", r.Artifact)
		}
		if r.ID != "" {
			fmt.Fprintf(w, "ID: %s\n", r.ID)
		}
		fmt.Fprintf(w, "Size: %dx%d\n", r.Width, r.Height)
		fmt.Fprintf(w, "Quality: %d\n", r.Quality)
		fmt.Fprintf(w, "Coded: %d bits (%d bytes), ratio %.2fx\n", r.Bits, r.Bytes, r.Ratio)
		for _, p := range r.Planes {
			fmt.Fprintf(w, "\n--- Plane %s ---\n", p.Component)
			fmt.Fprintf(w, "Size: %dx%d, %d blocks\n", p.Width, p.Height, p.Blocks)
			fmt.Fprintf(w, "Symbols: %d coded, %d distinct, longest code %d bits\n", p.Symbols, p.TableSize, p.MaxCodeLen)
			fmt.Fprintf(w, "Bits: %d\n", p.Bits)
			fmt.Fprintf(w, "Digest: %s\n", p.Digest)
		}
		return nil
	case "json":
		j, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(j))
		return err
	default:
		return checkFormat(format)
	}
}
