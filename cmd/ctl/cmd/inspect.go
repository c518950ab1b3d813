package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/jpegenc.go/pkg/artifact"
	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect cobra command
func NewInspectCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <artifact>",
		Short: "Verify and summarize an encoder sidecar",
		Long:  "Reads a sidecar written by encode --out, decodes every block bitstream back to quantized coefficients and reports per-plane statistics. --block dumps one block.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}
			plane, _ := cmd.Flags().GetString("plane")
			block, _ := cmd.Flags().GetInt("block")
			return runInspect(ctx, cmd.OutOrStdout(), args[0], format, plane, block)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.String("plane", "Y", "plane for --block (Y|Cb|Cr)")
	pf.Int("block", -1, "index of a block to dump, row-major within the plane")
	return cmd
}

func runInspect(ctx context.Context, out io.Writer, path, format, plane string, block int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h, img, err := artifact.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	// every block must expand back to a full set of coefficients
	for i := range img.Planes {
		p := &img.Planes[i]
		for b := range p.Blocks {
			if _, err := p.Quantized(b); err != nil {
				return fmt.Errorf("plane %s block %d: %w", p.Component, b, err)
			}
		}
	}
	slog.DebugContext(ctx, "verified artifact", slog.String("id", h.ID.String()))

	if block >= 0 {
		return dumpBlock(out, img, plane, block)
	}

	rep, err := newReport(img)
	if err != nil {
		return err
	}
	rep.Artifact, rep.ID = path, h.ID.String()
	return rep.write(out, format)
}

func dumpBlock(out io.Writer, img *baseline.Image, plane string, block int) error {
	var p *baseline.EncodedPlane
	for i := range img.Planes {
		if strings.EqualFold(img.Planes[i].Component.String(), plane) {
			p = &img.Planes[i]
		}
	}
	if p == nil {
		return fmt.Errorf("unknown plane %q (Y|Cb|Cr)", plane)
	}
	if block >= len(p.Blocks) {
		return fmt.Errorf("block index %d out of bounds (0-%d)", block, len(p.Blocks)-1)
	}

	runs, err := p.Runs(block)
	if err != nil {
		return err
	}
	z, err := p.Quantized(block)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Plane %s block %d (col %d, row %d): %d bits\n",
		p.Component, block, block%p.BlocksWide, block/p.BlocksWide, p.Blocks[block].Bits)
	fmt.Fprintf(out, "Runs: %v\n", runs)
	for r := 0; r < baseline.BlockSize; r++ {
		for c := 0; c < baseline.BlockSize; c++ {
			fmt.Fprintf(out, "%6d", z[r*baseline.BlockSize+c])
		}
		fmt.Fprintln(out)
	}
	return nil
}
