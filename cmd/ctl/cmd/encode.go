package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jpfielding/jpegenc.go/pkg/artifact"
	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegenc.go/pkg/imageio"
	"github.com/jpfielding/jpegenc.go/pkg/logging"
	"github.com/spf13/cobra"
)

// NewEncodeCmd runs the encoder over one image
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <path>",
		Short: "Encode an image and report per-plane statistics",
		Long:  "Loads an image (a file path, file:// URI, http(s) URL, or - for stdin), runs the baseline encoder and reports coded sizes. With --out the encoder output is also written as a sidecar for inspect.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quality, _ := cmd.Flags().GetInt("quality")
			workers, _ := cmd.Flags().GetInt("workers")
			out, _ := cmd.Flags().GetString("out")
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format); err != nil {
				return err
			}

			opts := baseline.DefaultOptions()
			opts.Quality = quality
			opts.Workers = workers
			return runEncode(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts, out, format)
		},
	}

	pf := cmd.PersistentFlags()
	pf.IntP("quality", "q", baseline.DefaultOptions().Quality, "quality factor 1-100, 50 uses the base tables as-is")
	pf.Int("workers", 0, "block workers per plane (0 = one per CPU)")
	pf.StringP("out", "o", "", "write the encoder output sidecar to this path")
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}

func runEncode(ctx context.Context, stdin io.Reader, stdout io.Writer, path string, opts *baseline.Options, outPath, format string) error {
	ctx = logging.AppendCtx(ctx, slog.String("input", path))

	src, imgFormat, err := loadInput(ctx, stdin, path)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "loaded image",
		slog.String("format", imgFormat),
		slog.Int("width", src.Width),
		slog.Int("height", src.Height))

	start := time.Now()
	img, err := baseline.Encode(ctx, src, opts)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	slog.InfoContext(ctx, "encoded image",
		slog.Int("quality", img.Quality),
		slog.Int("bits", img.Bits()),
		slog.Duration("elapsed", time.Since(start)))

	rep, err := newReport(img)
	if err != nil {
		return err
	}
	rep.Input, rep.Format = path, imgFormat

	if outPath != "" {
		id, err := writeArtifact(outPath, img)
		if err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		rep.Artifact, rep.ID = outPath, id.String()
		slog.InfoContext(ctx, "wrote artifact", slog.String("path", outPath), slog.String("id", rep.ID))
	}
	return rep.write(stdout, format)
}

// loadInput accepts a path, a file:// URI, an http(s) URL, or - for stdin.
func loadInput(ctx context.Context, stdin io.Reader, path string) (*baseline.RGB, string, error) {
	path = strings.TrimPrefix(path, "file://")
	switch {
	case path == "-":
		return imageio.Decode(stdin)
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", imageio.ErrInput, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("%w: failed to download: %w", imageio.ErrInput, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("%w: %s: %s", imageio.ErrInput, path, resp.Status)
		}
		return imageio.Decode(resp.Body)
	default:
		return imageio.Load(path)
	}
}

// writeArtifact lands the sidecar with a rename so a failed encode never
// leaves a partial file at path.
func writeArtifact(path string, img *baseline.Image) (uuid.UUID, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return uuid.Nil, err
	}
	defer os.Remove(tmp.Name())

	id, err := artifact.Write(tmp, img)
	if err != nil {
		tmp.Close()
		return uuid.Nil, err
	}
	if err := tmp.Close(); err != nil {
		return uuid.Nil, err
	}
	return id, os.Rename(tmp.Name(), path)
}
