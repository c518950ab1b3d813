package artifact

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/jpfielding/jpegenc.go/pkg/compress/baseline"
	"github.com/jpfielding/jpegenc.go/pkg/util"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeNoise(t testing.TB, seed int64, w, h, quality int) *baseline.Image {
	t.Helper()
	src := baseline.NewRGB(w, h)
	rand.New(rand.NewSource(seed)).Read(src.Pix)
	img, err := baseline.Encode(context.Background(), src, &baseline.Options{Quality: quality})
	require.NoError(t, err)
	return img
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		quality int
	}{
		{"single pixel", 1, 1, 50},
		{"odd", 13, 9, 75},
		{"wide", 64, 8, 10},
		{"fine", 24, 24, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := encodeNoise(t, int64(tt.w*tt.h), tt.w, tt.h, tt.quality)

			var buf bytes.Buffer
			id, err := Write(&buf, img)
			require.NoError(t, err)

			h, back, err := Read(&buf)
			require.NoError(t, err)
			assert.Equal(t, id, h.ID)
			assert.Equal(t, byte(version), h.Version)
			assert.Equal(t, img, back)
		})
	}
}

func TestWrite_IDIsContentAddressed(t *testing.T) {
	a, err := Write(&bytes.Buffer{}, encodeNoise(t, 1, 16, 16, 50))
	require.NoError(t, err)
	b, err := Write(&bytes.Buffer{}, encodeNoise(t, 1, 16, 16, 50))
	require.NoError(t, err)
	c, err := Write(&bytes.Buffer{}, encodeNoise(t, 2, 16, 16, 50))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestWrite_RejectsBadImage(t *testing.T) {
	img := encodeNoise(t, 3, 8, 8, 50)
	img.Quality = 0
	_, err := Write(&bytes.Buffer{}, img)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestReadHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, encodeNoise(t, 4, 8, 8, 50))
	require.NoError(t, err)
	data := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'X'
		_, err := ReadHeader(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("future version", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(magic)] = version + 1
		_, err := ReadHeader(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrVersion)
	})

	t.Run("short", func(t *testing.T) {
		_, err := ReadHeader(bytes.NewReader(data[:6]))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestRead_IDMismatch(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, encodeNoise(t, 5, 8, 8, 50))
	require.NoError(t, err)
	data := buf.Bytes()
	data[len(magic)+1] ^= 0xFF

	_, _, err = Read(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestReadBody_Truncated(t *testing.T) {
	var body bytes.Buffer
	require.NoError(t, writeBody(&body, encodeNoise(t, 6, 9, 9, 50)))
	full := body.Bytes()

	for n := 0; n < len(full); n++ {
		_, err := readBody(bytes.NewReader(full[:n]))
		require.ErrorIs(t, err, ErrInvalidFormat, "prefix %d of %d", n, len(full))
	}

	_, err := readBody(bytes.NewReader(append(bytes.Clone(full), 0)))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestReadBody_Corrupt(t *testing.T) {
	var body bytes.Buffer
	require.NoError(t, writeBody(&body, encodeNoise(t, 7, 8, 8, 50)))
	full := body.Bytes()

	// header: width, height, quality; then plane 0: component, four dims
	const quality = 8
	const firstQuant = 9 + 1 + 16

	tests := []struct {
		name   string
		offset int
		value  byte
	}{
		{"zero quality", quality, 0},
		{"component swapped", 9, byte(baseline.ComponentCr)},
		{"grid mismatch", 9 + 1 + 12 + 3, 7},
		{"zero quant step", firstQuant, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := bytes.Clone(full)
			bad[tt.offset] = tt.value
			_, err := readBody(bytes.NewReader(bad))
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

// frame wraps a raw body the way Write does, with a matching id.
func frame(t *testing.T, body []byte) []byte {
	t.Helper()
	id := util.ContentUUID(body)
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(version)
	buf.Write(id[:])
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(body)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

// hugePlaneBody declares a 65536x65536 image whose Y plane claims
// tableEntries table entries and optionally a full block grid, with nothing
// behind either count.
func hugePlaneBody(tableEntries uint32, withBlockCount bool) []byte {
	var body bytes.Buffer
	put32(&body, maxDimension)
	put32(&body, maxDimension)
	body.WriteByte(50)
	body.WriteByte(byte(baseline.ComponentY))
	put32(&body, maxDimension)
	put32(&body, maxDimension)
	put32(&body, maxDimension/baseline.BlockSize)
	put32(&body, maxDimension/baseline.BlockSize)
	for i := 0; i < 64; i++ {
		body.WriteByte(16)
	}
	put32(&body, tableEntries)
	if withBlockCount {
		put32(&body, (maxDimension/baseline.BlockSize)*(maxDimension/baseline.BlockSize))
	}
	return body.Bytes()
}

func TestRead_CountsBoundedByBody(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"table entries", hugePlaneBody(1<<28, false)},
		{"block grid", hugePlaneBody(0, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBody(bytes.NewReader(tt.body))
			assert.ErrorIs(t, err, ErrInvalidFormat)

			_, _, err = Read(bytes.NewReader(frame(t, tt.body)))
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.Contains(t, err.Error(), "left")
		})
	}
}

func BenchmarkWrite(b *testing.B) {
	img := encodeNoise(b, 8, 128, 128, 75)
	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if _, err := Write(&buf, img); err != nil {
			b.Fatal(err)
		}
	}
}
