package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/target/trash-classifier/internal/errors"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 40, G: 160, B: 60, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func TestDecoder_PNG(t *testing.T) {
	data := encodePNG(t, 32, 16)

	img, err := Decoder{}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 16, img.Height)
	assert.Equal(t, data, img.Data)

	thumb, err := jpeg.Decode(bytes.NewReader(img.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), thumb.Bounds())
}

func TestDecoder_JPEGThumbnailIsBounded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(200, 100), nil))

	img, err := Decoder{ThumbnailMaxDim: 50}.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)

	thumb, err := jpeg.Decode(bytes.NewReader(img.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 50, thumb.Bounds().Dx())
	assert.Equal(t, 25, thumb.Bounds().Dy())
}

func TestDecoder_Rejects(t *testing.T) {
	truncated := encodePNG(t, 8, 8)
	truncated = truncated[:len(truncated)/2]

	tests := []struct {
		name  string
		data  []byte
		check func(error) bool
	}{
		{name: "empty", data: nil, check: apperrors.IsValidation},
		{name: "text", data: []byte("not an image"), check: apperrors.IsDecode},
		{name: "truncated png", data: truncated, check: apperrors.IsDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decoder{}.Decode(tt.data)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestDecoder_RejectsGIF(t *testing.T) {
	// Registering the GIF decoder in this test binary makes image.Decode succeed,
	// so the format check must still reject it.
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, solid(4, 4), nil))

	_, err := Decoder{}.Decode(buf.Bytes())
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
	assert.Contains(t, err.Error(), "gif")
}

// pngHeader returns a PNG signature and IHDR chunk claiming w×h 8-bit grayscale.
// No pixel data follows, so only the header is readable.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecoder_RejectsOversizedDimensions(t *testing.T) {
	data := pngHeader(50000, 50000)
	require.Less(t, len(data), 64)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 50000, cfg.Width)

	_, err = Decoder{}.Decode(data)
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
	assert.Contains(t, apperrors.UserMessage(err, ""), "50000x50000")
}

func TestDecoder_MaxPixels(t *testing.T) {
	data := encodePNG(t, 20, 20)

	_, err := Decoder{MaxPixels: 399}.Decode(data)
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))

	img, err := Decoder{MaxPixels: 400}.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Width)
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max, wantW, wantH int
	}{
		{w: 10, h: 10, max: 20, wantW: 10, wantH: 10},
		{w: 200, h: 100, max: 50, wantW: 50, wantH: 25},
		{w: 100, h: 400, max: 100, wantW: 25, wantH: 100},
		{w: 1000, h: 1, max: 10, wantW: 10, wantH: 1},
	}
	for _, tt := range tests {
		gotW, gotH := FitWithin(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, gotW)
		assert.Equal(t, tt.wantH, gotH)
	}
}
