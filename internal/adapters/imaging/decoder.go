// Package imaging validates uploaded images and renders display thumbnails.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"

	apperrors "github.com/target/trash-classifier/internal/errors"
	"github.com/target/trash-classifier/internal/ports"
)

// DefaultThumbnailMaxDim is the longest edge of generated thumbnails.
const DefaultThumbnailMaxDim = 640

// DefaultMaxPixels bounds width×height of an accepted upload (40 megapixels).
const DefaultMaxPixels = 40_000_000

// mimeTypes maps image.Decode format names to the accepted upload types.
//
//nolint:gochecknoglobals // read-only lookup table
var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// Decoder accepts JPEG and PNG bytes. The original bytes are forwarded to the model unchanged.
type Decoder struct {
	// ThumbnailMaxDim bounds the thumbnail's longest edge; zero selects DefaultThumbnailMaxDim.
	ThumbnailMaxDim int
	// MaxPixels bounds width×height read from the header; zero selects DefaultMaxPixels.
	MaxPixels int
}

// Decode parses data fully so truncated or corrupt uploads are rejected.
// The header is checked first; oversized images are refused before any pixel is allocated.
func (d Decoder) Decode(data []byte) (ports.Image, error) {
	if len(data) == 0 {
		return ports.Image{}, apperrors.ValidationField("image", "Please upload an image.")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ports.Image{}, apperrors.Wrap(err, apperrors.ErrCodeDecode,
			"The uploaded file could not be read as a JPG or PNG image.")
	}
	mime, ok := mimeTypes[format]
	if !ok {
		return ports.Image{}, apperrors.Wrapf(fmt.Errorf("format %q", format), apperrors.ErrCodeDecode,
			"Unsupported image type %q. Please upload a JPG or PNG image.", format)
	}
	if err := d.checkDimensions(cfg.Width, cfg.Height); err != nil {
		return ports.Image{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ports.Image{}, apperrors.Wrap(err, apperrors.ErrCodeDecode,
			"The uploaded file could not be read as a JPG or PNG image.")
	}

	thumb, err := d.thumbnail(img)
	if err != nil {
		return ports.Image{}, apperrors.Wrap(err, apperrors.ErrCodeDecode, "The uploaded image could not be previewed.")
	}

	b := img.Bounds()
	return ports.Image{
		Data:      data,
		MIMEType:  mime,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Thumbnail: thumb,
	}, nil
}

func (d Decoder) checkDimensions(w, h int) error {
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if w <= 0 || h <= 0 || int64(w)*int64(h) > int64(limit) {
		return apperrors.Wrapf(fmt.Errorf("dimensions %dx%d exceed %d pixels", w, h, limit),
			apperrors.ErrCodeDecode,
			"The image is %dx%d pixels, which is too large. Please upload a smaller image.", w, h)
	}
	return nil
}

func (d Decoder) thumbnail(src image.Image) ([]byte, error) {
	maxDim := d.ThumbnailMaxDim
	if maxDim <= 0 {
		maxDim = DefaultThumbnailMaxDim
	}

	w, h := FitWithin(src.Bounds().Dx(), src.Bounds().Dy(), maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// FitWithin scales w×h down so neither edge exceeds maxDim, keeping the aspect ratio.
// Images already within bounds are returned unchanged. Edges never drop below 1.
func FitWithin(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
