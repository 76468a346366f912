package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ContentTypePNG is the content type of every successful pipeline result,
// whatever the input format was.
const ContentTypePNG = "image/png"

// ParseCompression maps "default", "none", "speed" or "best" to a PNG
// compression level. All levels are lossless.
func ParseCompression(s string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed", "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("unknown png compression %q", s)
	}
}

// Encode serializes gray as an 8-bit grayscale PNG.
//
// Encoding is deterministic: the same image and level always produce the same
// bytes. Failures are EncodeFailure ProcessingErrors.
func Encode(gray *image.Gray, level png.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, gray, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the PNG encoding of gray to w.
func EncodeTo(w io.Writer, gray *image.Gray, level png.CompressionLevel) error {
	if gray == nil {
		return encodeFailure(errors.New("nil image"), "encode png")
	}
	if err := imaging.Encode(w, gray, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		return encodeFailure(err, "encode png")
	}
	return nil
}
