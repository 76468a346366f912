package imaging

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Format names a container format recognised from the leading bytes of a payload.
type Format string

// Supported input formats. The names match the ones the decoders register
// with the image package.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// SupportedFormats lists every input format the decoder accepts, in no
// particular order of preference. Output is always PNG.
var SupportedFormats = []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF, FormatWebP}

func lookupFormat(name string) (Format, bool) {
	for _, f := range SupportedFormats {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// sniff identifies the container from content and reads its header.
// Only the header is parsed; pixel data is left alone.
func sniff(raw []byte) (image.Config, Format, error) {
	if len(raw) == 0 {
		return image.Config{}, "", decodeFailure(ErrEmptyInput, "read image header")
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return image.Config{}, "", decodeFailure(err, "read image header")
	}

	format, ok := lookupFormat(name)
	if !ok {
		return image.Config{}, "", decodeFailure(errors.Errorf("unsupported format %q", name), "read image header")
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", decodeFailure(
			errors.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height), "read %s header", format)
	}

	return cfg, format, nil
}

// ImageInfo contains metadata about an encoded image payload.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the container format detected from the payload signature.
	Format Format `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the encoded color model carries transparency.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the length of the encoded payload.
	SizeBytes int64 `json:"size_bytes"`
}

// Inspect reads only the image header and returns its metadata.
//
// The format is determined from the payload signature, never from a file name
// or a caller hint. Errors are DecodeFailure ProcessingErrors, exactly as
// Decode would report for the same bytes.
//
// # Color Depth Detection
//
// Color depth and alpha are derived from the header's color model:
//   - Gray16, RGBA64, NRGBA64, Alpha16 -> "16-bit"
//   - All other models -> "8-bit"
//   - NRGBA, NRGBA64, Alpha, Alpha16, NYCbCrA, and palettes with a translucent
//     entry report HasAlpha
func Inspect(raw []byte) (*ImageInfo, error) {
	cfg, format, err := sniff(raw)
	if err != nil {
		return nil, err
	}

	depth := "8-bit"
	switch cfg.ColorModel {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model, color.Alpha16Model:
		depth = "16-bit"
	}

	return &ImageInfo{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Format:     format,
		ColorDepth: depth,
		HasAlpha:   modelHasAlpha(cfg.ColorModel),
		SizeBytes:  int64(len(raw)),
	}, nil
}

func modelHasAlpha(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model, color.NYCbCrAModel:
		return true
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
