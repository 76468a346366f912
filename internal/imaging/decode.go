package imaging

import (
	"bytes"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
)

// Layout is the per-pixel channel layout of a decoded image.
type Layout int

const (
	// LayoutGray is one luminance channel.
	LayoutGray Layout = iota + 1
	// LayoutGrayAlpha is luminance plus non-premultiplied alpha.
	LayoutGrayAlpha
	// LayoutRGB is three color channels, fully opaque.
	LayoutRGB
	// LayoutRGBA is three color channels plus alpha.
	LayoutRGBA
)

func (l Layout) String() string {
	switch l {
	case LayoutGray:
		return "gray"
	case LayoutGrayAlpha:
		return "gray+alpha"
	case LayoutRGB:
		return "rgb"
	case LayoutRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// Channels returns the number of channels stored per pixel.
func (l Layout) Channels() int {
	switch l {
	case LayoutGray:
		return 1
	case LayoutGrayAlpha:
		return 2
	case LayoutRGB:
		return 3
	case LayoutRGBA:
		return 4
	default:
		return 0
	}
}

// PixelBuffer is a decoded raster owned by a single pipeline invocation.
//
// Image keeps the concrete type chosen by the format decoder (*image.YCbCr for
// JPEG, *image.Paletted for GIF, and so on); Layout and Depth describe what it
// stores so callers need not type-switch themselves.
type PixelBuffer struct {
	Image  image.Image
	Width  int
	Height int
	Layout Layout
	// Depth is the number of bits per channel, 8 or 16.
	Depth  int
	Format Format
}

// DecodeOptions limits and adjusts decoding of untrusted payloads.
type DecodeOptions struct {
	// MaxPixels rejects images whose width*height exceeds it, before any pixel
	// data is decompressed. Zero disables the check.
	MaxPixels int64

	// AutoOrient applies the EXIF orientation tag of JPEG input, which may swap
	// width and height.
	AutoOrient bool
}

// Decode sniffs the container format of raw and decodes it into a PixelBuffer.
//
// raw is never modified. Every failure is returned as a DecodeFailure
// ProcessingError carrying the parser's diagnostic, including a panic raised
// inside a format decoder.
func Decode(raw []byte, opts DecodeOptions) (buf *PixelBuffer, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = decodeFailure(errors.Errorf("decoder panic: %v", r), "decode image")
		}
	}()

	cfg, format, err := sniff(raw)
	if err != nil {
		return nil, err
	}

	if opts.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > opts.MaxPixels {
		return nil, decodeFailure(
			errors.Errorf("image dimensions %dx%d exceed limit of %d pixels", cfg.Width, cfg.Height, opts.MaxPixels),
			"decode %s", format)
	}

	img, err := decodeImage(bytes.NewReader(raw))
	if err != nil {
		return nil, decodeFailure(err, "decode %s", format)
	}
	if opts.AutoOrient && format == FormatJPEG {
		img = applyOrientation(img, readOrientation(raw))
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, decodeFailure(errors.New("decoded image is empty"), "decode %s", format)
	}

	layout, depth := describe(img)
	return &PixelBuffer{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Layout: layout,
		Depth:  depth,
		Format: format,
	}, nil
}

// decodeImage runs the registered format decoder. It never starts goroutines,
// so a panicking decoder leaves nothing behind once Decode recovers.
var decodeImage = func(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

// EXIF orientation tag values.
const (
	orientationNormal      = 1
	orientationFlipH       = 2
	orientationRotate180   = 3
	orientationFlipV       = 4
	orientationTranspose   = 5
	orientationRotate90CW  = 6
	orientationTransverse  = 7
	orientationRotate90CCW = 8
)

// readOrientation returns the EXIF orientation of a JPEG payload, or
// orientationNormal when the tag is missing or unreadable.
func readOrientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return orientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orientationNormal
	}
	o, err := tag.Int(0)
	if err != nil || o < orientationNormal || o > orientationRotate90CCW {
		return orientationNormal
	}
	return o
}

// applyOrientation transforms img so that it displays upright.
func applyOrientation(img image.Image, o int) image.Image {
	switch o {
	case orientationFlipH:
		return imaging.FlipH(img)
	case orientationRotate180:
		return imaging.Rotate180(img)
	case orientationFlipV:
		return imaging.FlipV(img)
	case orientationTranspose:
		return imaging.Transpose(img)
	case orientationRotate90CW:
		return imaging.Rotate270(img)
	case orientationTransverse:
		return imaging.Transverse(img)
	case orientationRotate90CCW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// describe derives the channel layout and bit depth from the decoder's
// concrete image type.
func describe(img image.Image) (Layout, int) {
	switch m := img.(type) {
	case *image.Gray:
		return LayoutGray, 8
	case *image.Gray16:
		return LayoutGray, 16
	case *image.Alpha:
		return LayoutGrayAlpha, 8
	case *image.Alpha16:
		return LayoutGrayAlpha, 16
	case *image.YCbCr, *image.CMYK:
		return LayoutRGB, 8
	case *image.NRGBA:
		// PNG gray+alpha decodes to NRGBA.
		if !m.Opaque() && isNeutral(m) {
			return LayoutGrayAlpha, 8
		}
		return colorLayout(m), 8
	case *image.NRGBA64:
		// 16-bit PNG gray+alpha decodes to NRGBA64.
		if !m.Opaque() && isNeutral16(m) {
			return LayoutGrayAlpha, 16
		}
		return colorLayout(m), 16
	case *image.RGBA64:
		return colorLayout(m), 16
	default:
		return colorLayout(img), 8
	}
}

func colorLayout(img image.Image) Layout {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return LayoutRGB
	}
	return LayoutRGBA
}

// isNeutral reports whether every pixel has equal red, green and blue.
func isNeutral(m *image.NRGBA) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			if row[i] != row[i+1] || row[i] != row[i+2] {
				return false
			}
		}
	}
	return true
}

// isNeutral16 is isNeutral for 16-bit samples.
func isNeutral16(m *image.NRGBA64) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 8 {
			if row[i] != row[i+2] || row[i] != row[i+4] || row[i+1] != row[i+3] || row[i+1] != row[i+5] {
				return false
			}
		}
	}
	return true
}
