package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Luma selects the formula that collapses red, green and blue into one
// luminance sample. A process picks one and applies it to every request.
type Luma int

const (
	// LumaBT601 weighs gamma-encoded channels with ITU-R BT.601:
	// 0.299*R + 0.587*G + 0.114*B. This is the default.
	LumaBT601 Luma = iota
	// LumaBT709 weighs gamma-encoded channels with ITU-R BT.709:
	// 0.2126*R + 0.7152*G + 0.0722*B.
	LumaBT709
	// LumaAverage is the plain mean of the three channels.
	LumaAverage
	// LumaLinear computes CIE relative luminance in linear sRGB and encodes the
	// result back with the sRGB transfer curve.
	LumaLinear
)

// Fixed-point weights, 16 fractional bits. Each triple sums to 1<<16 so that
// a neutral pixel keeps its exact value.
var lumaWeights = map[Luma][3]uint32{
	LumaBT601:   {19595, 38470, 7471},
	LumaBT709:   {13933, 46871, 4732},
	LumaAverage: {21845, 21846, 21845},
}

func (l Luma) String() string {
	switch l {
	case LumaBT601:
		return "bt601"
	case LumaBT709:
		return "bt709"
	case LumaAverage:
		return "average"
	case LumaLinear:
		return "linear"
	default:
		return fmt.Sprintf("Luma(%d)", int(l))
	}
}

// ParseLuma maps a formula name ("bt601", "bt709", "average", "linear") to a Luma.
func ParseLuma(s string) (Luma, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bt601", "rec601":
		return LumaBT601, nil
	case "bt709", "rec709":
		return LumaBT709, nil
	case "average", "mean":
		return LumaAverage, nil
	case "linear":
		return LumaLinear, nil
	default:
		return LumaBT601, fmt.Errorf("unknown luma formula %q", s)
	}
}

func (l Luma) pixelFunc() func(r, g, b uint8) uint8 {
	if l == LumaLinear {
		return linearLuminance
	}

	w, ok := lumaWeights[l]
	if !ok {
		w = lumaWeights[LumaBT601]
	}
	wr, wg, wb := w[0], w[1], w[2]
	return func(r, g, b uint8) uint8 {
		return uint8((wr*uint32(r) + wg*uint32(g) + wb*uint32(b) + 1<<15) >> 16)
	}
}

// srgbToLinear maps each 8-bit sRGB value to linear light.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		c := colorful.Color{R: float64(i) / 255}
		srgbToLinear[i], _, _ = c.LinearRgb()
	}
}

func linearLuminance(r, g, b uint8) uint8 {
	y := 0.2126*srgbToLinear[r] + 0.7152*srgbToLinear[g] + 0.0722*srgbToLinear[b]
	v, _, _ := colorful.LinearRgb(y, y, y).Clamped().RGB255()
	return v
}

// ToGrayscale converts buf into a single-channel luminance image.
//
// The result has origin (0,0), the same width and height as buf and one
// sample per source pixel in row-major order. Source channels are read as
// non-premultiplied 8-bit values and alpha is discarded, so a translucent pixel
// keeps the luminance of its color. 16-bit sources are reduced to 8 bits first.
//
// Rows are split across goroutines; each output row is written by exactly one
// of them, so the result does not depend on scheduling.
func ToGrayscale(buf *PixelBuffer, luma Luma) *image.Gray {
	src := imaging.Clone(buf.Image)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	lum := luma.pixelFunc()

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			s := src.Pix[y*src.Stride : y*src.Stride+w*4]
			d := dst.Pix[y*dst.Stride : y*dst.Stride+w]
			for x := range d {
				i := x * 4
				d[x] = lum(s[i], s[i+1], s[i+2])
			}
		}
	})

	return dst
}
