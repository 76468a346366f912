package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// createPattern returns an opaque image split into red, green, blue and white quadrants.
func createPattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.RGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255} // Red
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255} // Green
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255} // Blue
			default:
				c = color.RGBA{255, 255, 255, 255} // White
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// createGradient returns a grayscale image whose samples cover 0..255.
func createGradient(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}
	return img
}

// encodeAs serializes img in the given container format.
func encodeAs(t *testing.T, f Format, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, nil)
	default:
		t.Fatalf("no test encoder for %s", f)
	}
	require.NoError(t, err, "encoding %s fixture", f)
	return buf.Bytes()
}

// decodePNG decodes pipeline output, failing the test if it is not a PNG.
func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "output is not a valid PNG")
	return img
}

// webpPixel is a 1x1 lossless WebP with an alpha channel.
const webpPixel = "RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00\x2f\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00"

// withOrientation inserts an APP1 EXIF segment carrying orientation o right
// after the SOI marker of jpg.
func withOrientation(t *testing.T, jpg []byte, o uint16) []byte {
	t.Helper()
	require.True(t, len(jpg) > 2 && jpg[0] == 0xFF && jpg[1] == 0xD8, "not a JPEG")

	tiffBlock := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, // little endian, IFD0 at offset 8
		0x01, 0x00, // one entry
		0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, byte(o), byte(o >> 8), 0x00, 0x00, // Orientation, SHORT, count 1
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiffBlock...)
	size := len(payload) + 2

	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(size >> 8), byte(size)}
	out = append(out, payload...)
	return append(out, jpg[2:]...)
}

// swapDecoder replaces the full-image decoder for the duration of the test.
func swapDecoder(t *testing.T, fn func(io.Reader) (image.Image, error)) {
	t.Helper()
	orig := decodeImage
	decodeImage = fn
	t.Cleanup(func() { decodeImage = orig })
}
