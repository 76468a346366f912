package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLumas = []Luma{LumaBT601, LumaBT709, LumaAverage, LumaLinear}

func bufferOf(img image.Image) *PixelBuffer {
	layout, depth := describe(img)
	return &PixelBuffer{
		Image:  img,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Layout: layout,
		Depth:  depth,
	}
}

func TestToGrayscale_PrimaryColors(t *testing.T) {
	tests := []struct {
		luma Luma
		want []uint8 // red, green, blue, white
	}{
		{LumaBT601, []uint8{76, 150, 29, 255}},
		{LumaBT709, []uint8{54, 182, 18, 255}},
		{LumaAverage, []uint8{85, 85, 85, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.luma.String(), func(t *testing.T) {
			gray := ToGrayscale(bufferOf(createPattern(2, 2)), tt.luma)
			assert.Equal(t, tt.want, gray.Pix)
		})
	}
}

func TestToGrayscale_Linear(t *testing.T) {
	gray := ToGrayscale(bufferOf(createPattern(2, 2)), LumaLinear)

	// Relative luminance of the sRGB primaries re-encoded with the sRGB curve.
	assert.InDelta(t, 127, int(gray.Pix[0]), 1, "red")
	assert.InDelta(t, 220, int(gray.Pix[1]), 1, "green")
	assert.InDelta(t, 76, int(gray.Pix[2]), 1, "blue")
	assert.Equal(t, uint8(255), gray.Pix[3], "white")
}

func TestToGrayscale_PreservesDimensions(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {1, 97}, {97, 1}, {33, 65}, {640, 3}} {
		gray := ToGrayscale(bufferOf(createPattern(size[0], size[1])), LumaBT601)
		assert.Equal(t, image.Rect(0, 0, size[0], size[1]), gray.Bounds())
		assert.Equal(t, size[0], gray.Stride)
		assert.Len(t, gray.Pix, size[0]*size[1])
	}
}

func TestToGrayscale_Idempotent(t *testing.T) {
	src := createGradient(32, 16)

	for _, l := range allLumas {
		t.Run(l.String(), func(t *testing.T) {
			once := ToGrayscale(bufferOf(src), l)
			require.Equal(t, src.Pix, once.Pix, "gray input must keep its values")

			twice := ToGrayscale(bufferOf(once), l)
			assert.Equal(t, once.Pix, twice.Pix)
		})
	}
}

func TestToGrayscale_DropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 10})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 0})

	gray := ToGrayscale(bufferOf(img), LumaBT601)
	assert.Equal(t, []uint8{76, 150}, gray.Pix, "stored color is used whatever the alpha")

	// Same color at full and partial opacity gives the same luminance.
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	gray = ToGrayscale(bufferOf(img), LumaBT601)
	assert.Equal(t, gray.Pix[0], gray.Pix[1])
}

func TestToGrayscale_SubImageOrigin(t *testing.T) {
	full := createPattern(4, 4)
	// The centre 2x2 touches all four quadrants.
	sub := full.SubImage(image.Rect(1, 1, 3, 3))

	gray := ToGrayscale(bufferOf(sub), LumaBT601)
	assert.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	assert.Equal(t, []uint8{76, 150, 29, 255}, gray.Pix)
}

func TestToGrayscale_SixteenBit(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	img.SetRGBA64(0, 0, color.RGBA64{0xffff, 0, 0, 0xffff})

	gray := ToGrayscale(bufferOf(img), LumaBT601)
	assert.Equal(t, []uint8{76}, gray.Pix)
}

func TestParseLuma(t *testing.T) {
	tests := []struct {
		in   string
		want Luma
	}{
		{"", LumaBT601},
		{"bt601", LumaBT601},
		{"Rec601", LumaBT601},
		{"bt709", LumaBT709},
		{"average", LumaAverage},
		{"mean", LumaAverage},
		{" LINEAR ", LumaLinear},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLuma(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLuma("sepia")
	assert.Error(t, err)
}

func TestLuma_StringRoundTrip(t *testing.T) {
	for _, l := range allLumas {
		got, err := ParseLuma(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	assert.Equal(t, "Luma(42)", Luma(42).String())
}
