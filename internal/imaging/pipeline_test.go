package imaging

import (
	"bytes"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-grayscale/internal/logging"
)

func newTestPipeline(opts ...Option) *Pipeline {
	return NewPipeline(append([]Option{WithLogger(logging.Discard())}, opts...)...)
}

// The 2x2 uncompressed RGB scenario: red, green, blue, white.
func TestProcess_TwoByTwoBMP(t *testing.T) {
	raw := encodeAs(t, FormatBMP, createPattern(2, 2))

	buf, err := Decode(raw, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatBMP, buf.Format)
	assert.Equal(t, 2, buf.Width)
	assert.Equal(t, 2, buf.Height)
	assert.Equal(t, LayoutRGB, buf.Layout)

	gray := ToGrayscale(buf, LumaBT601)
	assert.Equal(t, []uint8{76, 150, 29, 255}, gray.Pix)

	res, err := newTestPipeline().Process(raw)
	require.NoError(t, err)
	assert.Equal(t, ContentTypePNG, res.ContentType)
	assert.Equal(t, FormatBMP, res.SourceFormat)
	assert.Equal(t, LayoutRGB, res.SourceLayout)

	out, ok := decodePNG(t, res.Data).(*image.Gray)
	require.True(t, ok, "output should be single-channel")
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, []uint8{76, 150, 29, 255}, out.Pix)
}

func TestProcess_FormatCoverage(t *testing.T) {
	p := newTestPipeline()

	for _, f := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF} {
		t.Run(string(f), func(t *testing.T) {
			res, err := p.Process(encodeAs(t, f, createPattern(37, 23)))
			require.NoError(t, err)
			assert.Equal(t, f, res.SourceFormat)
			assert.Equal(t, 37, res.Width)
			assert.Equal(t, 23, res.Height)

			out := decodePNG(t, res.Data)
			assert.Equal(t, 37, out.Bounds().Dx())
			assert.Equal(t, 23, out.Bounds().Dy())
		})
	}

	t.Run("webp", func(t *testing.T) {
		res, err := p.Process([]byte(webpPixel))
		require.NoError(t, err)
		assert.Equal(t, FormatWebP, res.SourceFormat)
		assert.Equal(t, LayoutGrayAlpha, res.SourceLayout)

		out, ok := decodePNG(t, res.Data).(*image.Gray)
		require.True(t, ok)
		assert.Equal(t, image.Rect(0, 0, 1, 1), out.Bounds())
	})
}

func TestProcess_Deterministic(t *testing.T) {
	p := newTestPipeline()
	raw := encodeAs(t, FormatJPEG, createPattern(64, 48))

	first, err := p.Process(raw)
	require.NoError(t, err)
	second, err := p.Process(raw)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Data, second.Data), "outputs differ between calls")
}

func TestProcess_Concurrent(t *testing.T) {
	p := newTestPipeline(WithLuma(LumaLinear))
	raw := encodeAs(t, FormatPNG, createPattern(128, 96))

	want, err := p.Process(raw)
	require.NoError(t, err)

	const workers = 8
	results := make([][]byte, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Process(raw)
			errs[i] = err
			if res != nil {
				results[i] = res.Data
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.True(t, bytes.Equal(want.Data, results[i]), "worker %d output differs", i)
	}
}

func TestProcess_FailureLeavesNoOutput(t *testing.T) {
	p := newTestPipeline()

	res, err := p.Process([]byte("GIF89a but nothing else"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsDecodeFailure(err))

	// A failed call leaves the pipeline usable.
	res, err = p.Process(encodeAs(t, FormatPNG, createPattern(4, 4)))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data)
}

func TestProcess_Options(t *testing.T) {
	raw := encodeAs(t, FormatPNG, createPattern(100, 100))

	_, err := newTestPipeline(WithMaxPixels(99)).Process(raw)
	assert.True(t, IsDecodeFailure(err))

	p := newTestPipeline(WithLuma(LumaBT709), WithAutoOrient(true))
	assert.Equal(t, LumaBT709, p.Luma())
	res, err := p.Process(raw)
	require.NoError(t, err)

	out := decodePNG(t, res.Data).(*image.Gray)
	assert.Equal(t, uint8(54), out.GrayAt(0, 0).Y, "BT.709 red")
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, LumaBT601, p.Luma())
	assert.NotNil(t, p.log)
	assert.Zero(t, p.decode.MaxPixels)
	assert.False(t, p.decode.AutoOrient)
}
