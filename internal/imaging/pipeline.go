package imaging

import (
	"image/png"

	"github.com/ironsheep/image-grayscale/internal/logging"
)

var logger = logging.NewLogger("grayscale/imaging")

// Result is the output of a successful Process call.
type Result struct {
	// Data is the PNG-encoded grayscale image.
	Data []byte
	// ContentType is always ContentTypePNG.
	ContentType string
	Width       int
	Height      int
	// SourceFormat is the container format detected in the input.
	SourceFormat Format
	SourceLayout Layout
}

// Pipeline runs decode, grayscale transform and PNG encode in sequence.
//
// A Pipeline only holds settings fixed at construction, so one value may serve
// any number of concurrent Process calls. Every buffer a call allocates stays
// private to that call.
type Pipeline struct {
	luma        Luma
	compression png.CompressionLevel
	decode      DecodeOptions
	log         logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLuma selects the luminance formula. Default LumaBT601.
func WithLuma(l Luma) Option {
	return func(p *Pipeline) { p.luma = l }
}

// WithCompression selects the PNG compression level. Default png.DefaultCompression.
func WithCompression(level png.CompressionLevel) Option {
	return func(p *Pipeline) { p.compression = level }
}

// WithMaxPixels bounds width*height of accepted images. Zero means unlimited.
func WithMaxPixels(n int64) Option {
	return func(p *Pipeline) { p.decode.MaxPixels = n }
}

// WithAutoOrient applies EXIF orientation while decoding.
func WithAutoOrient(enabled bool) Option {
	return func(p *Pipeline) { p.decode.AutoOrient = enabled }
}

// WithLogger replaces the package logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline returns a Pipeline with the given options applied over the defaults.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		luma:        LumaBT601,
		compression: png.DefaultCompression,
		log:         logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Luma returns the luminance formula in use.
func (p *Pipeline) Luma() Luma { return p.luma }

// Process converts raw, an image in any supported format, to a grayscale PNG.
//
// The first failing stage ends the call; no partial output is ever returned.
// The error is always a *ProcessingError.
func (p *Pipeline) Process(raw []byte) (*Result, error) {
	buf, err := Decode(raw, p.decode)
	if err != nil {
		p.log.Debugf("decode rejected %d bytes: %v", len(raw), err)
		return nil, err
	}
	p.log.Tracef("decoded %s %dx%d layout=%s depth=%d", buf.Format, buf.Width, buf.Height, buf.Layout, buf.Depth)

	gray := ToGrayscale(buf, p.luma)

	data, err := Encode(gray, p.compression)
	if err != nil {
		p.log.Errorf("encode %dx%d: %v", buf.Width, buf.Height, err)
		return nil, err
	}

	return &Result{
		Data:         data,
		ContentType:  ContentTypePNG,
		Width:        buf.Width,
		Height:       buf.Height,
		SourceFormat: buf.Format,
		SourceLayout: buf.Layout,
	}, nil
}
