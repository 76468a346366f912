// Package imaging implements the grayscale conversion pipeline.
//
// A payload goes through three stages, strictly in order:
//
//  1. Decode: the container format is sniffed from the payload signature and
//     the raster is decoded into a PixelBuffer.
//  2. ToGrayscale: every pixel is collapsed into one luminance sample.
//  3. Encode: the luminance image is serialized as an 8-bit grayscale PNG.
//
// Pipeline.Process composes the three and stops at the first error.
//
// # Supported Formats
//
// Input: PNG, JPEG, GIF (first frame only), BMP, TIFF and WebP. The format is
// always determined from content; file names and content types are ignored.
// Output: PNG, content type "image/png".
//
// # Luminance
//
// The default formula is ITU-R BT.601 on gamma-encoded channels,
// 0.299*R + 0.587*G + 0.114*B, rounded to nearest. Pure red, green, blue and
// white map to 76, 150, 29 and 255. BT.709, plain average and linear-light
// luminance are available through WithLuma. Every formula maps a gray pixel
// to itself, so converting a grayscale image is a no-op on its values.
//
// # Error Handling
//
// All errors are *ProcessingError values of kind DecodeFailure or
// EncodeFailure. The message includes the diagnostic of the underlying parser
// or encoder.
//
// # Thread Safety
//
// No state is shared between calls. A Pipeline is immutable after
// construction and may be used from any number of goroutines.
package imaging
