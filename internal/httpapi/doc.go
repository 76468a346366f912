// Package httpapi exposes the grayscale pipeline over HTTP.
//
// A client POSTs the raw bytes of an image to "/" and receives the grayscale
// rendition as "image/png". No header is needed; the image format is detected
// from the body. The body may be sent with Content-Encoding gzip or zstd.
//
// # Status Codes
//
//   - 200: body is the PNG
//   - 400: the content encoding could not be decoded
//   - 405: any method other than POST on "/"
//   - 413: the body exceeds the configured limit, before or after decoding
//   - 415: unsupported Content-Encoding
//   - 500: the pipeline failed; the body is the plain-text diagnostic
//
// Every response carries an X-Request-Id header, copied from the request when
// present and generated otherwise.
package httpapi
