package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/image-grayscale/internal/imaging"
	"github.com/ironsheep/image-grayscale/internal/logging"
)

var logger = logging.NewLogger("grayscale/httpapi")

// HeaderRequestID carries the request id on both request and response.
const HeaderRequestID = "X-Request-Id"

// Processor turns an encoded image into a grayscale PNG.
// *imaging.Pipeline satisfies it.
type Processor interface {
	Process(raw []byte) (*imaging.Result, error)
}

var (
	errUnsupportedEncoding = errors.New("unsupported content encoding")
	errBodyTooLarge        = errors.New("request body too large")
)

// Handler serves the grayscale endpoint.
type Handler struct {
	proc    Processor
	maxBody int64
	log     logging.Logger
	mux     *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger replaces the package logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// New returns a Handler that converts request bodies of at most maxBody bytes
// (after content decoding) with proc.
//
// Routes:
//
//	POST /        image in, image/png out
//	GET  /healthz liveness probe
func New(proc Processor, maxBody int64, opts ...Option) *Handler {
	h := &Handler{
		proc:    proc,
		maxBody: maxBody,
		log:     logger,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("POST /{$}", h.handleGrayscale)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

// ServeHTTP assigns a request id, dispatches the request and logs the outcome.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewString()
		r.Header.Set(HeaderRequestID, id)
	}
	w.Header().Set(HeaderRequestID, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	h.mux.ServeHTTP(rec, r)

	h.log.Infof("%s %s %s %d %dB %s", id, r.Method, r.URL.Path, rec.status, rec.written, time.Since(start))
}

func (h *Handler) handleGrayscale(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readBody(w, r)
	if err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, errUnsupportedEncoding):
			status = http.StatusUnsupportedMediaType
		case errors.Is(err, errBodyTooLarge), errors.As(err, &maxErr):
			status = http.StatusRequestEntityTooLarge
		}
		h.log.Debugf("%s rejected body: %v", r.Header.Get(HeaderRequestID), err)
		http.Error(w, err.Error(), status)
		return
	}

	res, err := h.proc.Process(raw)
	if err != nil {
		if imaging.IsEncodeFailure(err) {
			h.log.Errorf("%s %v", r.Header.Get(HeaderRequestID), err)
		} else {
			h.log.Warnf("%s %v", r.Header.Get(HeaderRequestID), err)
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		h.log.Debugf("%s write response: %v", r.Header.Get(HeaderRequestID), err)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// readBody returns the decoded request body. The wire size and the decoded
// size are both bounded by maxBody.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := decodeContent(http.MaxBytesReader(w, r.Body, h.maxBody), r.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, h.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > h.maxBody {
		return nil, errBodyTooLarge
	}
	return raw, nil
}

// decodeContent wraps body according to a Content-Encoding header value.
func decodeContent(body io.ReadCloser, encoding string) (io.ReadCloser, error) {
	switch enc := strings.ToLower(strings.TrimSpace(encoding)); enc {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(body, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(256<<20))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w %q", errUnsupportedEncoding, enc)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}
