// Package config reads the service settings from the environment.
//
// Every setting has a default, so an empty environment yields a working
// configuration. All invalid values are reported together by Load.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"
	"time"

	pionlogging "github.com/pion/logging"

	"github.com/ironsheep/image-grayscale/internal/imaging"
	"github.com/ironsheep/image-grayscale/internal/logging"
)

// Environment variable names.
const (
	EnvAddr            = "GRAYSCALE_ADDR"
	EnvLogLevel        = "GRAYSCALE_LOG_LEVEL"
	EnvLuma            = "GRAYSCALE_LUMA"
	EnvPNGCompression  = "GRAYSCALE_PNG_COMPRESSION"
	EnvMaxBodyBytes    = "GRAYSCALE_MAX_BODY_BYTES"
	EnvMaxPixels       = "GRAYSCALE_MAX_PIXELS"
	EnvAutoOrient      = "GRAYSCALE_AUTO_ORIENT"
	EnvReadTimeout     = "GRAYSCALE_READ_TIMEOUT"
	EnvWriteTimeout    = "GRAYSCALE_WRITE_TIMEOUT"
	EnvShutdownTimeout = "GRAYSCALE_SHUTDOWN_TIMEOUT"
)

// Config holds the process-wide settings.
type Config struct {
	Addr           string
	LogLevel       pionlogging.LogLevel
	Luma           imaging.Luma
	PNGCompression png.CompressionLevel
	// MaxBodyBytes bounds the request body after content decoding.
	MaxBodyBytes int64
	// MaxPixels bounds width*height of accepted images; 0 disables the check.
	MaxPixels       int64
	AutoOrient      bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		Addr:            ":8000",
		LogLevel:        pionlogging.LogLevelInfo,
		Luma:            imaging.LumaBT601,
		PNGCompression:  png.DefaultCompression,
		MaxBodyBytes:    32 << 20,
		MaxPixels:       50_000_000,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	fail := func(name, value string, err error) {
		errs = append(errs, fmt.Errorf("%s=%q: %w", name, value, err))
	}

	if v, ok := get(EnvAddr); ok {
		cfg.Addr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		lvl, err := logging.ParseLevel(v)
		if err != nil {
			fail(EnvLogLevel, v, err)
		}
		cfg.LogLevel = lvl
	}
	if v, ok := get(EnvLuma); ok {
		l, err := imaging.ParseLuma(v)
		if err != nil {
			fail(EnvLuma, v, err)
		}
		cfg.Luma = l
	}
	if v, ok := get(EnvPNGCompression); ok {
		level, err := imaging.ParseCompression(v)
		if err != nil {
			fail(EnvPNGCompression, v, err)
		}
		cfg.PNGCompression = level
	}
	if v, ok := get(EnvMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil && n <= 0 {
			err = errors.New("must be positive")
		}
		if err != nil {
			fail(EnvMaxBodyBytes, v, err)
		}
		cfg.MaxBodyBytes = n
	}
	if v, ok := get(EnvMaxPixels); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil && n < 0 {
			err = errors.New("must not be negative")
		}
		if err != nil {
			fail(EnvMaxPixels, v, err)
		}
		cfg.MaxPixels = n
	}
	if v, ok := get(EnvAutoOrient); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(EnvAutoOrient, v, err)
		}
		cfg.AutoOrient = b
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{EnvReadTimeout, &cfg.ReadTimeout},
		{EnvWriteTimeout, &cfg.WriteTimeout},
		{EnvShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, ok := get(d.name)
		if !ok {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err == nil && dur <= 0 {
			err = errors.New("must be positive")
		}
		if err != nil {
			fail(d.name, v, err)
			continue
		}
		*d.dst = dur
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// PipelineOptions translates the image-related settings into pipeline options.
func (c Config) PipelineOptions() []imaging.Option {
	return []imaging.Option{
		imaging.WithLuma(c.Luma),
		imaging.WithCompression(c.PNGCompression),
		imaging.WithMaxPixels(c.MaxPixels),
		imaging.WithAutoOrient(c.AutoOrient),
	}
}
