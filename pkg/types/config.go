// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"runtime"
)

// ConversionBackend identifies the codec used to decode HEIC and encode JPEG.
type ConversionBackend string

const (
	BackendMagick    ConversionBackend = "magick"
	BackendContainer ConversionBackend = "container"
	BackendNative    ConversionBackend = "native"
)

const (
	// DefaultExtentKB is the maximum JPEG size, in kilobytes, handed to the
	// encoder as its size target.
	DefaultExtentKB = 3000

	// DefaultContainerImage is the ImageMagick image used by the container
	// backend.
	DefaultContainerImage = "dpokidov/imagemagick:latest"
)

// ConversionConfig holds settings for a conversion run.
type ConversionConfig struct {
	// Backend selects the codec: magick, container, or native.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ExtentKB is the output size target in kilobytes (default 3000).
	ExtentKB int `json:"extent_kb" yaml:"extent_kb" mapstructure:"extent_kb"`

	// Workers bounds the number of concurrent conversions in directory mode
	// (default runtime.NumCPU()).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// FailFast stops scheduling new conversions after the first failure.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// ReportPath, when set, receives a YAML report of the batch.
	ReportPath string `json:"report" yaml:"report" mapstructure:"report"`
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c ConversionConfig) WithDefaults() ConversionConfig {
	if c.Backend == "" {
		c.Backend = BackendMagick
	}
	if c.ExtentKB <= 0 {
		c.ExtentKB = DefaultExtentKB
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Image == "" {
		c.Image = DefaultContainerImage
	}
	return c
}

// ExtentBytes returns the size target in bytes.
func (c ConversionConfig) ExtentBytes() int64 {
	return int64(c.ExtentKB) * 1024
}

// Validate checks that the configuration names a known backend and sane
// limits.
func (c ConversionConfig) Validate() error {
	switch c.Backend {
	case BackendMagick, BackendContainer, BackendNative:
	default:
		return fmt.Errorf("%w: unknown backend %q (want magick, container, or native)", ErrInvalidArgument, c.Backend)
	}
	if c.ExtentKB <= 0 {
		return fmt.Errorf("%w: extent must be positive", ErrInvalidArgument)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidArgument)
	}
	return nil
}
