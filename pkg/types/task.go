// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for heic2jpeg: resolved
// path roles, conversion tasks and their results, configuration, and the
// error taxonomy shared by the planner, the driver, and the codecs.
package types

import "time"

// ConversionStatus indicates the outcome of a single conversion task.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// PathSpec is a filesystem path together with the role it was resolved to.
// It is created once at startup by inspecting the filesystem and never
// mutated afterwards.
type PathSpec struct {
	// Path is the path as given on the command line (or derived from it).
	Path string `json:"path" yaml:"path"`

	// IsDirectory reports whether Path names a directory.
	IsDirectory bool `json:"is_directory" yaml:"is_directory"`
}

// ConversionTask is one HEIC file to convert and the JPEG path it produces.
type ConversionTask struct {
	InputFile  string `json:"input_file" yaml:"input_file"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// TaskResult records what happened to a ConversionTask.
type TaskResult struct {
	Task   ConversionTask   `json:"task" yaml:"task"`
	Status ConversionStatus `json:"status" yaml:"status"`

	// Err is set when Status is ConversionFailed.
	Err error `json:"-" yaml:"-"`

	// Bytes is the size of the written JPEG (zero unless converted).
	Bytes int64 `json:"bytes,omitempty" yaml:"bytes,omitempty"`

	// Duration is the wall time spent in the codec.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}
