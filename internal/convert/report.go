// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic2jpeg/internal/plan"
)

// Report is the machine-readable record of a run written by WriteReport.
type Report struct {
	Input       string        `json:"input" yaml:"input"`
	Output      string        `json:"output" yaml:"output"`
	Backend     string        `json:"backend" yaml:"backend"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Converted   int           `json:"converted" yaml:"converted"`
	Skipped     int           `json:"skipped" yaml:"skipped"`
	Failed      int           `json:"failed" yaml:"failed"`
	NotStarted  int           `json:"not_started,omitempty" yaml:"not_started,omitempty"`
	Files       []ReportEntry `json:"files" yaml:"files"`
}

// ReportEntry describes one task of the run.
type ReportEntry struct {
	Input    string `json:"input" yaml:"input"`
	Output   string `json:"output" yaml:"output"`
	Status   string `json:"status" yaml:"status"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Bytes    int64  `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Size     string `json:"size,omitempty" yaml:"size,omitempty"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// NewReport builds a Report from a finished run.
func NewReport(p plan.Plan, backend string, r BatchResult) Report {
	rep := Report{
		Input:       p.Input.Path,
		Output:      p.Output.Path,
		Backend:     backend,
		GeneratedAt: time.Now().UTC(),
		Converted:   r.Converted,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
		NotStarted:  r.NotStarted,
		Files:       make([]ReportEntry, len(r.Results)),
	}
	for i, res := range r.Results {
		e := ReportEntry{
			Input:  res.Task.InputFile,
			Output: res.Task.OutputFile,
			Status: string(res.Status),
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		if res.Bytes > 0 {
			e.Bytes = res.Bytes
			e.Size = humanize.Bytes(uint64(res.Bytes))
		}
		if res.Duration > 0 {
			e.Duration = res.Duration.Truncate(time.Millisecond).String()
		}
		rep.Files[i] = e
	}
	return rep
}

// WriteReport writes rep to path as JSON when path ends in .json and as
// YAML otherwise.
func WriteReport(path string, rep Report) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(rep, "", "  ")
	} else {
		data, err = yaml.Marshal(rep)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
