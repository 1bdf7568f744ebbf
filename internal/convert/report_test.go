// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic2jpeg/internal/plan"
	"github.com/pdiddy/heic2jpeg/pkg/types"
)

func sampleRun() (plan.Plan, BatchResult) {
	p := plan.Plan{
		Input:  types.PathSpec{Path: "photos", IsDirectory: true},
		Output: types.PathSpec{Path: "jpegs", IsDirectory: true},
	}
	r := BatchResult{
		Converted: 1,
		Skipped:   1,
		Failed:    1,
		Results: []types.TaskResult{
			{
				Task:     types.ConversionTask{InputFile: "photos/a.heic", OutputFile: "jpegs/a.jpg"},
				Status:   types.ConversionDone,
				Bytes:    2_500_000,
				Duration: 1234 * time.Millisecond,
			},
			{
				Task:   types.ConversionTask{InputFile: "photos/b.heic", OutputFile: "jpegs/b.jpg"},
				Status: types.ConversionSkipped,
			},
			{
				Task:   types.ConversionTask{InputFile: "photos/c.heic", OutputFile: "jpegs/c.jpg"},
				Status: types.ConversionFailed,
				Err:    errors.New("truncated"),
			},
		},
	}
	return p, r
}

func TestNewReport(t *testing.T) {
	p, r := sampleRun()
	rep := NewReport(p, "magick", r)

	assert.Equal(t, "photos", rep.Input)
	assert.Equal(t, "jpegs", rep.Output)
	assert.Equal(t, "magick", rep.Backend)
	assert.Equal(t, 1, rep.Converted)
	require.Len(t, rep.Files, 3)

	assert.Equal(t, ReportEntry{
		Input:    "photos/a.heic",
		Output:   "jpegs/a.jpg",
		Status:   "converted",
		Bytes:    2_500_000,
		Size:     "2.5 MB",
		Duration: "1.234s",
	}, rep.Files[0])
	assert.Equal(t, "skipped", rep.Files[1].Status)
	assert.Empty(t, rep.Files[1].Size)
	assert.Equal(t, "truncated", rep.Files[2].Error)
}

func TestWriteReport_YAML(t *testing.T) {
	p, r := sampleRun()
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")

	require.NoError(t, WriteReport(path, NewReport(p, "native", r)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "native", got.Backend)
	assert.Equal(t, 1, got.Failed)
	require.Len(t, got.Files, 3)
	assert.Equal(t, "jpegs/c.jpg", got.Files[2].Output)
}

func TestWriteReport_JSON(t *testing.T) {
	p, r := sampleRun()
	path := filepath.Join(t.TempDir(), "run.JSON")

	require.NoError(t, WriteReport(path, NewReport(p, "container", r)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "container", got.Backend)
	assert.Equal(t, "converted", got.Files[0].Status)
}
