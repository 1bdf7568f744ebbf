// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/heic2jpeg/internal/convert"
	"github.com/pdiddy/heic2jpeg/pkg/types"
)

// execute runs the root command with args and returns its stdout. Flags
// persist on the shared command between calls, so every call sets the
// ones it depends on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_MissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.heic")

	_, err := execute(t, missing, "--backend", "native", "--report", "")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestRoot_DirectoryIntoExistingFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "x.jpg")
	require.NoError(t, os.WriteFile(file, []byte("jpeg"), 0o644))

	_, err := execute(t, dir, file, "--backend", "native", "--report", "")
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestRoot_UnknownBackend(t *testing.T) {
	_, err := execute(t, t.TempDir(), "--backend", "gimp", "--report", "")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestRoot_BackendFailureCreatesNoOutputDirectory(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.heic"), []byte("heic"), 0o644))
	out := filepath.Join(t.TempDir(), "jpegs")

	_, err := execute(t, in, out,
		"--backend", "container",
		"--image", "heic2jpeg.invalid/missing:never",
		"--report", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preparing container backend")
	assert.NoDirExists(t, out)
}

func TestRoot_EmptyDirectoryWritesReport(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(t.TempDir(), "run.yaml")

	out, err := execute(t, dir, "--backend", "native", "--report", report)
	require.NoError(t, err)
	assert.Contains(t, out, "Batch summary: 0 converted, 0 skipped, 0 failed (total: 0)")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var rep convert.Report
	require.NoError(t, yaml.Unmarshal(data, &rep))
	assert.Equal(t, dir, rep.Input)
	assert.Equal(t, "native", rep.Backend)
	assert.Empty(t, rep.Files)
}

func TestRoot_FailedConversionExitsWithError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.heic"), []byte("not an image"), 0o644))

	out, err := execute(t, dir, "--backend", "native", "--report", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed conversion")
	assert.Contains(t, out, "Converting "+filepath.Join(dir, "broken.heic"))

	var ce *types.CodecError
	assert.ErrorAs(t, err, &ce)
	assert.NoFileExists(t, filepath.Join(dir, "broken.jpg"))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "heic2jpeg dev\n", out)
}
