// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan resolves command-line arguments into input and output path
// roles and expands them into conversion tasks.
package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pdiddy/heic2jpeg/pkg/types"
)

const (
	heicExt = ".heic"
	jpegExt = ".jpg"
)

// caseInsensitiveFS reports whether extension matching ignores case. It
// follows the default filesystem behaviour of the host.
var caseInsensitiveFS = runtime.GOOS == "darwin" || runtime.GOOS == "windows"

// Plan is a validated pair of input and output path roles.
type Plan struct {
	Input  types.PathSpec
	Output types.PathSpec
}

// Batch reports whether the plan converts a whole directory.
func (p Plan) Batch() bool {
	return p.Input.IsDirectory
}

// Prepare creates the output directory when it does not exist yet.
func (p Plan) Prepare() error {
	if !p.Output.IsDirectory {
		return nil
	}
	if err := os.MkdirAll(p.Output.Path, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", p.Output.Path, err)
	}
	return nil
}

// Resolve classifies the positional arguments <input> [output]. It only
// inspects the filesystem; a missing output directory is left for Prepare.
func Resolve(args []string) (Plan, error) {
	if len(args) == 0 {
		return Plan{}, fmt.Errorf("%w: must specify input path", types.ErrInvalidArgument)
	}
	if len(args) > 2 {
		return Plan{}, fmt.Errorf("%w: expected at most 2 arguments, got %d", types.ErrInvalidArgument, len(args))
	}

	input, err := classifyInput(args[0])
	if err != nil {
		return Plan{}, err
	}

	if len(args) == 1 {
		if input.IsDirectory {
			return Plan{Input: input, Output: input}, nil
		}
		return Plan{
			Input:  input,
			Output: types.PathSpec{Path: filepath.Dir(input.Path), IsDirectory: true},
		}, nil
	}

	output, err := classifyOutput(args[1], input)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Input: input, Output: output}, nil
}

func classifyInput(path string) (types.PathSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.PathSpec{}, fmt.Errorf("%w: first argument must be existing file or directory: %s", types.ErrInvalidArgument, path)
		}
		return types.PathSpec{}, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return types.PathSpec{Path: path, IsDirectory: info.IsDir()}, nil
}

func classifyOutput(path string, input types.PathSpec) (types.PathSpec, error) {
	info, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.PathSpec{}, fmt.Errorf("inspecting %s: %w", path, err)
	}

	if (exists && info.IsDir()) || (!exists && looksLikeDir(path)) {
		return types.PathSpec{Path: path, IsDirectory: true}, nil
	}

	if input.IsDirectory {
		return types.PathSpec{}, fmt.Errorf("%w: output path must also be a directory: %s", types.ErrInvalidState, path)
	}
	if exists {
		return types.PathSpec{}, fmt.Errorf("%w: overwriting existing file not supported: %s", types.ErrInvalidArgument, path)
	}
	return types.PathSpec{Path: path}, nil
}

// looksLikeDir reports whether a path that does not exist yet should be
// treated as a directory: it ends with a separator or has no extension.
func looksLikeDir(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	return filepath.Ext(path) == ""
}

// Tasks expands a plan into conversion tasks. Directory inputs yield one
// task per top-level HEIC file, sorted by input path. Two inputs that map
// to the same output file are rejected.
func Tasks(p Plan) ([]types.ConversionTask, error) {
	if !p.Input.IsDirectory {
		out := p.Output.Path
		if p.Output.IsDirectory {
			out = OutputPath(p.Output.Path, p.Input.Path)
		}
		if samePath(out, p.Input.Path) {
			return nil, fmt.Errorf("%w: output %s would overwrite the input", types.ErrInvalidArgument, out)
		}
		return []types.ConversionTask{{InputFile: p.Input.Path, OutputFile: out}}, nil
	}

	files, err := CollectHEIC(p.Input.Path)
	if err != nil {
		return nil, err
	}

	tasks := make([]types.ConversionTask, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, f := range files {
		out := OutputPath(p.Output.Path, f)
		key := out
		if caseInsensitiveFS {
			key = strings.ToLower(out)
		}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s and %s both convert to %s", types.ErrInvalidArgument, prev, f, out)
		}
		seen[key] = f
		tasks = append(tasks, types.ConversionTask{InputFile: f, OutputFile: out})
	}
	return tasks, nil
}

// OutputPath returns the JPEG path for input placed in dir: the same base
// name with a .jpg extension.
func OutputPath(dir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+jpegExt)
}

// CollectHEIC lists the regular files directly inside dir whose extension
// is .heic. Subdirectories are not visited.
func CollectHEIC(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isHEIC(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isHEIC(name string) bool {
	ext := filepath.Ext(name)
	if caseInsensitiveFS {
		return strings.EqualFold(ext, heicExt)
	}
	return ext == heicExt
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if caseInsensitiveFS {
		return strings.EqualFold(absA, absB)
	}
	return absA == absB
}
