// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codec decodes HEIC images and encodes them as JPEG under a size
// target. Backends either shell out to ImageMagick (on the host or inside a
// container) or decode in process.
package codec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/heic2jpeg/internal/container"
	"github.com/pdiddy/heic2jpeg/pkg/types"
)

// Codec converts one HEIC file into one JPEG file. Implementations must be
// safe for concurrent use; each Convert call owns its own handles.
type Codec interface {
	// Name returns the backend name used in logs and errors.
	Name() string

	// Convert decodes src and writes it as JPEG to dst, replacing dst if it
	// exists. A failed conversion leaves dst untouched.
	Convert(ctx context.Context, src, dst string) error
}

// New builds the codec selected by cfg.Backend.
func New(ctx context.Context, cfg types.ConversionConfig, logger *log.Logger) (Codec, error) {
	switch cfg.Backend {
	case types.BackendMagick:
		return NewMagick(container.OSExecutor{}, cfg.ExtentKB)
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewContainer(ctx, rt, cfg.Image, cfg.ExtentKB)
	case types.BackendNative:
		return NewNative(cfg.ExtentBytes(), logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", types.ErrInvalidArgument, cfg.Backend)
	}
}

// writeVia stages output in a temporary file next to dst and renames it into
// place once write succeeds.
func writeVia(dst string, write func(tmp string) error) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp := dst + ".tmp"
	defer os.Remove(tmp)

	if err := write(tmp); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func extentDefine(extentKB int) string {
	return fmt.Sprintf("jpeg:extent=%dkb", extentKB)
}

func codecError(backend, src string, err error) error {
	return &types.CodecError{Backend: backend, Input: src, Err: err}
}
