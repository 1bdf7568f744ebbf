// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/heic2jpeg/internal/container"
)

// magickBinaries lists ImageMagick entry points in preference order:
// ImageMagick 7 ships "magick", version 6 only "convert".
var magickBinaries = []string{"magick", "convert"}

// MagickCodec converts through the ImageMagick binary installed on the host.
type MagickCodec struct {
	exec     container.Executor
	bin      string
	extentKB int
}

// NewMagick locates ImageMagick on PATH.
func NewMagick(exec container.Executor, extentKB int) (*MagickCodec, error) {
	for _, bin := range magickBinaries {
		if _, err := exec.LookPath(bin); err == nil {
			return &MagickCodec{exec: exec, bin: bin, extentKB: extentKB}, nil
		}
	}
	return nil, fmt.Errorf("imagemagick not found on PATH (tried %v)", magickBinaries)
}

func (m *MagickCodec) Name() string { return "magick" }

// Convert runs `magick <src> -define jpeg:extent=<N>kb jpg:<tmp>`.
func (m *MagickCodec) Convert(ctx context.Context, src, dst string) error {
	err := writeVia(dst, func(tmp string) error {
		args := []string{src, "-define", extentDefine(m.extentKB), "jpg:" + tmp}
		return m.exec.RunPiped(ctx, m.bin, args, nil, io.Discard)
	})
	if err != nil {
		return codecError(m.Name(), src, err)
	}
	return nil
}
