// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/heic2jpeg/internal/container"
)

// ContainerCodec converts by piping the HEIC file through ImageMagick
// running in a container image.
type ContainerCodec struct {
	runtime  container.Runtime
	image    string
	extentKB int
}

// NewContainer creates a codec that uses the given container runtime. It
// verifies that image exists locally before returning.
func NewContainer(ctx context.Context, rt container.Runtime, image string, extentKB int) (*ContainerCodec, error) {
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("imagemagick image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerCodec{runtime: rt, image: image, extentKB: extentKB}, nil
}

func (c *ContainerCodec) Name() string { return "container" }

func (c *ContainerCodec) Convert(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return codecError(c.Name(), src, err)
	}
	defer in.Close()

	err = writeVia(dst, func(tmp string) error {
		out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer out.Close()

		args := []string{"heic:-", "-define", extentDefine(c.extentKB), "jpg:-"}
		if err := c.runtime.Run(ctx, c.image, args, in, out); err != nil {
			return err
		}
		info, err := out.Stat()
		if err != nil {
			return err
		}
		if info.Size() == 0 {
			return fmt.Errorf("%s produced empty output", c.image)
		}
		return out.Close()
	})
	if err != nil {
		return codecError(c.Name(), src, err)
	}
	return nil
}
