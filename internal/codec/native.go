// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jdeng/goheif"
)

// NativeCodec decodes HEIC in process and encodes with image/jpeg, searching
// for the highest quality that meets the size target. EXIF metadata from the
// source is carried over when it parses.
type NativeCodec struct {
	limit  int64
	logger *log.Logger
}

// NewNative returns a codec that keeps outputs at or under limit bytes.
func NewNative(limit int64, logger *log.Logger) *NativeCodec {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &NativeCodec{limit: limit, logger: logger}
}

func (n *NativeCodec) Name() string { return "native" }

func (n *NativeCodec) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return codecError(n.Name(), src, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return codecError(n.Name(), src, err)
	}
	defer f.Close()

	block := n.readExif(f, src)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return codecError(n.Name(), src, err)
	}
	img, err := decodeHEIC(f)
	if err != nil {
		return codecError(n.Name(), src, fmt.Errorf("decode: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return codecError(n.Name(), src, err)
	}

	data, err := n.encode(img, block, src)
	if err != nil {
		return codecError(n.Name(), src, err)
	}

	err = writeVia(dst, func(tmp string) error {
		return os.WriteFile(tmp, data, 0o644)
	})
	if err != nil {
		return codecError(n.Name(), src, err)
	}
	return nil
}

// encode produces the output JPEG with block as its APP1 segment. The
// segment counts against the size limit.
func (n *NativeCodec) encode(img image.Image, block []byte, src string) ([]byte, error) {
	budget := n.limit
	if len(block) > 0 {
		budget -= int64(len(block) + 4)
	}

	enc, err := EncodeWithin(img, budget)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	data, err := withExif(enc.Data, block)
	if err != nil {
		return nil, err
	}

	if !enc.Fits {
		n.logger.Warn("output exceeds extent",
			"file", src,
			"size", humanize.Bytes(uint64(len(data))),
			"extent", humanize.Bytes(uint64(n.limit)))
	}
	n.logger.Debug("encoded", "file", src, "quality", enc.Quality,
		"width", enc.Width, "height", enc.Height,
		"size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// readExif returns the source EXIF block ready for an APP1 segment, or nil
// when the file has none or it does not parse.
func (n *NativeCodec) readExif(f *os.File, src string) []byte {
	raw, err := extractExif(f)
	if err != nil || len(raw) == 0 {
		return nil
	}
	block, x, err := checkExif(raw)
	if err != nil {
		n.logger.Debug("dropping exif", "file", src, "err", err)
		return nil
	}
	if taken, err := x.DateTime(); err == nil {
		n.logger.Debug("exif", "file", src, "taken", taken)
	}
	return block
}

// decodeHEIC and extractExif turn parser panics on malformed containers
// into errors.
func decodeHEIC(r io.Reader) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed heic: %v", p)
		}
	}()
	return goheif.Decode(r)
}

func extractExif(ra io.ReaderAt) (raw []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed heic: %v", p)
		}
	}()
	return goheif.ExtractExif(ra)
}
