// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
)

var exifHeader = []byte("Exif\x00\x00")

// maxSegment is the largest payload a JPEG APP1 segment can carry.
const maxSegment = 0xffff - 2

// checkExif normalises a raw EXIF block to carry the "Exif\0\0" header and
// verifies that it parses.
func checkExif(raw []byte) ([]byte, *exif.Exif, error) {
	if len(raw) == 0 {
		return nil, nil, errors.New("empty exif block")
	}
	if !bytes.HasPrefix(raw, exifHeader) {
		raw = append(append([]byte{}, exifHeader...), raw...)
	}
	if len(raw) > maxSegment {
		return nil, nil, fmt.Errorf("exif block of %d bytes exceeds one APP1 segment", len(raw))
	}
	x, err := exif.Decode(bytes.NewReader(raw[len(exifHeader):]))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing exif: %w", err)
	}
	return raw, x, nil
}

// withExif inserts block as an APP1 segment directly after the JPEG SOI
// marker. jpg is returned unchanged when block is empty.
func withExif(jpg, block []byte) ([]byte, error) {
	if len(block) == 0 {
		return jpg, nil
	}
	if len(jpg) < 2 || jpg[0] != 0xff || jpg[1] != 0xd8 {
		return nil, errors.New("not a JPEG stream")
	}
	size := len(block) + 2

	out := make([]byte, 0, len(jpg)+size+2)
	out = append(out, 0xff, 0xd8, 0xff, 0xe1, byte(size>>8), byte(size))
	out = append(out, block...)
	out = append(out, jpg[2:]...)
	return out, nil
}
