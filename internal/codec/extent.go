// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"
)

const (
	maxQuality    = 92
	minQuality    = 40
	qualityStep   = 4
	scaleStep     = 0.75
	maxDownscales = 4
)

// Encoded is a JPEG produced by EncodeWithin.
type Encoded struct {
	Data    []byte
	Quality int
	Width   int
	Height  int

	// Fits reports whether Data is within the requested limit. When no
	// candidate fits, the smallest one is returned with Fits false.
	Fits bool
}

// EncodeWithin encodes img as JPEG at the highest quality whose output is at
// most limit bytes. Quality steps down from 92 to 40; if nothing fits, the
// image is downscaled by a quarter and the search repeats.
func EncodeWithin(img image.Image, limit int64) (*Encoded, error) {
	var best *Encoded
	current := img

	for attempt := 0; attempt <= maxDownscales; attempt++ {
		b := current.Bounds()
		for q := maxQuality; q >= minQuality; q -= qualityStep {
			data, err := encodeJPEG(current, q)
			if err != nil {
				return nil, err
			}
			if int64(len(data)) <= limit {
				return &Encoded{Data: data, Quality: q, Width: b.Dx(), Height: b.Dy(), Fits: true}, nil
			}
			if best == nil || len(data) < len(best.Data) {
				best = &Encoded{Data: data, Quality: q, Width: b.Dx(), Height: b.Dy()}
			}
		}

		w := uint(float64(b.Dx()) * scaleStep)
		h := uint(float64(b.Dy()) * scaleStep)
		if w == 0 || h == 0 {
			break
		}
		current = resize.Resize(w, h, current, resize.Lanczos3)
	}
	return best, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
