// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noise returns a deterministic image that compresses poorly, so encoded
// size responds to quality.
func noise(w, h int) *image.NRGBA {
	r := rand.New(rand.NewSource(7))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r.Intn(256)),
				G: uint8(r.Intn(256)),
				B: uint8(r.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func TestEncodeWithin_GenerousLimitKeepsTopQuality(t *testing.T) {
	img := noise(64, 48)

	enc, err := EncodeWithin(img, 1<<30)
	require.NoError(t, err)

	assert.True(t, enc.Fits)
	assert.Equal(t, maxQuality, enc.Quality)
	assert.Equal(t, 64, enc.Width)
	assert.Equal(t, 48, enc.Height)
	assert.Equal(t, []byte{0xff, 0xd8}, enc.Data[:2])
}

func TestEncodeWithin_StepsQualityDown(t *testing.T) {
	img := noise(128, 128)

	high, err := encodeJPEG(img, maxQuality)
	require.NoError(t, err)
	low, err := encodeJPEG(img, minQuality)
	require.NoError(t, err)
	require.Less(t, len(low), len(high))

	limit := int64(len(low)+len(high)) / 2
	enc, err := EncodeWithin(img, limit)
	require.NoError(t, err)

	assert.True(t, enc.Fits)
	assert.Less(t, enc.Quality, maxQuality)
	assert.GreaterOrEqual(t, enc.Quality, minQuality)
	assert.LessOrEqual(t, int64(len(enc.Data)), limit)
	assert.Equal(t, 128, enc.Width, "quality alone should meet the limit")
}

func TestEncodeWithin_DownscalesWhenQualityIsNotEnough(t *testing.T) {
	img := noise(128, 128)

	low, err := encodeJPEG(img, minQuality)
	require.NoError(t, err)

	enc, err := EncodeWithin(img, int64(len(low))-1)
	require.NoError(t, err)

	assert.Less(t, enc.Width, 128)
	assert.Less(t, enc.Height, 128)
	assert.Less(t, len(enc.Data), len(low))
}

func TestEncodeWithin_ImpossibleLimitReturnsSmallest(t *testing.T) {
	img := noise(32, 32)

	enc, err := EncodeWithin(img, 1)
	require.NoError(t, err)

	assert.False(t, enc.Fits)
	assert.NotEmpty(t, enc.Data)
	assert.Less(t, enc.Width, 32)
}
