package easyocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.Set(1, 2, color.NRGBA{R: 200, G: 10, B: 30, A: 255})

	data, err := EncodeImage(src)
	require.NoError(t, err)

	got, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src.Bounds(), got.Bounds())

	// 无损
	r, g, b, a := got.At(1, 2).RGBA()
	wr, wg, wb, wa := src.At(1, 2).RGBA()
	assert.Equal(t, []uint32{wr, wg, wb, wa}, []uint32{r, g, b, a})
}

func TestEncodeImage_Nil(t *testing.T) {
	_, err := EncodeImage(nil)
	assert.Error(t, err)
}

func TestEncodeImage_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	data, err := EncodeImage(src)
	require.NoError(t, err)
	_, err = png.DecodeConfig(bytes.NewReader(data))
	assert.NoError(t, err)
}
