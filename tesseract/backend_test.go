//go:build tesseract

package tesseract

import (
	"image"
	"testing"

	"github.com/getcharzp/go-easyocr/easyocr"
	"github.com/stretchr/testify/assert"
)

func TestToDetection(t *testing.T) {
	det := toDetection(image.Rect(10, 10, 50, 30), "HELLO", 95)

	assert.Equal(t, [4]easyocr.Point{{10, 10}, {50, 10}, {50, 30}, {10, 30}}, det.BBox)
	assert.Equal(t, "HELLO", det.Text)
	assert.InDelta(t, 0.95, det.Confidence, 1e-9)

	data := easyocr.ToOCRData([]easyocr.RawDetection{det})
	assert.Equal(t, easyocr.Point{10, 30}, data.Texts[0].BBox.BL)
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, "eng", languages["en"])
}
