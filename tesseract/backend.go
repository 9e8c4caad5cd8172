//go:build tesseract

// Package tesseract 以 libtesseract 作为 easyocr.Engine 的外部运行时.
//
// 需要 cgo 以及系统安装的 tesseract / leptonica, 使用 -tags tesseract 编译:
//
//	engine, err := easyocr.NewEngine(easyocr.Config{Backend: tesseract.NewBackend()})
//
// 解码器 旋转 并发数参数对 tesseract 无效, 会被忽略.
package tesseract

import (
	"fmt"
	"image"

	"github.com/getcharzp/go-easyocr/easyocr"
	"github.com/otiai10/gosseract/v2"
)

// easyocr 语言代码到 tesseract traineddata 名称
var languages = map[string]string{
	"en":     "eng",
	"ch_sim": "chi_sim",
	"ch_tra": "chi_tra",
	"ja":     "jpn",
	"ko":     "kor",
	"fr":     "fra",
	"de":     "deu",
}

// Backend 基于 gosseract 的 easyocr.Backend
type Backend struct {
	clientFactory func() *gosseract.Client
}

// NewBackend 创建 tesseract 后端
func NewBackend() *Backend {
	return &Backend{clientFactory: gosseract.NewClient}
}

func (b *Backend) NewReader(opts easyocr.ReaderOptions) (easyocr.Reader, error) {
	c := b.clientFactory()
	langs := make([]string, 0, len(opts.LangList))
	for _, l := range opts.LangList {
		if mapped, ok := languages[l]; ok {
			l = mapped
		}
		langs = append(langs, l)
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			c.Close()
			return nil, fmt.Errorf("设置语言失败: %w", err)
		}
	}
	if !opts.Verbose {
		c.DisableOutput()
	}
	return &reader{client: c}, nil
}

type reader struct {
	client *gosseract.Client
}

func (r *reader) ReadText(img []byte, opts easyocr.ReadOptions) ([]easyocr.RawDetection, error) {
	if err := r.client.SetImageFromBytes(img); err != nil {
		return nil, fmt.Errorf("设置图片失败: %w", err)
	}
	level := gosseract.RIL_TEXTLINE
	if opts.Paragraph {
		level = gosseract.RIL_PARA
	}
	boxes, err := r.client.GetBoundingBoxes(level)
	if err != nil {
		return nil, fmt.Errorf("识别失败: %w", err)
	}
	out := make([]easyocr.RawDetection, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, toDetection(b.Box, b.Word, b.Confidence))
	}
	return out, nil
}

func (r *reader) Destroy() {
	_ = r.client.Close()
}

// toDetection 矩形转换为 左上 右上 右下 左下 四个顶点, tesseract 置信度为 0 - 100
func toDetection(box image.Rectangle, text string, confidence float64) easyocr.RawDetection {
	minX, minY := float64(box.Min.X), float64(box.Min.Y)
	maxX, maxY := float64(box.Max.X), float64(box.Max.Y)
	return easyocr.RawDetection{
		BBox: [4]easyocr.Point{
			{minX, minY},
			{maxX, minY},
			{maxX, maxY},
			{minX, maxY},
		},
		Text:       text,
		Confidence: confidence / 100.0,
	}
}
