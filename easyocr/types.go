package easyocr

import "github.com/rs/zerolog"

// Point 坐标 (x, y)
type Point [2]float64

// BoundingBox 文本框四个顶点, 按 easyocr 返回顺序依次对应 左上 右上 右下 左下
type BoundingBox struct {
	TL Point `json:"tl"`
	TR Point `json:"tr"`
	BR Point `json:"br"`
	BL Point `json:"bl"`
}

// DetectedText 单条识别结果
type DetectedText struct {
	BBox       BoundingBox `json:"bbox"`
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"` // 0 - 1, 由引擎给出
}

// OCRData 一次识别的全部结果, 顺序与引擎返回顺序一致
type OCRData struct {
	Texts []DetectedText `json:"texts"`
}

// RawDetection easyocr readtext(detail=1) 返回的单项:
// ([[189, 75], [469, 75], [469, 165], [189, 165]], 'Text', 0.3754989504814148)
type RawDetection struct {
	BBox       [4]Point
	Text       string
	Confidence float64
}

// Config easyocr 配置信息
type Config struct {
	UseGPU        bool
	PythonLibPath string   // 为空时依次尝试 ocr.LibraryCandidates()
	PythonPath    []string // 追加到 sys.path, 用于定位 easyocr 所在的 site-packages
	Backend       Backend  // 为空时使用进程内 CPython + easyocr
	Logger        *zerolog.Logger
}

// Engine easyocr 引擎, 独占一个 Reader 句柄
type Engine struct {
	reader   *guardedReader
	modelDir string
	log      zerolog.Logger
}
