package easyocr

import (
	"errors"
	"image"
	"time"

	"github.com/getcharzp/go-easyocr/internal/assets"
	"github.com/getcharzp/go-easyocr/internal/python"
	"github.com/rs/zerolog"
	"github.com/up-zero/gotool/imageutil"
)

// stageModels 释放打包的模型, 返回模型目录
var stageModels = assets.Stage

// NewEngine 初始化引擎: 释放模型, 加载外部运行时并创建 Reader
func NewEngine(cfg Config) (*Engine, error) {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	log = log.With().Str("component", "easyocr").Logger()

	dir, err := stageModels()
	if err != nil {
		log.Error().Err(err).Msg("释放模型失败")
		return nil, &ResourceError{Op: "stage models", Err: err}
	}
	log.Debug().Str("dir", dir).Msg("模型已就绪")

	backend := cfg.Backend
	if backend == nil {
		backend = newPythonBackend(cfg)
	}

	opts := ReaderOptions{
		LangList:              []string{"en"},
		ModelStorageDirectory: dir,
		UserNetworkDirectory:  dir,
		DownloadEnabled:       false,
		GPU:                   cfg.UseGPU,
		Verbose:               debugBuild,
	}
	reader, err := newGuardedReader(backend, opts)
	if err != nil {
		if errors.Is(err, python.ErrConfigMismatch) {
			log.Warn().Err(err).Msg("解释器已按其他配置加载, 本次 PythonLibPath / PythonPath 无法生效")
		}
		log.Error().Err(err).Msg("创建 Reader 失败")
		return nil, &BridgeError{Op: "new reader", Err: err}
	}
	log.Debug().Bool("gpu", cfg.UseGPU).Msg("Reader 已创建")

	return &Engine{
		reader:   reader,
		modelDir: dir,
		log:      log,
	}, nil
}

// ModelDir 模型目录
func (e *Engine) ModelDir() string {
	return e.modelDir
}

// Run 识别编码后的图片数据, args 为 nil 时使用默认参数.
// 调用期间持有全局执行锁, 不支持取消
func (e *Engine) Run(data []byte, args *RunArgs) (OCRData, error) {
	a := DefaultRunArgs()
	if args != nil {
		a = *args
	}
	decoder := a.decoder()
	if a.Decoder != "" && decoder != a.Decoder {
		e.log.Debug().Str("decoder", string(a.Decoder)).Msg("未知解码器, 使用 greedy")
	}

	opts := ReadOptions{
		Detail:       1,
		Decoder:      string(decoder),
		RotationInfo: a.Rotations,
		Workers:      a.CPUs,
		Paragraph:    a.Paragraph,
	}

	start := time.Now()
	var out OCRData
	err := e.reader.with(func(r Reader) error {
		raw, err := r.ReadText(data, opts)
		if err != nil {
			return err
		}
		out = ToOCRData(raw)
		return nil
	})
	if err != nil {
		e.log.Error().Err(err).Msg("识别失败")
		return OCRData{}, &BridgeError{Op: "readtext", Err: err}
	}

	e.log.Debug().
		Str("decoder", opts.Decoder).
		Int("detections", len(out.Texts)).
		Dur("elapsed", time.Since(start)).
		Msg("识别完成")
	return out, nil
}

// RunImage 将图片编码为 PNG 后识别
func (e *Engine) RunImage(img image.Image, args *RunArgs) (OCRData, error) {
	data, err := EncodeImage(img)
	if err != nil {
		return OCRData{}, &BridgeError{Op: "encode image", Err: err}
	}
	return e.Run(data, args)
}

// RunFile 加载图片文件后识别
func (e *Engine) RunFile(path string, args *RunArgs) (OCRData, error) {
	img, err := imageutil.Open(path)
	if err != nil {
		return OCRData{}, &ResourceError{Op: "open image", Path: path, Err: err}
	}
	return e.RunImage(img, args)
}

// Destroy 释放 Reader 句柄, 之后的识别调用返回 ErrBridge
func (e *Engine) Destroy() {
	e.reader.destroy()
	e.log.Debug().Msg("Reader 已释放")
}
