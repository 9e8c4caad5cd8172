// Package assets 打包 easyocr 所需的模型权重, 并在首次使用时释放到磁盘
package assets

import (
	"bytes"
	_ "embed"
)

// Version 产品版本, 决定模型缓存目录名; 构建时可通过
// -ldflags "-X github.com/getcharzp/go-easyocr/internal/assets.Version=x.y.z" 覆盖
var Version = "0.1.0"

const product = "easyocr"

//go:generate go run ./gen -out weights

// CRAFT 文本检测模型
//
//go:embed weights/craft_mlt_25k.pth
var craftModel []byte

// 英文识别模型
//
//go:embed weights/english_g2.pth
var englishModel []byte

// ModelAsset 单个打包的模型文件
type ModelAsset struct {
	Name     string
	Payload  []byte
	FileName string
}

// Models 打包进二进制的全部模型
var Models = []ModelAsset{
	{Name: "craft", Payload: craftModel, FileName: "craft_mlt_25k.pth"},
	{Name: "english_g2", Payload: englishModel, FileName: "english_g2.pth"},
}

var lfsPointerPrefix = []byte("version https://git-lfs.github.com/spec/")

// fetched 判断权重是否真正打包 (未执行 git lfs pull 时是空文件或指针文件)
func (a ModelAsset) fetched() bool {
	return len(a.Payload) > 0 && !bytes.HasPrefix(a.Payload, lfsPointerPrefix)
}
