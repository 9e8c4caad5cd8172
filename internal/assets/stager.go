package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/getcharzp/go-easyocr/internal/util"
)

// ErrPayloadMissing 模型权重没有被打包进二进制
var ErrPayloadMissing = errors.New("模型权重未打包, 请先执行 git lfs pull 或 go generate ./internal/assets 后重新编译")

// CacheDir 返回 root 下按版本区分的模型目录: <root>/easyocr-models-v<version>
func CacheDir(root, version string) string {
	return filepath.Join(root, fmt.Sprintf("%s-models-v%s", product, version))
}

// Stager 将模型释放到缓存目录, 同一进程内成功一次后不再访问文件系统
type Stager struct {
	dir    string
	assets []ModelAsset

	mu     sync.Mutex
	staged bool

	writeFile func(path string, data []byte) error
}

// NewStager 创建释放器, 模型写入 CacheDir(root, version)
func NewStager(root, version string, assets []ModelAsset) *Stager {
	return &Stager{
		dir:    CacheDir(root, version),
		assets: assets,
		writeFile: func(path string, data []byte) error {
			return util.WriteFileAtomic(path, data, 0o644)
		},
	}
}

// Dir 模型目录
func (s *Stager) Dir() string {
	return s.dir
}

// Stage 创建目录并写入缺失的模型文件, 返回模型目录.
// 已存在的文件视为已释放, 不做内容校验. 失败时不记录状态, 下次调用会重试
func (s *Stager) Stage() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged {
		return s.dir, nil
	}

	for _, a := range s.assets {
		if !a.fetched() {
			return "", fmt.Errorf("%s: %w", a.FileName, ErrPayloadMissing)
		}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建模型目录 %s 失败: %w", s.dir, err)
	}

	for _, a := range s.assets {
		path := filepath.Join(s.dir, a.FileName)
		ok, err := util.FileExists(path)
		if err != nil {
			return "", fmt.Errorf("检查模型文件 %s 失败: %w", path, err)
		}
		if ok {
			continue
		}
		if err := s.writeFile(path, a.Payload); err != nil {
			return "", fmt.Errorf("写入模型 %s 失败: %w", a.Name, err)
		}
	}

	s.staged = true
	return s.dir, nil
}

var (
	defaultOnce   sync.Once
	defaultStager *Stager
)

// Default 进程级的默认释放器, 目录位于系统临时目录下
func Default() *Stager {
	defaultOnce.Do(func() {
		defaultStager = NewStager(os.TempDir(), Version, Models)
	})
	return defaultStager
}

// Stage 使用默认释放器释放打包的模型
func Stage() (string, error) {
	return Default().Stage()
}
