package easyocr

import (
	"errors"
	"sync"
)

// foreignMu 外部运行时的全局执行锁, 所有 Engine 的构造 识别 销毁共用
var foreignMu sync.Mutex

var errDestroyed = errors.New("引擎已销毁")

// guardedReader 只能在持锁期间访问 Reader
type guardedReader struct {
	reader Reader
}

// newGuardedReader 在持锁期间创建 Reader
func newGuardedReader(backend Backend, opts ReaderOptions) (*guardedReader, error) {
	foreignMu.Lock()
	defer foreignMu.Unlock()

	r, err := backend.NewReader(opts)
	if err != nil {
		return nil, err
	}
	return &guardedReader{reader: r}, nil
}

func (g *guardedReader) with(fn func(r Reader) error) error {
	foreignMu.Lock()
	defer foreignMu.Unlock()

	if g.reader == nil {
		return errDestroyed
	}
	return fn(g.reader)
}

// destroy 释放句柄, 重复调用无副作用
func (g *guardedReader) destroy() {
	foreignMu.Lock()
	defer foreignMu.Unlock()

	if g.reader != nil {
		g.reader.Destroy()
		g.reader = nil
	}
}
