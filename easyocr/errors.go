package easyocr

import "errors"

var (
	// ErrResource 模型释放时的文件系统错误
	ErrResource = errors.New("easyocr: resource error")
	// ErrBridge 与外部运行时交互失败
	ErrBridge = errors.New("easyocr: bridge error")
)

// ResourceError 文件系统错误
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Path == "" {
		return "easyocr: " + e.Op + ": " + e.Err.Error()
	}
	return "easyocr: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *ResourceError) Unwrap() error { return e.Err }

func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// BridgeError 外部运行时不可用, 构造或调用失败, 以及返回结构不符合预期
type BridgeError struct {
	Op  string
	Err error
}

func (e *BridgeError) Error() string {
	return "easyocr: " + e.Op + ": " + e.Err.Error()
}

func (e *BridgeError) Unwrap() error { return e.Err }

func (e *BridgeError) Is(target error) bool { return target == ErrBridge }
