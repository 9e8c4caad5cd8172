// Package python 通过 purego 加载 libpython, 在进程内托管一个 CPython 解释器.
//
// 所有对解释器的访问都必须经过 Interpreter.Do, 它把当前 goroutine 绑定到
// 操作系统线程并持有 GIL. 包本身不做跨 goroutine 的串行化, 由调用方负责.
package python

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Config 解释器配置
type Config struct {
	PythonLibPath     string   // libpython 动态库路径, 非空时只加载该路径
	LibraryCandidates []string // PythonLibPath 为空时依次尝试的文件名
	PythonPath        []string // 追加到 sys.path 前部的目录, 例如虚拟环境的 site-packages
}

// ErrConfigMismatch 解释器已按另一份配置加载, 进程内无法重新加载
var ErrConfigMismatch = errors.New("python 解释器已使用不同的配置加载")

func sameConfig(a, b Config) bool {
	return a.PythonLibPath == b.PythonLibPath &&
		slices.Equal(a.LibraryCandidates, b.LibraryCandidates) &&
		slices.Equal(a.PythonPath, b.PythonPath)
}

// Interpreter 进程内唯一的 CPython 解释器
type Interpreter struct {
	cfg     Config
	libPath string
	lib     uintptr

	pyIsInitialized          func() int32
	pyInitializeEx           func(int32)
	pyEvalSaveThread         func() uintptr
	pyGILStateEnsure         func() int32
	pyGILStateRelease        func(int32)
	pyIncRef                 func(uintptr)
	pyDecRef                 func(uintptr)
	pyImportImportModule     func(string) uintptr
	pyObjectGetAttrString    func(uintptr, string) uintptr
	pyObjectCall             func(uintptr, uintptr, uintptr) uintptr
	pyObjectStr              func(uintptr) uintptr
	pyTupleNew               func(int) uintptr
	pyTupleSetItem           func(uintptr, int, uintptr) int32
	pyListNew                func(int) uintptr
	pyListSetItem            func(uintptr, int, uintptr) int32
	pyDictNew                func() uintptr
	pyDictSetItemString      func(uintptr, string, uintptr) int32
	pyLongFromLongLong       func(int64) uintptr
	pyBoolFromLong           func(int32) uintptr
	pyFloatAsDouble          func(uintptr) float64
	pyUnicodeFromString      func(string) uintptr
	pyUnicodeAsUTF8AndSize   func(uintptr, *int) unsafe.Pointer
	pyBytesFromStringAndSize func(unsafe.Pointer, int) uintptr
	pySequenceSize           func(uintptr) int
	pySequenceGetItem        func(uintptr, int) uintptr
	pyErrOccurred            func() uintptr
	pyErrFetch               func(*uintptr, *uintptr, *uintptr)
	pyErrClear               func()
}

var (
	loadMu  sync.Mutex
	current *Interpreter
)

// Load 加载并初始化解释器. 成功后以相同配置调用直接返回同一个实例,
// 配置不同返回 ErrConfigMismatch; 失败则不缓存, 允许修正配置后重试
func Load(cfg Config) (*Interpreter, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if current != nil {
		if !sameConfig(cfg, current.cfg) {
			return nil, fmt.Errorf("%w: 已加载 %s, sys.path 追加 %v",
				ErrConfigMismatch, current.libPath, current.cfg.PythonPath)
		}
		return current, nil
	}

	in, err := open(cfg)
	if err != nil {
		return nil, err
	}
	current = in
	return in, nil
}

// libraryPaths 待尝试的动态库路径
func (cfg Config) libraryPaths() []string {
	if cfg.PythonLibPath != "" {
		return []string{cfg.PythonLibPath}
	}
	return cfg.LibraryCandidates
}

// openFirst 依次尝试加载, 返回第一个成功的路径
func openFirst(paths []string) (uintptr, string, error) {
	if len(paths) == 0 {
		return 0, "", fmt.Errorf("未指定 libpython 路径")
	}
	var errs []string
	for _, p := range paths {
		lib, err := openLibrary(p)
		if err == nil {
			return lib, p, nil
		}
		errs = append(errs, err.Error())
	}
	return 0, "", fmt.Errorf("加载 libpython 失败, 已尝试 %s: %s",
		strings.Join(paths, ", "), strings.Join(errs, "; "))
}

func open(cfg Config) (*Interpreter, error) {
	lib, path, err := openFirst(cfg.libraryPaths())
	if err != nil {
		return nil, err
	}

	in := &Interpreter{cfg: cfg, libPath: path, lib: lib}
	if err := in.bind(); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// 宿主进程可能已经初始化过解释器, 此时 GIL 不归当前线程所有
	if in.pyIsInitialized() == 0 {
		in.pyInitializeEx(0)
		in.pyEvalSaveThread()
	}

	if len(cfg.PythonPath) > 0 {
		err := in.Do(func(t *Thread) error {
			return t.prependSysPath(cfg.PythonPath)
		})
		if err != nil {
			return nil, fmt.Errorf("设置 sys.path 失败: %w", err)
		}
	}
	return in, nil
}

func (in *Interpreter) bind() (err error) {
	// RegisterLibFunc 找不到符号时会 panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("绑定 CPython API 失败: %v", r)
		}
	}()

	syms := []struct {
		fptr any
		name string
	}{
		{&in.pyIsInitialized, "Py_IsInitialized"},
		{&in.pyInitializeEx, "Py_InitializeEx"},
		{&in.pyEvalSaveThread, "PyEval_SaveThread"},
		{&in.pyGILStateEnsure, "PyGILState_Ensure"},
		{&in.pyGILStateRelease, "PyGILState_Release"},
		{&in.pyIncRef, "Py_IncRef"},
		{&in.pyDecRef, "Py_DecRef"},
		{&in.pyImportImportModule, "PyImport_ImportModule"},
		{&in.pyObjectGetAttrString, "PyObject_GetAttrString"},
		{&in.pyObjectCall, "PyObject_Call"},
		{&in.pyObjectStr, "PyObject_Str"},
		{&in.pyTupleNew, "PyTuple_New"},
		{&in.pyTupleSetItem, "PyTuple_SetItem"},
		{&in.pyListNew, "PyList_New"},
		{&in.pyListSetItem, "PyList_SetItem"},
		{&in.pyDictNew, "PyDict_New"},
		{&in.pyDictSetItemString, "PyDict_SetItemString"},
		{&in.pyLongFromLongLong, "PyLong_FromLongLong"},
		{&in.pyBoolFromLong, "PyBool_FromLong"},
		{&in.pyFloatAsDouble, "PyFloat_AsDouble"},
		{&in.pyUnicodeFromString, "PyUnicode_FromString"},
		{&in.pyUnicodeAsUTF8AndSize, "PyUnicode_AsUTF8AndSize"},
		{&in.pyBytesFromStringAndSize, "PyBytes_FromStringAndSize"},
		{&in.pySequenceSize, "PySequence_Size"},
		{&in.pySequenceGetItem, "PySequence_GetItem"},
		{&in.pyErrOccurred, "PyErr_Occurred"},
		{&in.pyErrFetch, "PyErr_Fetch"},
		{&in.pyErrClear, "PyErr_Clear"},
	}
	for _, s := range syms {
		purego.RegisterLibFunc(s.fptr, in.lib, s.name)
	}
	return nil
}

// Do 在持有 GIL 的操作系统线程上执行 fn.
// fn 中创建的 Object 可以在多次 Do 之间保留, 但只能在 Do 内部使用
func (in *Interpreter) Do(fn func(t *Thread) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state := in.pyGILStateEnsure()
	defer in.pyGILStateRelease(state)

	return fn(&Thread{in: in})
}
