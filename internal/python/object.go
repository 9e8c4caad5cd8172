package python

import (
	"errors"
	"fmt"
	"unsafe"
)

// Object 持有一个 PyObject 的强引用, 零值表示 NULL
type Object struct {
	ptr uintptr
}

// IsNil 是否为 NULL
func (o Object) IsNil() bool {
	return o.ptr == 0
}

// Exception Python 侧抛出的异常
type Exception struct {
	Type    string
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Type
	}
	return e.Type + ": " + e.Message
}

// Thread 持有 GIL 期间的操作入口, 只在 Interpreter.Do 的回调内有效
type Thread struct {
	in *Interpreter
}

// Release 释放引用, 忽略 NULL
func (t *Thread) Release(objs ...Object) {
	for _, o := range objs {
		if o.ptr != 0 {
			t.in.pyDecRef(o.ptr)
		}
	}
}

// err 取出并清除当前异常
func (t *Thread) err() error {
	if t.in.pyErrOccurred() == 0 {
		return errors.New("python 调用失败, 但未设置异常")
	}
	var typ, val, tb uintptr
	t.in.pyErrFetch(&typ, &val, &tb)
	defer t.Release(Object{typ}, Object{val}, Object{tb})

	exc := &Exception{Type: "Exception"}
	if typ != 0 {
		if name := t.in.pyObjectGetAttrString(typ, "__name__"); name != 0 {
			if typeName, ok := t.utf8(name); ok {
				exc.Type = typeName
			}
			t.in.pyDecRef(name)
		}
	}
	if val != 0 {
		if s := t.in.pyObjectStr(val); s != 0 {
			exc.Message, _ = t.utf8(s)
			t.in.pyDecRef(s)
		}
	}
	// 取异常描述时可能产生新的异常
	t.in.pyErrClear()
	return exc
}

func (t *Thread) wrap(ptr uintptr) (Object, error) {
	if ptr == 0 {
		return Object{}, t.err()
	}
	return Object{ptr}, nil
}

// Import import name
func (t *Thread) Import(name string) (Object, error) {
	return t.wrap(t.in.pyImportImportModule(name))
}

// GetAttr getattr(o, name)
func (t *Thread) GetAttr(o Object, name string) (Object, error) {
	return t.wrap(t.in.pyObjectGetAttrString(o.ptr, name))
}

// Call callable(*args, **kwargs). args 的引用被消耗, kwargs 可为零值
func (t *Thread) Call(callable Object, args []Object, kwargs Object) (Object, error) {
	tuple, err := t.tuple(args)
	if err != nil {
		return Object{}, err
	}
	defer t.Release(tuple)
	return t.wrap(t.in.pyObjectCall(callable.ptr, tuple.ptr, kwargs.ptr))
}

// CallMethod o.name(*args, **kwargs). args 的引用被消耗
func (t *Thread) CallMethod(o Object, name string, args []Object, kwargs Object) (Object, error) {
	method, err := t.GetAttr(o, name)
	if err != nil {
		t.Release(args...)
		return Object{}, err
	}
	defer t.Release(method)
	return t.Call(method, args, kwargs)
}

func (t *Thread) tuple(items []Object) (Object, error) {
	for _, it := range items {
		if it.IsNil() {
			// 构造参数时已经设置了异常
			t.Release(items...)
			return Object{}, t.err()
		}
	}
	tuple, err := t.wrap(t.in.pyTupleNew(len(items)))
	if err != nil {
		t.Release(items...)
		return Object{}, err
	}
	for i, it := range items {
		// PyTuple_SetItem 会偷走引用
		t.in.pyTupleSetItem(tuple.ptr, i, it.ptr)
	}
	return tuple, nil
}

// Str 构造 str, 失败时返回零值并保留异常
func (t *Thread) Str(s string) Object {
	return Object{t.in.pyUnicodeFromString(s)}
}

// Int 构造 int
func (t *Thread) Int(v int64) Object {
	return Object{t.in.pyLongFromLongLong(v)}
}

// Bool 构造 bool
func (t *Thread) Bool(v bool) Object {
	var n int32
	if v {
		n = 1
	}
	return Object{t.in.pyBoolFromLong(n)}
}

// Bytes 构造 bytes, 内容会被复制
func (t *Thread) Bytes(b []byte) Object {
	var p unsafe.Pointer
	if len(b) > 0 {
		p = unsafe.Pointer(&b[0])
	}
	return Object{t.in.pyBytesFromStringAndSize(p, len(b))}
}

// List 构造 list, items 的引用被消耗
func (t *Thread) List(items ...Object) Object {
	for _, it := range items {
		if it.IsNil() {
			t.Release(items...)
			return Object{}
		}
	}
	list := t.in.pyListNew(len(items))
	if list == 0 {
		t.Release(items...)
		return Object{}
	}
	for i, it := range items {
		t.in.pyListSetItem(list, i, it.ptr)
	}
	return Object{list}
}

// NewDict 构造空 dict
func (t *Thread) NewDict() (Object, error) {
	return t.wrap(t.in.pyDictNew())
}

// SetItem dict[key] = v, v 的引用被消耗
func (t *Thread) SetItem(dict Object, key string, v Object) error {
	if v.IsNil() {
		return t.err()
	}
	defer t.Release(v)
	if t.in.pyDictSetItemString(dict.ptr, key, v.ptr) != 0 {
		return t.err()
	}
	return nil
}

// Len len(o), o 需支持序列协议
func (t *Thread) Len(o Object) (int, error) {
	n := t.in.pySequenceSize(o.ptr)
	if n < 0 {
		return 0, t.err()
	}
	return n, nil
}

// Item o[i], 返回新引用
func (t *Thread) Item(o Object, i int) (Object, error) {
	return t.wrap(t.in.pySequenceGetItem(o.ptr, i))
}

// Float float(o), 支持 int / float / numpy 标量
func (t *Thread) Float(o Object) (float64, error) {
	v := t.in.pyFloatAsDouble(o.ptr)
	if v == -1 && t.in.pyErrOccurred() != 0 {
		return 0, t.err()
	}
	return v, nil
}

// String 读取 str 的 UTF-8 内容, 保留其中的 NUL 字符
func (t *Thread) String(o Object) (string, error) {
	s, ok := t.utf8(o.ptr)
	if !ok {
		return "", t.err()
	}
	return s, nil
}

// utf8 按长度复制 str 的 UTF-8 缓冲区, 失败时异常保持设置
func (t *Thread) utf8(ptr uintptr) (string, bool) {
	var n int
	p := t.in.pyUnicodeAsUTF8AndSize(ptr, &n)
	if p == nil {
		return "", false
	}
	return string(unsafe.Slice((*byte)(p), n)), true
}

// FloatAt float(o[i])
func (t *Thread) FloatAt(o Object, i int) (float64, error) {
	item, err := t.Item(o, i)
	if err != nil {
		return 0, err
	}
	defer t.Release(item)
	return t.Float(item)
}

// StringAt str 类型的 o[i]
func (t *Thread) StringAt(o Object, i int) (string, error) {
	item, err := t.Item(o, i)
	if err != nil {
		return "", err
	}
	defer t.Release(item)
	return t.String(item)
}

func (t *Thread) prependSysPath(paths []string) error {
	sys, err := t.Import("sys")
	if err != nil {
		return err
	}
	defer t.Release(sys)
	sysPath, err := t.GetAttr(sys, "path")
	if err != nil {
		return err
	}
	defer t.Release(sysPath)

	// 倒序插入到 0, 保持传入顺序
	for i := len(paths) - 1; i >= 0; i-- {
		res, err := t.CallMethod(sysPath, "insert", []Object{t.Int(0), t.Str(paths[i])}, Object{})
		if err != nil {
			return fmt.Errorf("sys.path.insert(%q): %w", paths[i], err)
		}
		t.Release(res)
	}
	return nil
}
