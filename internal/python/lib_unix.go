//go:build darwin || freebsd || linux

package python

import "github.com/ebitengine/purego"

// RTLD_GLOBAL: numpy / torch 等扩展模块需要解析 libpython 的符号
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}
