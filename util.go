package ocr

import (
	"fmt"
	"runtime"
)

// 依次尝试的 CPython 次版本, 从新到旧
var pythonMinors = []int{13, 12, 11, 10, 9, 8}

// DefaultLibraryPath 根据运行时环境判断优先加载哪个 libpython
func DefaultLibraryPath() string {
	return LibraryCandidates()[0]
}

// LibraryCandidates 按优先级返回 libpython 候选文件名.
// 稳定 ABI 库 (libpython3.so) 优先, 其后是各个具体版本;
// Debian / Ubuntu 只提供 libpython3.X.so.1.0
func LibraryCandidates() []string {
	// windows python3.dll python313.dll ...
	if runtime.GOOS == "windows" {
		names := []string{"python3.dll"}
		for _, m := range pythonMinors {
			names = append(names, fmt.Sprintf("python3%d.dll", m))
		}
		return names
	}

	// darwin: libpython3.dylib libpython3.13.dylib ...
	if runtime.GOOS == "darwin" {
		names := []string{"libpython3.dylib"}
		for _, m := range pythonMinors {
			names = append(names, fmt.Sprintf("libpython3.%d.dylib", m))
		}
		return names
	}

	// linux freebsd 及其他: libpython3.so libpython3.13.so.1.0 libpython3.13.so ...
	names := []string{"libpython3.so"}
	for _, m := range pythonMinors {
		names = append(names,
			fmt.Sprintf("libpython3.%d.so.1.0", m),
			fmt.Sprintf("libpython3.%d.so", m),
		)
	}
	return names
}
