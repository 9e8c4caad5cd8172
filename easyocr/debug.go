//go:build debug

package easyocr

const debugBuild = true
