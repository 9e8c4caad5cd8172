//go:build !debug

package easyocr

const debugBuild = false
