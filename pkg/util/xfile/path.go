package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 是 EnsureDir 创建目录的权限。
const DefaultDirPerm = 0o750

// SanitizePath 校验并规范化文件路径。
//
// 绝对路径中的 ".." 由 filepath.Clean 正常解析；相对路径在规范化后仍含
// ".." 路径段时返回 ErrPathTraversal。以 "/" 或 "\" 结尾的路径视为目录，
// 返回 ErrInvalidPath。
func SanitizePath(filename string) (string, error) {
	switch {
	case filename == "":
		return "", ErrEmptyPath
	case strings.ContainsRune(filename, 0):
		return "", ErrNullByte
	case strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\"):
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidPath, filename)
	}

	cleaned := filepath.Clean(filename)
	if strings.HasSuffix(cleaned, "\\") {
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidPath, filename)
	}
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, filename)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidPath, filename)
	}
	return cleaned, nil
}

// EnsureDir 确保 filename 的父目录存在，已存在时不修改权限。
func EnsureDir(filename string) error {
	if filename == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(filename, 0) {
		return ErrNullByte
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, DefaultDirPerm)
}

// hasDotDotSegment 报告 path 是否含有恰好为 ".." 的路径段，"/" 与 "\" 都视为分隔符。
// "app..2024.log" 之类的文件名不受影响。
func hasDotDotSegment(path string) bool {
	for seg := range strings.FieldsFuncSeq(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
