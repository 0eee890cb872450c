package xfile

import "errors"

var (
	// ErrEmptyPath 表示路径为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 表示路径格式无效（如以分隔符结尾的目录路径）。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 表示相对路径中含有 ".." 路径段。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节。内核会在空字节处截断路径。
	ErrNullByte = errors.New("xfile: path contains null byte")
)
