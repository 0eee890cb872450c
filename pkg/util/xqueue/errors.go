package xqueue

import "errors"

// ErrInvalidCapacity 表示队列容量无效（必须大于 0）。
var ErrInvalidCapacity = errors.New("xqueue: capacity must be > 0")
