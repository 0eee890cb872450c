package xlog

import (
	"fmt"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xqueue/pkg/util/xfile"
)

// 轮转默认值
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type rotationConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// RotationOption 轮转配置选项
type RotationOption func(*rotationConfig)

// WithMaxSize 设置单个日志文件最大大小（MB）
func WithMaxSize(mb int) RotationOption {
	return func(c *rotationConfig) { c.maxSizeMB = mb }
}

// WithMaxBackups 设置保留的备份文件数量，0 表示不限数量
func WithMaxBackups(n int) RotationOption {
	return func(c *rotationConfig) { c.maxBackups = n }
}

// WithMaxAge 设置保留备份的天数，0 表示不按天数清理
func WithMaxAge(days int) RotationOption {
	return func(c *rotationConfig) { c.maxAgeDays = days }
}

// WithCompress 设置是否 gzip 压缩备份文件
func WithCompress(compress bool) RotationOption {
	return func(c *rotationConfig) { c.compress = compress }
}

// WithLocalTime 设置备份文件名是否使用本地时间（默认 UTC）
func WithLocalTime(local bool) RotationOption {
	return func(c *rotationConfig) { c.localTime = local }
}

// newRotator 创建 lumberjack 轮转写入器，必要时创建父目录。
func newRotator(filename string, opts ...RotationOption) (*lumberjack.Logger, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := rotationConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch {
	case cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB:
		return nil, fmt.Errorf("%w: max size %d, want 1~%d", ErrInvalidRotation, cfg.maxSizeMB, maxSizeMB)
	case cfg.maxBackups < 0 || cfg.maxBackups > maxBackups:
		return nil, fmt.Errorf("%w: max backups %d, want 0~%d", ErrInvalidRotation, cfg.maxBackups, maxBackups)
	case cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays:
		return nil, fmt.Errorf("%w: max age %d, want 0~%d", ErrInvalidRotation, cfg.maxAgeDays, maxAgeDays)
	case cfg.maxBackups == 0 && cfg.maxAgeDays == 0:
		// 两者都为 0 时备份永不清理
		return nil, fmt.Errorf("%w: max backups and max age cannot both be 0", ErrInvalidRotation)
	}

	path, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRotation, err)
	}
	if err := xfile.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("xlog: create log dir: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.maxSizeMB,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAgeDays,
		Compress:   cfg.compress,
		LocalTime:  cfg.localTime,
	}, nil
}
