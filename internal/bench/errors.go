package bench

import "errors"

var (
	// ErrInvalidConfig 表示压测配置无效。
	ErrInvalidConfig = errors.New("bench: invalid config")

	// ErrUnknownScenario 表示无法识别的场景。
	ErrUnknownScenario = errors.New("bench: unknown scenario")
)
