package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而终止。
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 表示传入的服务函数为 nil。
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrInvalidDelay 表示 Timer 的延迟参数无效（不能为负数）。
	ErrInvalidDelay = errors.New("xrun: delay must not be negative")
)

// SignalError 包含触发终止的具体信号。
// errors.Is(err, ErrSignal) 对其成立。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Unwrap 返回 ErrSignal。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
