package xrun

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// DefaultSignals 返回默认监听的信号（SIGINT、SIGTERM）。每次返回新切片。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

// WithSignals 返回在收到任一信号时以 *SignalError 为原因取消的 context。
// signals 为空时使用 DefaultSignals。stop 释放信号订阅，应在不再需要时调用。
func WithSignals(parent context.Context, signals ...os.Signal) (ctx context.Context, stop func()) {
	if parent == nil {
		parent = context.Background()
	}
	if len(signals) == 0 {
		signals = DefaultSignals()
	}

	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			cancel(&SignalError{Signal: sig})
		case <-done:
		case <-ctx.Done():
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			cancel(nil)
		})
	}
}
