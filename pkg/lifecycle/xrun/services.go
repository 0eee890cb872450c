package xrun

import (
	"context"
	"time"
)

// Timer 返回在 delay 后执行一次 fn 的成员函数。
//
// delay 为 0 时立即执行；ctx 先取消时不执行 fn 并返回 ctx.Err()。
func Timer(delay time.Duration, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if delay < 0 {
			return ErrInvalidDelay
		}
		if fn == nil {
			return ErrNilFunc
		}
		if delay == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx)
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
			return fn(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// OnDone 返回在 ctx 取消后执行 fn 的成员函数，fn 的返回值被忽略。
// 用于在 Group 退出时执行收尾动作（例如关闭共享队列）。
func OnDone(fn func()) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if fn == nil {
			return ErrNilFunc
		}
		<-ctx.Done()
		fn()
		return nil
	}
}
