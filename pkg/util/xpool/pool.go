package xpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/omeyang/xqueue/pkg/util/xqueue"
)

const (
	maxWorkers   = 1 << 16
	maxQueueSize = 1 << 24
)

// 编译期确认关闭契约
var _ io.Closer = (*Pool[int])(nil)

// Pool 是泛型 worker pool，任务经由有界阻塞队列分发给固定数量的 worker。
type Pool[T any] struct {
	workers  int
	handler  func(T)
	queue    *xqueue.Queue[T]
	opts     options
	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}
}

// New 创建并启动 worker pool。
//
// workers 取值 [1, 65536]，queueSize 取值 [1, 16777216]，handler 不能为 nil。
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidWorkers, workers, maxWorkers)
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidQueueSize, queueSize, maxQueueSize)
	}

	q, err := xqueue.New[T](queueSize)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Pool[T]{
		workers: workers,
		handler: handler,
		queue:   q,
		opts:    o,
		done:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
	return p, nil
}

// worker 从队列取任务直到队列关闭且耗尽。
func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for {
		task, ok := p.queue.Pop()
		if !ok {
			return
		}
		p.run(task)
	}
}

// run 执行单个任务，捕获 panic。
func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil {
			attrs := []any{
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			}
			if p.opts.name != "" {
				attrs = append(attrs, slog.String("pool", p.opts.name))
			}
			if p.opts.logTaskValue {
				attrs = append(attrs, slog.Any("task", task))
			} else {
				attrs = append(attrs, slog.String("task_type", fmt.Sprintf("%T", task)))
			}
			p.opts.logger.Error("xpool: worker panic recovered", attrs...)
		}
	}()
	p.handler(task)
}

// Submit 提交任务。
//
// 队列满时阻塞，直到有空位或 pool 关闭。pool 关闭后返回 ErrPoolStopped。
func (p *Pool[T]) Submit(task T) error {
	if !p.queue.Push(task) {
		return ErrPoolStopped
	}
	return nil
}

// Close 关闭 pool 并等待所有已提交任务处理完成。
func (p *Pool[T]) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown 关闭 pool，等待 worker 处理完剩余任务或 ctx 结束。
//
// ctx 先结束时返回 ctx.Err()，worker 在后台继续处理直到队列耗尽。
// 重复调用是安全的。
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.stopOnce.Do(func() {
		p.queue.Close()
		p.opts.logger.Debug("xpool: shutting down",
			slog.String("pool", p.opts.name),
			slog.Int("pending", p.queue.Len()),
		)
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool[T]) Done() <-chan struct{} {
	return p.done
}

// Workers 返回 worker 数量。
func (p *Pool[T]) Workers() int {
	return p.workers
}

// QueueSize 返回队列容量。
func (p *Pool[T]) QueueSize() int {
	return p.queue.Cap()
}

// Stats 返回底层队列的状态快照。
func (p *Pool[T]) Stats() xqueue.Stats {
	return p.queue.Stats()
}
