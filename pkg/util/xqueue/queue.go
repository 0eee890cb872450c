package xqueue

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Queue 是有界阻塞 FIFO 队列。
//
// 零值不可用，必须通过 New 创建。Queue 不可复制。
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond // 有空位
	notEmpty *sync.Cond // 有数据

	// 以下字段受 mu 保护
	buf    []T // 环形缓冲区，len(buf) == capacity
	head   int // 队首下标
	count  int // 当前元素数
	closed bool

	pushes atomic.Uint64
	pops   atomic.Uint64
}

// Stats 是队列状态的快照。
type Stats struct {
	Capacity int
	Len      int
	Closed   bool
	Pushes   uint64
	Pops     uint64
}

// New 创建容量为 capacity 的队列。
//
// capacity <= 0 时返回 ErrInvalidCapacity，不返回可用的队列。
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	q := &Queue[T]{
		buf: make([]T, capacity),
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Push 将 item 追加到队尾。
//
// 队列满且未关闭时阻塞。返回 true 表示已接受；
// 返回 false 表示队列已关闭（包括在等待期间被关闭），item 未被插入。
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.buf) && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return false
	}

	tail := q.head + q.count
	if tail >= len(q.buf) {
		tail -= len(q.buf)
	}
	q.buf[tail] = item
	q.count++
	q.pushes.Add(1)

	// 只新增了一个元素，唤醒一个消费者即可
	q.notEmpty.Signal()
	return true
}

// Pop 移除并返回队首元素。
//
// 队列空且未关闭时阻塞。队列关闭后仍会先返回所有已缓冲的元素；
// 队列为空且已关闭时返回 (零值, false)。
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.count == 0 {
		var zero T
		return zero, false
	}

	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // 释放引用
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.count--
	q.pops.Add(1)

	q.notFull.Signal()
	return item, true
}

// Close 关闭队列并唤醒所有等待者。
//
// 关闭是不可逆的；重复调用是空操作。Close 不会阻塞，也不会丢弃已缓冲的元素。
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	// 条件对所有等待者同时改变，必须广播
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Len 返回当前缓冲的元素数。并发修改下仅为瞬时快照。
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Closed 报告队列是否已关闭。一旦返回 true，之后总是返回 true。
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Cap 返回队列容量。
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Pushes 返回成功 Push 的次数。
func (q *Queue[T]) Pushes() uint64 {
	return q.pushes.Load()
}

// Pops 返回成功 Pop 的次数。
func (q *Queue[T]) Pops() uint64 {
	return q.pops.Load()
}

// Stats 返回队列状态快照。Len 与 Closed 在同一次加锁中读取。
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	n, closed := q.count, q.closed
	q.mu.Unlock()
	return Stats{
		Capacity: len(q.buf),
		Len:      n,
		Closed:   closed,
		Pushes:   q.pushes.Load(),
		Pops:     q.pops.Load(),
	}
}
