// Package xqueue 提供有界、并发安全的阻塞 FIFO 队列。
//
// Queue 支持任意数量的生产者和消费者 goroutine 共享同一实例，特性：
//   - 容量在创建时固定（capacity > 0），缓冲元素数永不超过容量
//   - Push 在队列满时阻塞（背压），Pop 在队列空时阻塞
//   - 严格 FIFO：Pop 观察到的顺序与在锁上线性化的 Push 顺序完全一致
//   - Close 是不可逆的单向闭锁，唤醒全部等待中的生产者和消费者
//   - Close 不丢弃已缓冲的数据：消费者可以继续 Pop 直到队列耗尽
//
// # 关闭语义
//
// 关闭后的 Push 返回 false（拒绝），不插入元素；
// Pop 在仍有数据时正常返回，队列为空且已关闭时返回 (零值, false)，
// 这是消费者退出循环的终止信号：
//
//	for {
//	    v, ok := q.Pop()
//	    if !ok {
//	        return // 已关闭且已耗尽
//	    }
//	    handle(v)
//	}
//
// 拒绝与耗尽都是正常的控制流结果，不是错误。唯一的错误是
// New 的 capacity <= 0（ErrInvalidCapacity）。
//
// # 实现
//
// 单个 sync.Mutex 保护环形缓冲区和 closed 标记，notFull / notEmpty 两个
// sync.Cond 绑定到同一把锁。所有等待都在 for 循环内重新检查条件，
// 因此对虚假唤醒和与 Close 的竞态免疫。成功的 Push/Pop 只 Signal 一个
// 对端等待者；Close 对两个条件都 Broadcast。
//
// Len 和 Closed 是瞬时快照，并发修改下结果可能立即过期，不能用作同步原语。
// Pushes / Pops 计数器使用原子读取，单调递增，仅用于观测。
//
// 不提供超时或 context 感知的 Push/Pop；永久阻塞的调用只能由对端操作或
// Close 释放。
package xqueue
