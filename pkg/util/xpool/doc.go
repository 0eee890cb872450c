// Package xpool 提供基于有界阻塞队列的泛型 worker pool。
//
// Pool 的任务队列是一个 xqueue.Queue，因此具备背压语义：
//   - 泛型任务类型
//   - 可配置的 worker 数量（[1, 65536]）和队列大小（[1, 16777216]）
//   - Submit 在队列满时阻塞，直到有 worker 取走任务或 pool 关闭
//   - 优雅关闭：关闭后拒绝新任务，worker 处理完队列中的全部任务后退出
//   - 超时关闭：Shutdown(ctx) 支持 context 超时/取消
//   - Done() channel：Shutdown 超时返回后可等待残留 worker 最终完成
//   - panic 恢复（单个任务失败不影响 pool，含堆栈跟踪日志）
//   - 可注入日志记录器（WithLogger），多实例时可设置名称（WithName）
//
// # 注意事项
//
//   - Close/Shutdown 不可在 handler 内调用，否则会死锁
//   - 关闭时阻塞中的 Submit 会被唤醒并返回 ErrPoolStopped，任务未入队
//   - panic 的任务不会被重试，仅记录日志后丢弃；日志默认只记录 task 类型，
//     WithLogTaskValue() 可显式启用完整值输出
//   - New 创建后自动启动 worker
//   - 参数无效时返回错误而非 panic
//
// # 关闭策略
//
// Close 等价于 Shutdown(context.Background())，无限等待所有任务完成。
// Shutdown(ctx) 到期后立即返回 context 错误，残留 worker 继续在后台处理
// 剩余任务直到队列耗尽。调用方可通过 Done() 等待所有 worker 最终退出。
package xpool
