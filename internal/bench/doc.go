// Package bench 是 xqueue 的生产者/消费者压测驱动。
//
// Run 按 Config 创建一个队列，启动 Producers 个生产者和 Consumers 个消费者，
// 按场景决定何时关闭队列，等待全部退出后返回 Result。所有状态都是本次
// Run 的局部值，多个 Run 可以并发执行。
//
// 场景：
//   - basic：生产者各推送 Items 个元素，全部结束后关闭队列，消费者排空后退出
//   - shutdown：CloseAfter 之后无论生产者进度如何都关闭队列，生产者在首次被拒绝时停止
//   - blocking：单生产者/单消费者，消费者每次 Pop 后停顿 ConsumerDelay，演示背压
//   - pool：生产者向 xpool.Pool 提交任务，Consumers 个 worker 处理
//
// 守恒校验：生产侧和消费侧各自累加每个元素的 xxhash（与顺序无关），
// Result.Balanced 要求数量、摘要和队列计数器三者一致。
package bench
