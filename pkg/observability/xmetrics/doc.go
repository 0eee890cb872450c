// Package xmetrics 提供基于 OpenTelemetry 的队列指标与操作观测。
//
// # 队列指标
//
// RegisterQueue 为任意提供 Stats() 的队列注册异步（observable）指标，
// 采集时读取一次快照，不在 Push/Pop 热路径上增加开销：
//
//	reg, err := xmetrics.RegisterQueue(meter, "jobs", q)
//	if err != nil {
//	    return err
//	}
//	defer reg.Unregister()
//
// 注册的指标（均带 queue=<name> 属性）：
//   - xqueue.length    当前缓冲元素数（gauge）
//   - xqueue.capacity  容量（gauge）
//   - xqueue.closed    是否已关闭，0/1（gauge）
//   - xqueue.pushes    成功 Push 总数（counter）
//   - xqueue.pops      成功 Pop 总数（counter）
//
// # 操作观测
//
// Observer / Span 抽象一次操作的 trace span 与 metrics：
//
//	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
//	    Component: "bench",
//	    Operation: "produce",
//	    Kind:      xmetrics.KindProducer,
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// End 记录 xqueue.operation.total 与 xqueue.operation.duration，并设置 span 状态。
// observer 为 nil 时使用空实现。子包 xmetricsmock 提供 gomock 生成的
// MockObserver 与 MockSpan，用于断言调用方创建的跨度。
package xmetrics
