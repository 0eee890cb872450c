// Package xrun 提供基于 errgroup + context 的 goroutine 组管理。
//
// Group 在任一成员返回错误或被显式 Cancel 时取消共享 context，
// Wait 汇总第一个错误，并保留显式取消原因：
//
//	g, ctx := xrun.NewGroup(ctx, xrun.WithName("bench"))
//	for i := range producers {
//	    g.GoWithName(fmt.Sprintf("producer-%d", i), produce)
//	}
//	g.Go(xrun.Timer(200*time.Millisecond, func(ctx context.Context) error {
//	    q.Close()
//	    return nil
//	}))
//	err := g.Wait()
//
// WithSignals 把系统信号转换为带 SignalError 原因的 context 取消，
// 供命令行程序实现 Ctrl-C 协作式关闭。
package xrun
