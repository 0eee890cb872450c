// Package xlog 提供基于 log/slog 的日志构建器。
//
// Builder 以链式调用配置输出目标、级别、格式和文件轮转，Build 返回
// *slog.Logger 与 cleanup 函数：
//
//	logger, cleanup, err := xlog.New().
//	    SetLevelString("debug").
//	    SetFormat("json").
//	    SetRotation("/var/log/xqbench.log", xlog.WithMaxSize(100)).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// 配置错误（未知级别、未知格式、无效轮转参数）在 Build 时统一返回。
// 日志级别通过共享的 slog.LevelVar 控制，Build 之后仍可经由
// Builder.LevelVar 动态调整。
//
// 文件轮转基于 lumberjack：按大小切分、按数量和天数清理备份、可选 gzip 压缩。
package xlog
