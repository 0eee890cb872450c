// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 基于 log/slog 的 logger 构建器，支持级别动态调整与文件轮转
//   - xmetrics: 队列指标导出与统一观测接口（OpenTelemetry 实现）
//
// 设计原则：
//   - 指标命名遵循 OpenTelemetry 语义规范
//   - 观测失败不影响业务路径
package observability
