// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xqueue: 泛型有界阻塞 FIFO 队列，支持不可逆关闭与排空
//   - xpool: 基于 xqueue 的泛型 Worker Pool，满载时阻塞提交、优雅关闭
//   - xfile: 输出文件路径校验与父目录创建
package util
