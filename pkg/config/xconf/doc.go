// Package xconf 提供基于 koanf 的最小化配置加载器。
//
// xconf 负责文件/字节数据的加载、反序列化和重载，不负责配置治理
// （默认值注入、字段校验、命令行覆盖），这些由调用方在 Unmarshal 之后完成：
//
//	cfg := bench.DefaultConfig()
//	c, err := xconf.New("bench.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := c.Unmarshal("", &cfg); err != nil {
//	    return err
//	}
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # 热更新
//
// Watch 基于 fsnotify 监视配置文件所在目录，文件变更经防抖后自动 Reload
// 并通知回调，调用方在回调中重新 Unmarshal 需要的部分：
//
//	w, err := xconf.Watch(c, func(c *xconf.Config, err error) {
//	    if err == nil {
//	        levelVar.Set(...)
//	    }
//	})
//	w.Start()
//	defer w.Stop()
//
// # 并发安全
//
// Reload 通过互斥锁串行化，解析成功后用 atomic.Pointer 原子替换 koanf 实例；
// 解析失败时保留旧配置。Client 与 Unmarshal 无锁读取当前实例。
// Client 返回的指针在 Reload 后仍可用，但指向旧配置（快照语义）。
//
// Unmarshal 使用 mapstructure，允许弱类型转换（如 "8080" → 8080），
// 字符串形式的 time.Duration（如 "200ms"）以及实现 encoding.TextUnmarshaler
// 的字段（如 xlog.Level）可直接解码。
package xconf
