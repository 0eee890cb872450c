package xmetrics

import "errors"

var (
	// ErrCreateInstrument 表示创建 OTel 指标失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")

	// ErrNilMeter 表示 meter 参数为 nil。
	ErrNilMeter = errors.New("xmetrics: nil meter")

	// ErrNilSource 表示队列统计来源为 nil。
	ErrNilSource = errors.New("xmetrics: nil stats source")
)
