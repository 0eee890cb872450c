package bench

import (
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/xqueue/pkg/config/xconf"
)

// Scenario 标识压测场景。
type Scenario string

// 支持的场景。
const (
	ScenarioBasic    Scenario = "basic"
	ScenarioShutdown Scenario = "shutdown"
	ScenarioBlocking Scenario = "blocking"
	ScenarioPool     Scenario = "pool"
)

// Scenarios 按编号顺序返回所有场景（编号从 1 开始）。
func Scenarios() []Scenario {
	return []Scenario{ScenarioBasic, ScenarioShutdown, ScenarioBlocking, ScenarioPool}
}

// ParseScenario 解析场景名或编号（"1" 对应 basic，依次类推）。
func ParseScenario(s string) (Scenario, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, sc := range Scenarios() {
		if s == string(sc) || s == fmt.Sprint(i+1) {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Config 描述一次压测。
type Config struct {
	Producers     int           `koanf:"producers"`
	Consumers     int           `koanf:"consumers"`
	Capacity      int           `koanf:"capacity"`
	Items         int           `koanf:"items"` // 每个生产者推送的元素数
	Scenario      Scenario      `koanf:"scenario"`
	CloseAfter    time.Duration `koanf:"close_after"`    // shutdown 场景
	ConsumerDelay time.Duration `koanf:"consumer_delay"` // blocking 场景
	Verbose       bool          `koanf:"verbose"`
	Log           LogConfig     `koanf:"log"`
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// DefaultConfig 返回 basic 场景的默认配置。
func DefaultConfig() Config {
	return Defaults(ScenarioBasic)
}

// Defaults 返回指定场景的默认配置。
func Defaults(s Scenario) Config {
	cfg := Config{
		Producers:     2,
		Consumers:     2,
		Capacity:      10,
		Items:         500,
		Scenario:      s,
		CloseAfter:    200 * time.Millisecond,
		ConsumerDelay: 100 * time.Millisecond,
		Log:           LogConfig{Level: "info", Format: "text"},
	}
	switch s {
	case ScenarioShutdown:
		cfg.Items = 100
	case ScenarioBlocking:
		cfg.Producers, cfg.Consumers = 1, 1
		cfg.Capacity = 2
		cfg.Items = 10
	}
	return cfg
}

// Validate 检查配置。
func (c Config) Validate() error {
	if _, err := ParseScenario(string(c.Scenario)); err != nil {
		return err
	}
	switch {
	case c.Producers < 1:
		return fmt.Errorf("%w: producers must be >= 1, got %d", ErrInvalidConfig, c.Producers)
	case c.Consumers < 1:
		return fmt.Errorf("%w: consumers must be >= 1, got %d", ErrInvalidConfig, c.Consumers)
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity must be >= 1, got %d", ErrInvalidConfig, c.Capacity)
	case c.Items < 0:
		return fmt.Errorf("%w: items must be >= 0, got %d", ErrInvalidConfig, c.Items)
	case c.CloseAfter < 0:
		return fmt.Errorf("%w: close_after must be >= 0, got %s", ErrInvalidConfig, c.CloseAfter)
	case c.ConsumerDelay < 0:
		return fmt.Errorf("%w: consumer_delay must be >= 0, got %s", ErrInvalidConfig, c.ConsumerDelay)
	}
	return nil
}

// LoadConfig 从 YAML/JSON 文件加载配置，覆盖 cfg 中已有的值。
// 文件中未出现的字段保持不变。
func LoadConfig(path string, cfg *Config) error {
	c, err := xconf.New(path)
	if err != nil {
		return err
	}
	return c.Unmarshal("", cfg)
}
