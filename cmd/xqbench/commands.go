package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xqueue/internal/bench"
	"github.com/omeyang/xqueue/pkg/config/xconf"
	"github.com/omeyang/xqueue/pkg/lifecycle/xrun"
	"github.com/omeyang/xqueue/pkg/observability/xlog"
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 表示参数错误，映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(err error) error {
	return &usageError{msg: err.Error()}
}

// isCLIUsageError 识别 urfave/cli 自身产生、未经过 OnUsageError 的参数错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"flag provided but not defined",
		"invalid value",
		"No help topic",
	} {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}

func createFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "producers",
			Aliases: []string{"p"},
			Usage:   "生产者数量",
			Value:   2,
		},
		&cli.IntFlag{
			Name:    "consumers",
			Aliases: []string{"c"},
			Usage:   "消费者数量",
			Value:   2,
		},
		&cli.StringFlag{
			Name:    "test",
			Aliases: []string{"t"},
			Usage:   "场景: 1=basic 2=shutdown 3=blocking 4=pool，或场景名",
			Value:   "1",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "输出进度日志",
		},
		&cli.IntFlag{
			Name:  "capacity",
			Usage: "队列容量",
		},
		&cli.IntFlag{
			Name:  "items",
			Usage: "每个生产者推送的元素数",
		},
		&cli.DurationFlag{
			Name:  "close-after",
			Usage: "shutdown 场景中关闭队列前的等待时间",
		},
		&cli.DurationFlag{
			Name:  "consumer-delay",
			Usage: "blocking 场景中消费者每次 Pop 后的停顿",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML/JSON 配置文件",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "监视配置文件，运行中根据 log.level 调整日志级别",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "日志级别 (debug/info/warn/error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "日志格式 (text/json)",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志文件（按大小轮转），默认输出到 stderr",
		},
	}
}

// runAction 是根命令的 Action。
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger, level, closeLog, err := newLogger(cfg.Log, cmd.Root().ErrWriter)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if path := cmd.String("config"); path != "" && cmd.Bool("watch") {
		stopWatch, err := watchLogLevel(path, level, logger)
		if err != nil {
			return err
		}
		defer func() { _ = stopWatch() }()
	}

	res, err := bench.Run(ctx, cfg, bench.WithLogger(logger))
	printResult(cmd.Root().Writer, res)

	var sigErr *xrun.SignalError
	switch {
	case errors.As(err, &sigErr):
		fmt.Fprintf(cmd.Root().ErrWriter, "中断: %v\n", sigErr)
		return &exitError{code: exitInterrupted}
	case err != nil:
		return err
	case !res.Balanced():
		fmt.Fprintf(cmd.Root().ErrWriter,
			"生产消费不守恒: produced=%d consumed=%d pushes=%d pops=%d\n",
			res.Produced, res.Consumed, res.Pushes, res.Pops)
		return &exitError{code: exitFailed}
	}
	return nil
}

// buildConfig 按 场景默认值 → 配置文件 → 显式选项 的顺序合成配置。
func buildConfig(cmd *cli.Command) (bench.Config, error) {
	path := cmd.String("config")
	if path == "" && cmd.Bool("watch") {
		return bench.Config{}, newUsageError(errors.New("--watch 需要同时指定 --config"))
	}

	scenario := bench.ScenarioBasic
	if path != "" {
		var fromFile bench.Config
		if err := bench.LoadConfig(path, &fromFile); err != nil {
			return bench.Config{}, newUsageError(err)
		}
		if fromFile.Scenario != "" {
			sc, err := bench.ParseScenario(string(fromFile.Scenario))
			if err != nil {
				return bench.Config{}, newUsageError(err)
			}
			scenario = sc
		}
	}
	if cmd.IsSet("test") {
		sc, err := bench.ParseScenario(cmd.String("test"))
		if err != nil {
			return bench.Config{}, newUsageError(err)
		}
		scenario = sc
	}

	cfg := bench.Defaults(scenario)
	if path != "" {
		if err := bench.LoadConfig(path, &cfg); err != nil {
			return bench.Config{}, newUsageError(err)
		}
	}
	cfg.Scenario = scenario

	if cmd.IsSet("producers") {
		cfg.Producers = cmd.Int("producers")
	}
	if cmd.IsSet("consumers") {
		cfg.Consumers = cmd.Int("consumers")
	}
	if cmd.IsSet("capacity") {
		cfg.Capacity = cmd.Int("capacity")
	}
	if cmd.IsSet("items") {
		cfg.Items = cmd.Int("items")
	}
	if cmd.IsSet("close-after") {
		cfg.CloseAfter = cmd.Duration("close-after")
	}
	if cmd.IsSet("consumer-delay") {
		cfg.ConsumerDelay = cmd.Duration("consumer-delay")
	}
	if cmd.Bool("verbose") {
		cfg.Verbose = true
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	} else if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return bench.Config{}, newUsageError(err)
	}
	return cfg, nil
}

// newLogger 按 LogConfig 构建 logger。未指定文件时写入 stderr。
// 返回的 LevelVar 可在运行中调整级别。
func newLogger(cfg bench.LogConfig, stderr io.Writer) (*slog.Logger, *slog.LevelVar, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format)
	if cfg.File != "" {
		b.SetRotation(cfg.File)
	}

	logger, cleanup, err := b.Build()
	if err != nil {
		if errors.Is(err, xlog.ErrUnknownLevel) || errors.Is(err, xlog.ErrUnknownFormat) {
			return nil, nil, nil, newUsageError(err)
		}
		return nil, nil, nil, err
	}
	return logger, b.LevelVar(), cleanup, nil
}

// watchDebounce 是配置文件监视的防抖时间。
const watchDebounce = 50 * time.Millisecond

// watchLogLevel 监视配置文件，log.level 变化时更新 level。
func watchLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) (func() error, error) {
	c, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	w, err := xconf.Watch(c, func(c *xconf.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", slog.Any("error", err))
			return
		}
		var lc bench.LogConfig
		if err := c.Unmarshal("log", &lc); err != nil {
			logger.Warn("config reload failed", slog.Any("error", err))
			return
		}
		if lc.Level == "" {
			return
		}
		parsed, err := xlog.ParseLevel(lc.Level)
		if err != nil {
			logger.Warn("ignoring invalid log level", slog.String("level", lc.Level))
			return
		}
		level.Set(slog.Level(parsed))
		logger.Info("log level updated", slog.String("level", parsed.String()))
	}, xconf.WithDebounce(watchDebounce))
	if err != nil {
		return nil, err
	}
	w.Start()
	return w.Stop, nil
}

func printResult(w io.Writer, res bench.Result) {
	fmt.Fprintf(w, "Run: %s (scenario %s)\n", res.RunID, res.Scenario)
	fmt.Fprintf(w, "Produced: %d, Consumed: %d\n", res.Produced, res.Consumed)
	if res.Rejected > 0 {
		fmt.Fprintf(w, "Rejected: %d producer(s) stopped by close\n", res.Rejected)
	}
	fmt.Fprintf(w, "Elapsed: %d ms\n", res.Elapsed.Milliseconds())
}
