// xqbench 是 xqueue 有界阻塞队列的生产者/消费者压测工具。
//
// 用法:
//
//	xqbench [选项]
//
// 选项:
//
//	-p, --producers       生产者数量 (默认: 2)
//	-c, --consumers       消费者数量 (默认: 2)
//	-t, --test            场景: 1=basic 2=shutdown 3=blocking 4=pool，也可写场景名 (默认: 1)
//	-v, --verbose         输出进度日志（等价于 --log-level debug）
//	    --capacity        队列容量
//	    --items           每个生产者推送的元素数
//	    --close-after     shutdown 场景中关闭队列前的等待时间
//	    --consumer-delay  blocking 场景中消费者每次 Pop 后的停顿
//	    --config          YAML/JSON 配置文件
//	    --watch           监视配置文件（需配合 --config），运行中根据 log.level 调整日志级别
//	    --log-level       日志级别 (debug/info/warn/error)
//	    --log-format      日志格式 (text/json)
//	    --log-file        日志文件（按大小轮转），默认输出到 stderr
//
// 配置优先级：命令行显式给出的选项 > 配置文件 > 场景默认值。
//
// 退出码:
//
//	0: 运行成功且生产消费守恒
//	1: 运行失败或不守恒
//	2: 参数错误（未知选项、无效场景、无效配置等）
//	130: 被 SIGINT/SIGTERM 中断（已收集的结果仍会输出）
//
// 示例:
//
//	xqbench                               # basic 场景，2 生产者 2 消费者
//	xqbench -p 8 -c 4 --items 100000      # 更大规模
//	xqbench -t shutdown --close-after 1s  # 运行中关闭队列
//	xqbench -t 3 -v                       # 观察背压
//	xqbench --config bench.yaml           # 从文件读取配置
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xqueue/pkg/lifecycle/xrun"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// 退出码。
const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func init() {
	// -v 留给 --verbose，版本只保留长选项。
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "显示版本信息",
	}
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xqbench",
		Usage:     "xqueue 生产者/消费者压测",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     createFlags(),
		Action:    runAction,
		Authors: []any{
			"XQueue Team",
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &usageError{msg: err.Error()}
		},
		// 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	// 第一次信号关闭队列，生产者停止、消费者排空后输出结果。
	ctx, stop := xrun.WithSignals(context.Background())
	defer stop()

	err := app.Run(ctx, args)
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return exitUsage
	}
	if isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return exitUsage
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailed
}
