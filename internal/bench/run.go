package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xqueue/pkg/lifecycle/xrun"
	"github.com/omeyang/xqueue/pkg/observability/xmetrics"
	"github.com/omeyang/xqueue/pkg/util/xpool"
	"github.com/omeyang/xqueue/pkg/util/xqueue"
)

const (
	component = "bench"

	// progressEvery 控制进度日志的频率（按单个生产者/消费者计数）。
	progressEvery = 100
)

// runner 持有一次 Run 的全部状态。
type runner struct {
	cfg      Config
	scenario Scenario
	opts     options
	logger   *slog.Logger

	produced tally
	consumed tally
	rejected atomic.Uint64

	pushes uint64
	pops   uint64
}

// Run 按 cfg 执行一次压测并返回统计结果。
//
// ctx 取消时队列被关闭：生产者停止推送，消费者排空已入队元素后退出，
// Run 返回已收集的结果以及取消原因。
func Run(ctx context.Context, cfg Config, opts ...Option) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	scenario, err := ParseScenario(string(cfg.Scenario))
	if err != nil {
		return Result{}, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	runID := uuid.NewString()
	r := &runner{
		cfg:      cfg,
		scenario: scenario,
		opts:     o,
		logger: o.logger.With(
			slog.String("run_id", runID),
			slog.String("scenario", string(scenario)),
		),
	}

	r.logger.Info("run starting",
		slog.Int("producers", cfg.Producers),
		slog.Int("consumers", cfg.Consumers),
		slog.Int("capacity", cfg.Capacity),
		slog.Int("items", cfg.Items),
	)

	ctx, span := xmetrics.Start(ctx, o.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "run",
		Kind:      xmetrics.KindInternal,
		Attrs: []xmetrics.Attr{
			xmetrics.String("scenario", string(scenario)),
			xmetrics.Int("producers", cfg.Producers),
			xmetrics.Int("consumers", cfg.Consumers),
			xmetrics.Int("capacity", cfg.Capacity),
		},
	})

	start := time.Now()
	if scenario == ScenarioPool {
		err = r.runPool(ctx)
	} else {
		err = r.runQueue(ctx)
	}
	if ctx.Err() != nil {
		// 取消时各组会重复报告同一原因，只保留一次。
		err = context.Cause(ctx)
	}

	res := Result{
		RunID:          runID,
		Scenario:       scenario,
		Produced:       r.produced.count.Load(),
		Rejected:       r.rejected.Load(),
		Consumed:       r.consumed.count.Load(),
		Pushes:         r.pushes,
		Pops:           r.pops,
		ProducedDigest: r.produced.digest.Load(),
		ConsumedDigest: r.consumed.digest.Load(),
		Elapsed:        time.Since(start),
	}

	span.End(xmetrics.Result{
		Err: err,
		Attrs: []xmetrics.Attr{
			xmetrics.Uint64("produced", res.Produced),
			xmetrics.Uint64("consumed", res.Consumed),
			xmetrics.Bool("balanced", res.Balanced()),
		},
	})

	r.logger.Info("run finished",
		slog.Uint64("produced", res.Produced),
		slog.Uint64("consumed", res.Consumed),
		slog.Uint64("rejected", res.Rejected),
		slog.Bool("balanced", res.Balanced()),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, err
}

// runQueue 执行直接基于 xqueue 的场景。
func (r *runner) runQueue(ctx context.Context) error {
	q, err := xqueue.New[int](r.cfg.Capacity)
	if err != nil {
		return err
	}
	if unregister, err := r.registerMetrics(q); err != nil {
		return err
	} else if unregister != nil {
		defer unregister()
	}

	stop := context.AfterFunc(ctx, q.Close)
	defer stop()

	consumers, _ := xrun.NewGroup(ctx, xrun.WithName("consumers"), xrun.WithLogger(r.logger))
	for id := range r.cfg.Consumers {
		consumers.GoWithName(fmt.Sprintf("consumer-%d", id), func(ctx context.Context) error {
			r.consume(ctx, id, q.Pop)
			return nil
		})
	}

	producers, _ := xrun.NewGroup(ctx, xrun.WithName("producers"), xrun.WithLogger(r.logger))
	for id := range r.cfg.Producers {
		producers.GoWithName(fmt.Sprintf("producer-%d", id), func(ctx context.Context) error {
			r.produce(ctx, id, q.Push)
			return nil
		})
	}
	if r.scenario == ScenarioShutdown {
		producers.GoWithName("closer", xrun.Timer(r.cfg.CloseAfter, func(context.Context) error {
			r.logger.Info("closing queue", slog.Int("len", q.Len()))
			q.Close()
			return nil
		}))
	}

	perr := producers.Wait()
	q.Close()
	cerr := consumers.Wait()

	r.pushes, r.pops = q.Pushes(), q.Pops()
	return errors.Join(perr, cerr)
}

// runPool 执行基于 xpool 的场景，worker 充当消费者。
func (r *runner) runPool(ctx context.Context) error {
	var handled atomic.Uint64
	pool, err := xpool.New(r.cfg.Consumers, r.cfg.Capacity, func(v int) {
		r.consumed.add(1, itemDigest(v))
		if n := handled.Add(1); n%progressEvery == 0 {
			r.logger.Debug("progress", slog.String("side", "pool"), slog.Uint64("consumed", n))
		}
	}, xpool.WithLogger(r.logger), xpool.WithName(component))
	if err != nil {
		return err
	}
	if unregister, err := r.registerMetrics(pool); err != nil {
		_ = pool.Close()
		return err
	} else if unregister != nil {
		defer unregister()
	}

	// ctx 已取消，Shutdown 只关闭队列而不等待排空。
	stop := context.AfterFunc(ctx, func() { _ = pool.Shutdown(ctx) })
	defer stop()

	producers, _ := xrun.NewGroup(ctx, xrun.WithName("producers"), xrun.WithLogger(r.logger))
	for id := range r.cfg.Producers {
		producers.GoWithName(fmt.Sprintf("producer-%d", id), func(ctx context.Context) error {
			r.produce(ctx, id, func(v int) bool { return pool.Submit(v) == nil })
			return nil
		})
	}

	perr := producers.Wait()
	cerr := pool.Close()

	st := pool.Stats()
	r.pushes, r.pops = st.Pushes, st.Pops
	return errors.Join(perr, cerr)
}

func (r *runner) registerMetrics(src xmetrics.StatsSource) (func(), error) {
	if r.opts.meter == nil {
		return nil, nil
	}
	reg, err := xmetrics.RegisterQueue(r.opts.meter, component+"."+string(r.scenario), src)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := reg.Unregister(); err != nil {
			r.logger.Warn("unregister queue metrics failed", slog.Any("error", err))
		}
	}, nil
}

// produce 推送 Items 个元素，首次被拒绝时停止。
func (r *runner) produce(ctx context.Context, id int, push func(int) bool) {
	_, span := xmetrics.Start(ctx, r.opts.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "produce",
		Kind:      xmetrics.KindProducer,
		Attrs:     []xmetrics.Attr{xmetrics.Int("producer", id)},
	})

	var n, digest uint64
	rejected := false
	for i := range r.cfg.Items {
		v := id*r.cfg.Items + i
		if !push(v) {
			rejected = true
			r.logger.Debug("push rejected, queue closed", slog.Int("producer", id), slog.Uint64("pushed", n))
			break
		}
		n++
		digest += itemDigest(v)
		if r.logEvery(n) {
			r.logger.Debug("produced", slog.Int("producer", id), slog.Int("item", v), slog.Uint64("pushed", n))
		}
	}

	r.produced.add(n, digest)
	if rejected {
		r.rejected.Add(1)
	}
	span.End(xmetrics.Result{Attrs: []xmetrics.Attr{
		xmetrics.Uint64("items", n),
		xmetrics.Bool("rejected", rejected),
	}})
}

// consume 弹出元素直到队列关闭且为空。
func (r *runner) consume(ctx context.Context, id int, pop func() (int, bool)) {
	_, span := xmetrics.Start(ctx, r.opts.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "consume",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.Int("consumer", id)},
	})

	var n, digest uint64
	for {
		v, ok := pop()
		if !ok {
			break
		}
		n++
		digest += itemDigest(v)
		if r.logEvery(n) {
			r.logger.Debug("consumed", slog.Int("consumer", id), slog.Int("item", v), slog.Uint64("popped", n))
		}
		if r.scenario == ScenarioBlocking {
			sleep(ctx, r.cfg.ConsumerDelay)
		}
	}

	r.consumed.add(n, digest)
	span.End(xmetrics.Result{Attrs: []xmetrics.Attr{xmetrics.Uint64("items", n)}})
}

// logEvery 决定第 n 个元素是否输出进度日志；blocking 场景逐个输出。
func (r *runner) logEvery(n uint64) bool {
	return r.scenario == ScenarioBlocking || n%progressEvery == 0
}

// sleep 等待 d 或 ctx 取消。
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
