package bench

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Result 是一次 Run 的统计结果。
type Result struct {
	RunID    string
	Scenario Scenario

	Produced uint64 // 被接受的推送数
	Rejected uint64 // 因队列关闭而停止的生产者数
	Consumed uint64

	// 队列自身的计数器，用于和生产/消费侧交叉核对。
	Pushes uint64
	Pops   uint64

	ProducedDigest uint64
	ConsumedDigest uint64

	Elapsed time.Duration
}

// Balanced 报告生产与消费是否守恒：每个被接受的元素恰好被消费一次。
func (r Result) Balanced() bool {
	return r.Produced == r.Consumed &&
		r.ProducedDigest == r.ConsumedDigest &&
		r.Pushes == r.Produced &&
		r.Pops == r.Consumed
}

// tally 累加元素数和与顺序无关的摘要。
type tally struct {
	count  atomic.Uint64
	digest atomic.Uint64
}

func (t *tally) add(n, digest uint64) {
	t.count.Add(n)
	t.digest.Add(digest)
}

func itemDigest(v int) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return xxhash.Sum64(b[:])
}
