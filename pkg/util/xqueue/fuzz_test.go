package xqueue

import "testing"

// FuzzQueue 用切片模型校验单线程操作序列。
// ops 中每个字节：低两位 0/1 = Push，2 = Pop，3 = Close。
// 阻塞操作（满时 Push、空且未关闭时 Pop）被跳过。
func FuzzQueue(f *testing.F) {
	f.Add(1, []byte{0, 2, 0, 2})
	f.Add(3, []byte{0, 0, 0, 2, 2, 3, 2, 2})
	f.Add(2, []byte{3, 0, 2})
	f.Add(0, []byte{0})
	f.Add(-5, []byte{})

	f.Fuzz(func(t *testing.T, capacity int, ops []byte) {
		if capacity > 1<<12 {
			capacity = 1 << 12
		}
		q, err := New[int](capacity)
		if capacity <= 0 {
			if err == nil {
				t.Fatalf("expected error for capacity %d", capacity)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}

		var model []int
		closed := false
		next := 0
		for _, op := range ops {
			switch op & 3 {
			case 0, 1:
				if !closed && len(model) == capacity {
					continue
				}
				ok := q.Push(next)
				if ok == closed {
					t.Fatalf("push result %v with closed=%v", ok, closed)
				}
				if ok {
					model = append(model, next)
				}
				next++
			case 2:
				if !closed && len(model) == 0 {
					continue
				}
				v, ok := q.Pop()
				if len(model) == 0 {
					if ok {
						t.Fatalf("pop returned %d from drained queue", v)
					}
					continue
				}
				if !ok || v != model[0] {
					t.Fatalf("pop = (%d, %v), want (%d, true)", v, ok, model[0])
				}
				model = model[1:]
			case 3:
				q.Close()
				closed = true
			}
			if q.Len() != len(model) || q.Len() > q.Cap() || q.Closed() != closed {
				t.Fatalf("state mismatch: len=%d model=%d closed=%v", q.Len(), len(model), q.Closed())
			}
		}
	})
}
