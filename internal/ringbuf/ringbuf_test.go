package ringbuf

import (
	"sync"
	"testing"

	"chartenginev1/internal/model"
)

func TestRing_PushPop(t *testing.T) {
	r := New[model.Sample](4)
	if !r.Push(model.Sample{Time: 1, Value: 10}) {
		t.Fatal("push failed on empty ring")
	}
	v, ok := r.Pop()
	if !ok || v.Value != 10 {
		t.Fatalf("pop = %+v ok=%v", v, ok)
	}
	if _, ok := r.Pop(); ok {
		t.Error("pop on empty ring returned ok")
	}
}

func TestRing_OverflowCounts(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	r.Push(2)
	if r.Push(3) {
		t.Error("push on full ring succeeded")
	}
	if r.Overflow() != 1 {
		t.Errorf("overflow = %d, want 1", r.Overflow())
	}
}

func TestRing_CapacityRounding(t *testing.T) {
	if got := New[int](5).Cap(); got != 8 {
		t.Errorf("cap = %d, want 8", got)
	}
	if got := New[int](0).Cap(); got != 2 {
		t.Errorf("cap = %d, want minimum 2", got)
	}
}

func TestRing_Drain(t *testing.T) {
	r := New[int](8)
	for i := 0; i < 5; i++ {
		r.Push(i)
	}
	out := r.Drain(nil)
	if len(out) != 5 {
		t.Fatalf("drained %d, want 5", len(out))
	}
	for i, v := range out {
		if v != i {
			t.Errorf("out[%d] = %d, want %d (FIFO order)", i, v, i)
		}
	}
}

func TestRing_SPSC(t *testing.T) {
	const n = 100000
	r := New[int](1024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if r.Push(i) {
				i++
			}
		}
	}()

	got := 0
	for got < n {
		if v, ok := r.Pop(); ok {
			if v != got {
				t.Errorf("out of order: got %d, want %d", v, got)
				break
			}
			got++
		}
	}
	wg.Wait()
}
