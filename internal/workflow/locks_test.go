package workflow

import (
	"sync"
	"testing"
	"time"
)

func TestOrderLocks_Serializes(t *testing.T) {
	locks := NewOrderLocks()
	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(42)
			defer unlock()
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("max holders = %d, want 1", maxInside)
	}
	if n := locks.held(42); n != 0 {
		t.Errorf("held after release = %d, want 0", n)
	}
}

func TestOrderLocks_IndependentOrders(t *testing.T) {
	locks := NewOrderLocks()
	unlockA := locks.Lock(1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(2)
		unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on order 2 blocked by order 1")
	}
}

func TestOrderLocks_ZeroValue(t *testing.T) {
	var locks OrderLocks
	unlock := locks.Lock(7)
	if n := locks.held(7); n != 1 {
		t.Errorf("held = %d, want 1", n)
	}
	unlock()
	if n := locks.held(7); n != 0 {
		t.Errorf("held after release = %d, want 0", n)
	}

	svc := &Service{Locks: &OrderLocks{}}
	svc.lock(7)()
}
