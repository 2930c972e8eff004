package monitor

import (
	"sync"
	"testing"
)

func TestEventLoop_SerializesCallbacks(t *testing.T) {
	l := NewEventLoop(discardLogger)
	defer l.Close()
	var wg sync.WaitGroup
	active, maxActive, total := 0, 0, 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Call(func() {
				active++
				if active > maxActive {
					maxActive = active
				}
				total++
				active--
			})
		}()
	}
	wg.Wait()
	if maxActive != 1 || total != 50 {
		t.Fatalf("callbacks overlapped or were lost: max=%d total=%d", maxActive, total)
	}
}

func TestEventLoop_RecoversPanics(t *testing.T) {
	l := NewEventLoop(discardLogger)
	defer l.Close()
	l.Call(func() { panic("boom") })
	ran := false
	if !l.Call(func() { ran = true }) || !ran {
		t.Fatalf("loop did not survive panic")
	}
}

func TestEventLoop_ClosedRejectsWork(t *testing.T) {
	l := NewEventLoop(discardLogger)
	l.Close()
	l.Close()
	if l.Post(func() {}) || l.Call(func() {}) {
		t.Fatalf("closed loop accepted work")
	}
}
