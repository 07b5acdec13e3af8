package sessionlock

import (
	"sync"
	"testing"
	"time"
)

func TestKeyed_Serializes(t *testing.T) {
	k := New()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("a")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if k.Len() != 0 {
		t.Errorf("Len = %d, want 0", k.Len())
	}
}

func TestKeyed_IndependentKeys(t *testing.T) {
	k := New()
	unlockA := k.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := k.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked by a")
	}
}
