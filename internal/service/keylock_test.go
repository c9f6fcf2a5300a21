package service

import (
	"sync"
	"testing"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	locks := NewKeyLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("u1")
			counter++
			locks.Unlock("u1")
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50, got %d", counter)
	}
}

func TestKeyLockReleasesEntries(t *testing.T) {
	locks := NewKeyLock()
	locks.Lock("u1")
	locks.Unlock("u1")
	locks.Lock("u2")
	locks.Unlock("u2")

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected lock table to be empty, got %d entries", remaining)
	}
}

func TestKeyLockIndependentKeys(t *testing.T) {
	locks := NewKeyLock()
	locks.Lock("u1")
	done := make(chan struct{})
	go func() {
		locks.Lock("u2")
		locks.Unlock("u2")
		close(done)
	}()
	<-done
	locks.Unlock("u1")
}
