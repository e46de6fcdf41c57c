package resilience

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()

	const workers = 25
	var counter int
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			unlock := m.Lock("league-1:player-9")
			counter++
			unlock()
		}()
	}

	close(start)
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}

	m.mu.Lock()
	remaining := len(m.locks)
	m.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected lock map to be empty, got %d entries", remaining)
	}
}

func TestKeyedMutex_IndependentKeysDoNotBlock(t *testing.T) {
	m := NewKeyedMutex()

	unlockA := m.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("b")
		unlockB()
		close(done)
	}()

	<-done
	unlockA()
}
