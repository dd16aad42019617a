package buffer

import (
	"sync"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	alloc := NewPooled()

	b := alloc.Acquire()
	if b == nil {
		t.Fatal("Acquire returned nil")
	}
	if b.Len() != 0 {
		t.Errorf("acquired buffer length = %d, want 0", b.Len())
	}

	b.WriteString("hello")
	if got := string(b.B); got != "hello" {
		t.Errorf("buffer contents = %q, want %q", got, "hello")
	}

	alloc.Release(b)

	// A re-acquired buffer must come back empty.
	b2 := alloc.Acquire()
	if b2.Len() != 0 {
		t.Errorf("re-acquired buffer length = %d, want 0", b2.Len())
	}
	alloc.Release(b2)
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
	if Default() != Default() {
		t.Error("Default should return the same allocator every time")
	}
}

func TestConcurrentUse(t *testing.T) {
	alloc := NewPooled()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b := alloc.Acquire()
				b.WriteString("x")
				alloc.Release(b)
			}
		}()
	}
	wg.Wait()
}
