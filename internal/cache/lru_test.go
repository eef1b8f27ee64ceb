package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache[T any](size int, ttl time.Duration) (*LRUCache[T], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[T](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCacheGetSet(t *testing.T) {
	c, _ := newTestCache[[]int](4, time.Minute)

	if _, ok := c.Get("ropv"); ok {
		t.Fatal("empty cache returned a value")
	}

	c.Set("ropv", []int{1, 2})
	got, ok := c.Get("ropv")
	if !ok || len(got) != 2 {
		t.Fatalf("Get() = %v, %v", got, ok)
	}

	c.Set("ropv", []int{3})
	got, _ = c.Get("ropv")
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("overwrite not visible: %v", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be cached")
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestCache[string](4, time.Minute)

	c.Set("ropv", "x")
	clock.Advance(30 * time.Second)
	if _, ok := c.Get("ropv"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("ropv"); ok {
		t.Error("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry not removed, size %d", c.Size())
	}
}

func TestLRUCacheZeroTTLNeverExpires(t *testing.T) {
	c, clock := newTestCache[string](4, 0)

	c.Set("ropv", "x")
	clock.Advance(24 * time.Hour)

	if _, ok := c.Get("ropv"); !ok {
		t.Error("entry expired with ttl disabled")
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c, _ := newTestCache[string](4, time.Minute)
	c.Set("ropv", "x")
	c.Delete("ropv")
	c.Delete("missing")

	if _, ok := c.Get("ropv"); ok {
		t.Error("deleted entry still present")
	}
}

func TestManagerCleanNow(t *testing.T) {
	c, clock := newTestCache[string](4, time.Minute)
	c.Set("ropv", "x")
	c.Set("precatorios", "y")
	clock.Advance(2 * time.Minute)
	c.Set("fresh", "z")

	m := NewManager(nil)
	m.Register(c)

	if n := m.CleanNow(); n != 2 {
		t.Errorf("CleanNow() = %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager(nil)
	m.Register(NewLRUCache[int](1, time.Millisecond))
	m.StartCleanup(time.Millisecond)
	m.StartCleanup(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	m.Stop()
	m.Stop()
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%4))
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	if c.Size() > 4 {
		t.Errorf("Size() = %d, want at most 4", c.Size())
	}
}
