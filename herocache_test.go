package main

import (
	"errors"
	"sync"
	"testing"
)

func TestSnapshotCacheRendersOnce(t *testing.T) {
	cache := newSnapshotCache(4)
	renders := 0
	render := func() (heroPNG, error) {
		renders++
		return heroPNG{data: []byte("png"), count: 7}, nil
	}

	for range 3 {
		png, err := cache.get(snapshotKey("top", 800, 400, 60), render)
		if err != nil {
			t.Fatal(err)
		}
		if png.count != 7 || string(png.data) != "png" {
			t.Errorf("png = %+v", png)
		}
	}
	if renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}

	if _, err := cache.get(snapshotKey("top", 800, 400, 61), render); err != nil {
		t.Fatal(err)
	}
	if renders != 2 {
		t.Errorf("renders after a new key = %d, want 2", renders)
	}
}

func TestSnapshotCacheSharesConcurrentRenders(t *testing.T) {
	cache := newSnapshotCache(4)
	var mu sync.Mutex
	renders := 0
	release := make(chan struct{})
	render := func() (heroPNG, error) {
		mu.Lock()
		renders++
		mu.Unlock()
		<-release
		return heroPNG{count: 1}, nil
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.get("same", render)
		}()
	}
	close(release)
	wg.Wait()

	if renders < 1 || renders > 8 {
		t.Fatalf("renders = %d", renders)
	}
	if _, err := cache.get("same", render); err != nil {
		t.Fatal(err)
	}
	if cache.len() != 1 {
		t.Errorf("entries = %d, want 1", cache.len())
	}
}

func TestSnapshotCacheBounded(t *testing.T) {
	cache := newSnapshotCache(2)
	for _, key := range []string{"a", "b", "c", "d"} {
		cache.get(key, func() (heroPNG, error) { return heroPNG{}, nil })
	}
	if n := cache.len(); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
}

func TestSnapshotCacheSkipsFailures(t *testing.T) {
	cache := newSnapshotCache(2)
	boom := errors.New("boom")
	if _, err := cache.get("x", func() (heroPNG, error) { return heroPNG{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if cache.len() != 0 {
		t.Error("failed render was cached")
	}
}
