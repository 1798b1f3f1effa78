package grove

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestTaskGroupLimit(t *testing.T) {
	g := newTaskGroup(2)
	release := make(chan struct{})
	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		g.spawn(context.Background(), "/t", func(context.Context) error {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil
		})
	}
	if q := g.queued(); q != 4 {
		t.Errorf("queued = %d, want 4", q)
	}
	close(release)
	wg.Wait()
	g.wait()
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", p)
	}
	if q := g.queued(); q != 0 {
		t.Errorf("queued after completion = %d", q)
	}
}

func TestTaskGroupBacklogOrder(t *testing.T) {
	g := newTaskGroup(1)
	release := make(chan struct{})
	var mu sync.Mutex
	var order []int
	for i := range 4 {
		g.spawn(context.Background(), "/t", func(context.Context) error {
			if i == 0 {
				<-release
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	close(release)
	g.wait()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..3", order)
		}
	}
	if len(order) != 4 {
		t.Errorf("ran %d tasks, want 4", len(order))
	}
}

func TestTaskGroupSkipsCancelledBacklog(t *testing.T) {
	g := newTaskGroup(1)
	release := make(chan struct{})
	g.spawn(context.Background(), "/a", func(context.Context) error {
		<-release
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	g.spawn(ctx, "/b", func(context.Context) error {
		ran = true
		return nil
	})
	cancel()
	close(release)
	g.wait()
	if ran {
		t.Error("backlogged task with a cancelled context ran")
	}
}

func TestTaskGroupErrors(t *testing.T) {
	g := newTaskGroup(0)
	g.spawn(context.Background(), "/root/a", func(context.Context) error {
		return errors.New("boom")
	})
	g.spawn(context.Background(), "/root/b", func(context.Context) error { return nil })
	g.wait()

	errs := g.poll()
	if len(errs) != 1 || errs[0].Error() != "task of /root/a: boom" {
		t.Fatalf("errors = %v", errs)
	}
	if len(g.poll()) != 0 {
		t.Error("poll returned the same error twice")
	}
}

func TestTaskGroupWaitDropsBacklog(t *testing.T) {
	g := newTaskGroup(1)
	release := make(chan struct{})
	g.spawn(context.Background(), "/a", func(context.Context) error {
		<-release
		return nil
	})
	ran := atomic.Bool{}
	g.spawn(context.Background(), "/b", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	go func() {
		for g.queued() != 0 {
			runtime.Gosched()
		}
		close(release)
	}()
	g.wait()
	if ran.Load() {
		t.Error("backlogged task ran after wait dropped it")
	}
}
