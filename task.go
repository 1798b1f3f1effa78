package grove

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// task is a spawned function with the context and owner it runs for.
type task struct {
	ctx   context.Context
	owner string
	fn    func(ctx context.Context) error
}

// taskGroup runs spawned tasks on an errgroup, at most limit at once.
// Tasks over the limit wait in a backlog; a worker that finishes its task
// takes the next backlogged one before it returns.
type taskGroup struct {
	group errgroup.Group
	limit int

	mu      sync.Mutex
	running int
	backlog []task
	failed  []error
}

// newTaskGroup creates a group running at most limit tasks at once.
// limit <= 0 means no limit.
func newTaskGroup(limit int) *taskGroup {
	return &taskGroup{limit: limit}
}

func (g *taskGroup) spawn(ctx context.Context, owner string, fn func(ctx context.Context) error) {
	t := task{ctx: ctx, owner: owner, fn: fn}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.limit > 0 && g.running >= g.limit {
		g.backlog = append(g.backlog, t)
		return
	}
	g.running++
	g.group.Go(g.worker(t))
}

// worker runs t, then backlogged tasks until none are left. The errgroup
// never sees an error, so one failing task does not affect the others.
func (g *taskGroup) worker(t task) func() error {
	return func() error {
		for {
			g.run(t)
			next, ok := g.next()
			if !ok {
				return nil
			}
			t = next
		}
	}
}

// next pops the oldest backlogged task whose context is still live. When
// there is none it releases the caller's slot.
func (g *taskGroup) next() (task, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for len(g.backlog) > 0 {
		t := g.backlog[0]
		g.backlog = g.backlog[1:]
		if t.ctx.Err() == nil {
			return t, true
		}
	}
	g.running--
	return task{}, false
}

// run calls the task and records its error for the next poll. Errors of
// tasks whose context was cancelled are dropped.
func (g *taskGroup) run(t task) {
	if t.ctx.Err() != nil {
		return
	}
	if err := t.fn(t.ctx); err != nil && t.ctx.Err() == nil {
		g.mu.Lock()
		g.failed = append(g.failed, fmt.Errorf("task of %s: %w", t.owner, err))
		g.mu.Unlock()
	}
}

// poll returns the errors reported since the previous poll.
func (g *taskGroup) poll() []error {
	g.mu.Lock()
	defer g.mu.Unlock()
	failed := g.failed
	g.failed = nil
	return failed
}

// queued returns the number of backlogged tasks.
func (g *taskGroup) queued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.backlog)
}

// wait drops the backlog and blocks until every running task returns.
func (g *taskGroup) wait() {
	g.mu.Lock()
	g.backlog = nil
	g.mu.Unlock()
	_ = g.group.Wait()
}
