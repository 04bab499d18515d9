package table

import "sync"

// Scheduler defers work to the host's next loop turn.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Schedule calls f(fn).
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// Immediate runs work synchronously. It is the default when the host has no
// loop to yield to.
var Immediate Scheduler = SchedulerFunc(func(fn func()) { fn() })

// Queue holds scheduled work until Drain. Hosts that poll, and tests, use it
// to control when deferred renders happen.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// Schedule implements Scheduler.
func (q *Queue) Schedule(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs pending tasks, including ones scheduled while draining, and
// returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()
		if len(tasks) == 0 {
			return n
		}
		for _, fn := range tasks {
			fn()
			n++
		}
	}
}
