package tracing

import (
	"sync"

	"github.com/sarchlab/fifoadapter/sim"
)

// AverageTimeTracer measures how long the tasks that pass its filter take,
// for example how many seconds an adapter holds an item.
type AverageTimeTracer struct {
	timeTeller sim.TimeTeller
	filter     TaskFilter

	lock      sync.Mutex
	started   map[string]sim.VTimeInSec
	totalTime sim.VTimeInSec
	maxTime   sim.VTimeInSec
	taskCount uint64
}

// NewAverageTimeTracer creates a new AverageTimeTracer. A nil filter accepts
// all tasks.
func NewAverageTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	return &AverageTimeTracer{
		timeTeller: timeTeller,
		filter:     filter,
		started:    make(map[string]sim.VTimeInSec),
	}
}

// AverageTime returns the mean duration of the completed tasks, or 0 if no
// task has completed.
func (t *AverageTimeTracer) AverageTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return t.totalTime / sim.VTimeInSec(t.taskCount)
}

// MaxTime returns the longest duration of the completed tasks.
func (t *AverageTimeTracer) MaxTime() sim.VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.maxTime
}

// TotalCount returns the number of completed tasks.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// StartTask records when a task starts.
func (t *AverageTimeTracer) StartTask(task Task) {
	now := t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.started[task.ID] = now
	t.lock.Unlock()
}

// EndTask adds the duration of a started task to the statistics.
func (t *AverageTimeTracer) EndTask(task Task) {
	now := t.timeTeller.CurrentTime()

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.started[task.ID]
	if !ok {
		return
	}

	delete(t.started, task.ID)

	duration := now - start
	t.totalTime += duration
	t.taskCount++

	if duration > t.maxTime {
		t.maxTime = duration
	}
}
