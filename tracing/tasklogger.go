package tracing

import (
	"log"
	"sync"

	"github.com/sarchlab/fifoadapter/sim"
)

// TaskLogger is a tracer that writes one line for every finished task.
type TaskLogger struct {
	logger     *log.Logger
	timeTeller sim.TimeTeller

	lock          sync.Mutex
	inflightTasks map[string]Task
}

// NewTaskLogger creates a TaskLogger that writes into the logger.
func NewTaskLogger(logger *log.Logger, timeTeller sim.TimeTeller) *TaskLogger {
	return &TaskLogger{
		logger:        logger,
		timeTeller:    timeTeller,
		inflightTasks: make(map[string]Task),
	}
}

// StartTask remembers the task until it ends.
func (l *TaskLogger) StartTask(task Task) {
	task.StartTime = l.timeTeller.CurrentTime()

	l.lock.Lock()
	l.inflightTasks[task.ID] = task
	l.lock.Unlock()
}

// EndTask writes the task into the logger.
func (l *TaskLogger) EndTask(task Task) {
	l.lock.Lock()
	originalTask, ok := l.inflightTasks[task.ID]
	delete(l.inflightTasks, task.ID)
	l.lock.Unlock()

	if !ok {
		return
	}

	originalTask.EndTime = l.timeTeller.CurrentTime()

	l.logger.Printf("%.10f, %.10f, %s, %s, %s, %s",
		originalTask.StartTime, originalTask.EndTime,
		originalTask.Location, originalTask.Kind, originalTask.What,
		originalTask.ID)
}
