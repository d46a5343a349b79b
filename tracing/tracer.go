package tracing

// A Tracer receives the tasks of the domains it is attached to.
type Tracer interface {
	// StartTask is called when a domain starts a task.
	StartTask(task Task)

	// EndTask is called when a domain ends a task. Only the ID of the task is
	// guaranteed to be set.
	EndTask(task Task)
}
