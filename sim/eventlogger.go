package sim

import (
	"log"
)

// EventLogger is a hook that writes one line for every event an engine
// handles.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an EventLogger that writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the time, the type and the handler of the event.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	h.logger.Printf("%.10f, %T -> %s", evt.Time(), evt, handlerName(evt))
}

func handlerName(evt Event) string {
	if named, ok := evt.Handler().(Named); ok {
		return named.Name()
	}

	return "?"
}
