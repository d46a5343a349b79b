package sim

import (
	"log"
	"sync"
)

// A SerialEngine handles events one at a time, in time order. At equal
// times, primary events go before secondary events.
type SerialEngine struct {
	HookableBase

	nowLock sync.RWMutex
	now     VTimeInSec

	primary   EventQueue
	secondary EventQueue

	// runLock allows a single Run or RunUntil at a time. gate is held while
	// an event is handled and while the engine is paused.
	runLock   sync.Mutex
	gate      sync.Mutex
	pauseLock sync.Mutex
	paused    bool

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine at time 0.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		primary:   NewEventQueue(),
		secondary: NewEventQueue(),
	}
}

// Name returns the name of the engine.
func (e *SerialEngine) Name() string {
	return "SerialEngine"
}

// Schedule queues an event. Scheduling an event earlier than the current time
// panics.
func (e *SerialEngine) Schedule(evt Event) {
	now := e.CurrentTime()
	if evt.Time() < now {
		log.Panicf("cannot schedule %T at %.10f, now is %.10f",
			evt, evt.Time(), now)
	}

	if evt.IsSecondary() {
		e.secondary.Push(evt)
	} else {
		e.primary.Push(evt)
	}
}

// CurrentTime returns the time of the event being handled, or of the last
// handled event.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.nowLock.RLock()
	defer e.nowLock.RUnlock()

	return e.now
}

func (e *SerialEngine) advanceTo(t VTimeInSec) {
	e.nowLock.Lock()
	defer e.nowLock.Unlock()

	if t < e.now {
		log.Panicf("cannot go back in time from %.10f to %.10f", e.now, t)
	}

	e.now = t
}

// Run handles events until no event is left.
func (e *SerialEngine) Run() error {
	return e.run(func(Event) bool { return true })
}

// RunUntil handles the events scheduled no later than t.
func (e *SerialEngine) RunUntil(t VTimeInSec) error {
	return e.run(func(evt Event) bool { return evt.Time() <= t })
}

func (e *SerialEngine) run(accept func(Event) bool) error {
	e.runLock.Lock()
	defer e.runLock.Unlock()

	for {
		handled, err := e.step(accept)
		if err != nil || !handled {
			return err
		}
	}
}

// step handles the next event if accept allows it.
func (e *SerialEngine) step(accept func(Event) bool) (bool, error) {
	e.gate.Lock()
	defer e.gate.Unlock()

	q := e.nextQueue()
	if q == nil || !accept(q.Peek()) {
		return false, nil
	}

	evt := q.Pop()
	e.advanceTo(evt.Time())

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)
	if err != nil {
		return false, err
	}

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return true, nil
}

// nextQueue returns the queue that holds the next event, or nil if both
// queues are empty.
func (e *SerialEngine) nextQueue() EventQueue {
	switch {
	case e.primary.Len() == 0 && e.secondary.Len() == 0:
		return nil
	case e.secondary.Len() == 0:
		return e.primary
	case e.primary.Len() == 0:
		return e.secondary
	case e.primary.Peek().Time() <= e.secondary.Peek().Time():
		return e.primary
	default:
		return e.secondary
	}
}

// Pause stops the engine after the event being handled. It returns once no
// event is being handled.
func (e *SerialEngine) Pause() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if !e.paused {
		e.gate.Lock()
		e.paused = true
	}
}

// Continue lets a paused engine handle events again.
func (e *SerialEngine) Continue() {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	if e.paused {
		e.paused = false
		e.gate.Unlock()
	}
}

// RegisterSimulationEndHandler adds a handler that Finished notifies.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished notifies every registered SimulationEndHandler.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
