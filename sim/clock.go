package sim

import (
	"log"
	"reflect"
	"sync"
	"sync/atomic"
)

// A Process is woken up at every rising edge of the clock it is registered
// to. During Tick, a process reads values settled at the previous edge and
// stages the values that become visible at the next edge.
type Process interface {
	// Tick evaluates one cycle. It returns true if progress is made.
	Tick() bool
}

// An Updater commits staged values once all the processes of an edge have
// been evaluated.
type Updater interface {
	// Update makes the staged value visible. It returns true if the visible
	// value changed.
	Update() bool
}

// HookPosClockEdge marks a rising edge, before any process is evaluated. The
// item is the cycle number.
var HookPosClockEdge = &HookPos{Name: "ClockEdge"}

// HookPosClockUpdate marks the end of the update phase of an edge. The item
// is the cycle number.
var HookPosClockUpdate = &HookPos{Name: "ClockUpdate"}

// EdgeEvent triggers the evaluate phase of a clock cycle.
type EdgeEvent struct {
	EventBase
}

// UpdateEvent triggers the update phase of a clock cycle. It is a secondary
// event, so it runs after every primary event of the same time.
type UpdateEvent struct {
	EventBase
}

// Clock is a free-running rising-edge tick source. Each edge has two phases:
// all registered processes are evaluated, then all registered updaters
// commit.
type Clock struct {
	*ComponentBase

	Freq   Freq
	Engine Engine

	lock        sync.Mutex
	processes   []Process
	updaters    []Updater
	running     bool
	edgePending bool
	cycle       atomic.Uint64
}

// NewClock creates a stopped clock.
func NewClock(name string, engine Engine, freq Freq) *Clock {
	c := &Clock{
		ComponentBase: NewComponentBase(name),
		Freq:          freq,
		Engine:        engine,
	}

	return c
}

// RegisterProcess adds a process to be evaluated at every rising edge.
// Processes are evaluated in the order they are registered.
func (c *Clock) RegisterProcess(p Process) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.processes = append(c.processes, p)
}

// RegisterUpdater adds an updater to be committed at every rising edge.
func (c *Clock) RegisterUpdater(u Updater) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.updaters = append(c.updaters, u)
}

// Start lets the clock generate edges, the first one a period after the
// current time.
func (c *Clock) Start() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.running = true
	if !c.edgePending {
		c.scheduleEdge()
	}
}

// Stop prevents the clock from generating more edges. An edge that is
// already scheduled is dropped.
func (c *Clock) Stop() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.running = false
}

// Started returns true once the clock has generated its first edge.
func (c *Clock) Started() bool {
	return c.cycle.Load() > 0
}

// Cycle returns the number of edges generated so far.
func (c *Clock) Cycle() uint64 {
	return c.cycle.Load()
}

// CurrentTime returns the current time of the engine that drives the clock.
func (c *Clock) CurrentTime() VTimeInSec {
	return c.Engine.CurrentTime()
}

// Handle processes the edge and update events of the clock.
func (c *Clock) Handle(e Event) error {
	switch e := e.(type) {
	case EdgeEvent:
		c.evaluate(e)
	case UpdateEvent:
		c.update()
	default:
		log.Panicf("clock %s cannot handle event of type %s",
			c.Name(), reflect.TypeOf(e))
	}

	return nil
}

func (c *Clock) scheduleEdge() {
	now := c.Engine.CurrentTime()
	evt := EdgeEvent{EventBase: *NewEventBase(c.Freq.NextTick(now), c)}
	c.Engine.Schedule(evt)
	c.edgePending = true
}

func (c *Clock) evaluate(e EdgeEvent) {
	c.lock.Lock()
	c.edgePending = false
	running := c.running
	processes := c.processes
	c.lock.Unlock()

	if !running {
		return
	}

	cycle := c.cycle.Add(1)
	c.InvokeHook(HookCtx{Domain: c, Pos: HookPosClockEdge, Item: cycle})

	for _, p := range processes {
		p.Tick()
	}

	c.Engine.Schedule(UpdateEvent{
		EventBase: *NewSecondaryEventBase(e.Time(), c),
	})

	c.lock.Lock()
	if c.running && !c.edgePending {
		c.scheduleEdge()
	}
	c.lock.Unlock()
}

func (c *Clock) update() {
	c.lock.Lock()
	updaters := c.updaters
	c.lock.Unlock()

	for _, u := range updaters {
		u.Update()
	}

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosClockUpdate,
		Item:   c.cycle.Load(),
	})
}
