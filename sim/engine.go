package sim

// TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}

// EventScheduler accepts events to handle at or after the current time.
type EventScheduler interface {
	TimeTeller

	Schedule(e Event)
}

// A SimulationEndHandler is notified when the simulation finishes.
type SimulationEndHandler interface {
	Handle(now VTimeInSec)
}

// An Engine handles scheduled events in time order.
type Engine interface {
	Hookable
	EventScheduler

	// Run handles events until the queues are empty.
	Run() error

	// RunUntil handles the events scheduled no later than t and leaves the
	// rest queued, so that a later call resumes the simulation.
	RunUntil(t VTimeInSec) error

	// Pause blocks event handling until Continue is called.
	Pause()

	// Continue resumes event handling after Pause.
	Continue()

	// RegisterSimulationEndHandler adds a handler that Finished notifies.
	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished notifies every SimulationEndHandler.
	Finished()
}
