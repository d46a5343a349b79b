package handshake

import (
	"log"

	"github.com/sarchlab/fifoadapter/signal"
	"github.com/sarchlab/fifoadapter/sim"
)

// A Builder can build handshake adapters.
type Builder[T comparable] struct {
	clock       *sim.Clock
	source      Source[T]
	sentinel    T
	hasSentinel bool
}

// MakeBuilder creates a new Builder with default parameters.
func MakeBuilder[T comparable]() Builder[T] {
	return Builder[T]{}
}

// WithClock sets the clock that drives the adapter.
func (b Builder[T]) WithClock(clock *sim.Clock) Builder[T] {
	b.clock = clock
	return b
}

// WithSource sets the queue that the adapter pulls items from.
func (b Builder[T]) WithSource(source Source[T]) Builder[T] {
	b.source = source
	return b
}

// WithSentinel sets the value driven on data while valid is low.
func (b Builder[T]) WithSentinel(sentinel T) Builder[T] {
	b.sentinel = sentinel
	b.hasSentinel = true

	return b
}

// Build creates an adapter and registers it to the clock.
func (b Builder[T]) Build(name string) *Adapter[T] {
	if b.clock == nil {
		log.Panicf("adapter %s requires a clock", name)
	}

	if b.source == nil {
		log.Panicf("adapter %s requires a source", name)
	}

	a := &Adapter[T]{
		ComponentBase: sim.NewComponentBase(name),
		clock:         b.clock,
		source:        b.source,
		sentinel:      b.sentinel,
	}

	if !b.hasSentinel {
		a.sentinel = defaultSentinel[T]()
	}

	a.valid = signal.New(sim.BuildName(name, "Valid"), false)
	a.ready = signal.New(sim.BuildName(name, "Ready"), false)
	a.data = signal.New(sim.BuildName(name, "Data"), a.sentinel)

	mustClaim(a.valid, name)
	mustClaim(a.data, name)

	a.driver = &driver[T]{adapter: a}
	a.monitor = &transferMonitor[T]{adapter: a}

	b.clock.RegisterProcess(a.driver)
	b.clock.RegisterProcess(a.monitor)
	b.clock.RegisterUpdater(a.valid)
	b.clock.RegisterUpdater(a.ready)
	b.clock.RegisterUpdater(a.data)

	return a
}

func mustClaim[T comparable](s *signal.Signal[T], driver string) {
	err := s.Claim(driver)
	if err != nil {
		log.Panic(err)
	}
}
