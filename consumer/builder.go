package consumer

import (
	"log"

	"github.com/sarchlab/fifoadapter/signal"
	"github.com/sarchlab/fifoadapter/sim"
)

// A Builder can build sinks.
type Builder[T comparable] struct {
	clock  *sim.Clock
	policy ReadyPolicy
}

// MakeBuilder creates a Builder whose sinks are always ready.
func MakeBuilder[T comparable]() Builder[T] {
	return Builder[T]{
		policy: AlwaysReady(),
	}
}

// WithClock sets the clock that drives the sink.
func (b Builder[T]) WithClock(clock *sim.Clock) Builder[T] {
	b.clock = clock
	return b
}

// WithPolicy sets the policy that drives ready.
func (b Builder[T]) WithPolicy(policy ReadyPolicy) Builder[T] {
	b.policy = policy
	return b
}

// Build creates a sink and registers it to the clock.
func (b Builder[T]) Build(name string) *Sink[T] {
	if b.clock == nil {
		log.Panicf("sink %s requires a clock", name)
	}

	s := &Sink[T]{
		ComponentBase: sim.NewComponentBase(name),
		clock:         b.clock,
		policy:        b.policy,
		valid:         signal.NewIn[bool](sim.BuildName(name, "Valid")),
		ready:         signal.NewOut[bool](sim.BuildName(name, "Ready")),
		data:          signal.NewIn[T](sim.BuildName(name, "Data")),
	}

	b.clock.RegisterProcess(s)

	return s
}
