// Package consumer provides a downstream consumer for handshake adapters.
package consumer

import (
	"sync"

	"github.com/sarchlab/fifoadapter/signal"
	"github.com/sarchlab/fifoadapter/sim"
)

// A Binder connects its signals to the ports of a consumer.
type Binder[T comparable] interface {
	Bind(
		valid *signal.In[bool],
		ready *signal.Out[bool],
		data *signal.In[T],
	) error
}

// Sink is a consumer that drives ready according to a ReadyPolicy and keeps
// every item it accepts.
type Sink[T comparable] struct {
	*sim.ComponentBase

	clock  *sim.Clock
	policy ReadyPolicy

	valid *signal.In[bool]
	ready *signal.Out[bool]
	data  *signal.In[T]

	lock     sync.Mutex
	received []T
}

// Ports returns the valid, ready and data ports of the sink.
func (s *Sink[T]) Ports() (
	valid *signal.In[bool],
	ready *signal.Out[bool],
	data *signal.In[T],
) {
	return s.valid, s.ready, s.data
}

// Connect binds the sink to a producer and sets ready to the value the policy
// chooses for the first cycle. Without Connect, ready starts low.
func (s *Sink[T]) Connect(producer Binder[T]) error {
	err := producer.Bind(s.Ports())
	if err != nil {
		return err
	}

	s.ready.Init(s.policy.Ready(1))

	return nil
}

// Tick accepts data if valid and ready are both high and decides ready for
// the next cycle.
func (s *Sink[T]) Tick() bool {
	accepted := false

	if s.valid.Read() && s.ready.Read() {
		s.lock.Lock()
		s.received = append(s.received, s.data.Read())
		s.lock.Unlock()

		accepted = true
	}

	s.ready.Write(s.policy.Ready(s.clock.Cycle() + 1))

	return accepted
}

// Received returns the accepted items in order.
func (s *Sink[T]) Received() []T {
	s.lock.Lock()
	defer s.lock.Unlock()

	items := make([]T, len(s.received))
	copy(items, s.received)

	return items
}

// NumReceived returns the number of accepted items.
func (s *Sink[T]) NumReceived() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return len(s.received)
}
