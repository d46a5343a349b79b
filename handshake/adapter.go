// Package handshake provides an adapter that feeds items pulled from a queue
// into a clocked valid/ready handshake.
//
// The adapter owns three signals. It drives valid and data, and the
// downstream consumer drives ready. Two processes run on every rising edge of
// the clock. The driver pulls one item at a time and holds it on the data
// signal until the consumer acknowledges it. The transfer monitor counts the
// cycles in which valid and ready are both high.
package handshake

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sarchlab/fifoadapter/signal"
	"github.com/sarchlab/fifoadapter/sim"
)

// A Source provides items without blocking. TryPull returns false if no item
// is available.
type Source[T any] interface {
	TryPull() (T, bool)
}

var (
	// HookPosPull is triggered when the driver pulls an item from the source.
	// The item is the pulled item.
	HookPosPull = &sim.HookPos{Name: "HandshakePull"}

	// HookPosTransfer is triggered when the monitor counts a transfer. The
	// item is a TransferRecord.
	HookPosTransfer = &sim.HookPos{Name: "HandshakeTransfer"}

	// HookPosStall is triggered when the driver holds an item while ready is
	// low. The item is the held item.
	HookPosStall = &sim.HookPos{Name: "HandshakeStall"}
)

var (
	// ErrAlreadyBound is returned when an adapter is bound a second time.
	ErrAlreadyBound = errors.New("adapter already bound")

	// ErrBindAfterStart is returned when an adapter is bound after its clock
	// has generated the first edge.
	ErrBindAfterStart = errors.New("cannot bind after the simulation starts")

	// ErrNilPort is returned when Bind receives a nil port.
	ErrNilPort = errors.New("cannot bind a nil port")
)

// TransferRecord describes a completed transfer.
type TransferRecord struct {
	Cycle uint64
	Time  sim.VTimeInSec
	Data  any
	Count uint64
}

// Adapter bridges a Source to a valid/ready handshake.
type Adapter[T comparable] struct {
	*sim.ComponentBase

	clock    *sim.Clock
	source   Source[T]
	sentinel T

	valid *signal.Signal[bool]
	ready *signal.Signal[bool]
	data  *signal.Signal[T]

	bound atomic.Bool

	driver  *driver[T]
	monitor *transferMonitor[T]

	transferCount atomic.Uint64
}

// Bind connects the signals of the adapter to the ports of a consumer. The
// consumer observes valid and data, and drives ready. An adapter can only be
// bound once, before its clock starts.
func (a *Adapter[T]) Bind(
	valid *signal.In[bool],
	ready *signal.Out[bool],
	data *signal.In[T],
) error {
	if valid == nil || ready == nil || data == nil {
		return errors.Wrapf(ErrNilPort, "binding %s", a.Name())
	}

	if !a.bound.CompareAndSwap(false, true) {
		return errors.Wrapf(ErrAlreadyBound, "binding %s", a.Name())
	}

	err := a.bind(valid, ready, data)
	if err != nil {
		a.bound.Store(false)
		return err
	}

	return nil
}

// bind connects the ports once the adapter is reserved for them.
func (a *Adapter[T]) bind(
	valid *signal.In[bool],
	ready *signal.Out[bool],
	data *signal.In[T],
) error {
	if a.clock.Started() {
		return errors.Wrapf(ErrBindAfterStart,
			"binding %s at cycle %d", a.Name(), a.clock.Cycle())
	}

	names := boundPortNames(valid, &ready.In, data)
	if len(names) > 0 {
		return errors.Wrapf(signal.ErrAlreadyBound,
			"binding %s to %s", a.Name(), strings.Join(names, ", "))
	}

	err := ready.Bind(a.ready)
	if err != nil {
		return errors.Wrapf(err, "binding %s", a.Name())
	}

	mustBind(valid, a.valid)
	mustBind(data, a.data)

	return nil
}

func boundPortNames[T comparable](
	valid *signal.In[bool],
	ready *signal.In[bool],
	data *signal.In[T],
) []string {
	var names []string

	if valid.IsBound() {
		names = append(names, valid.Name())
	}

	if ready.IsBound() {
		names = append(names, ready.Name())
	}

	if data.IsBound() {
		names = append(names, data.Name())
	}

	return names
}

func mustBind[T comparable](p *signal.In[T], s *signal.Signal[T]) {
	err := p.Bind(s)
	if err != nil {
		panic(err)
	}
}

// IsBound returns true if Bind has succeeded.
func (a *Adapter[T]) IsBound() bool {
	return a.bound.Load()
}

// TransferCount returns the number of cycles in which valid and ready were
// both high.
func (a *Adapter[T]) TransferCount() uint64 {
	return a.transferCount.Load()
}

// Valid returns the settled value of the valid signal.
func (a *Adapter[T]) Valid() bool {
	return a.valid.Read()
}

// Data returns the settled value of the data signal. It is the sentinel while
// valid is low.
func (a *Adapter[T]) Data() T {
	return a.data.Read()
}

// Ready returns the settled value of the ready signal.
func (a *Adapter[T]) Ready() bool {
	return a.ready.Read()
}

// IsHolding returns true if the driver holds an item that has not been
// acknowledged.
func (a *Adapter[T]) IsHolding() bool {
	return a.driver.holding.Load()
}

// Sentinel returns the value driven on data while valid is low.
func (a *Adapter[T]) Sentinel() T {
	return a.sentinel
}

func (a *Adapter[T]) mustBeBound() {
	if !a.bound.Load() {
		log.Panicf("adapter %s is not bound", a.Name())
	}
}
