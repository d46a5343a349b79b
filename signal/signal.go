// Package signal provides clocked signals and the ports that connect
// components to them.
//
// A signal holds two values. The current value is what every reader sees
// during a cycle. Writes only stage the next value, which becomes current when
// the clock that owns the signal runs its update phase. A process therefore
// never observes a value written in the same cycle.
package signal

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sarchlab/fifoadapter/sim"
)

// HookPosValueChange is triggered when an update changes the current value of
// a signal. The item is the new value and the detail is the old value.
var HookPosValueChange = &sim.HookPos{Name: "SignalValueChange"}

var (
	// ErrAlreadyBound is returned when binding a port that is already bound.
	ErrAlreadyBound = errors.New("port already bound")

	// ErrMultipleDrivers is returned when a second writer claims a signal.
	ErrMultipleDrivers = errors.New("signal already has a driver")

	// ErrNilSignal is returned when binding a port to a nil signal.
	ErrNilSignal = errors.New("cannot bind to a nil signal")
)

// Signal is a clocked wire carrying a value of type T.
type Signal[T comparable] struct {
	sim.HookableBase

	name string

	lock    sync.RWMutex
	current T
	next    T
	driver  string
}

// New creates a signal whose current and next values are both initial.
func New[T comparable](name string, initial T) *Signal[T] {
	sim.NameMustBeValid(name)

	return &Signal[T]{
		name:    name,
		current: initial,
		next:    initial,
	}
}

// Name returns the name of the signal.
func (s *Signal[T]) Name() string {
	return s.name
}

// Read returns the value settled at the last update.
func (s *Signal[T]) Read() T {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.current
}

// Write stages v as the next value. If a signal is written several times in
// a cycle, the last write wins.
func (s *Signal[T]) Write(v T) {
	s.lock.Lock()
	s.next = v
	s.lock.Unlock()
}

// Init sets both the current and the next value. It is meant for setting
// reset values before the clock starts.
func (s *Signal[T]) Init(v T) {
	s.lock.Lock()
	s.current = v
	s.next = v
	s.lock.Unlock()
}

// Update makes the staged value current. It returns true if the current value
// changed.
func (s *Signal[T]) Update() bool {
	s.lock.Lock()
	old := s.current
	s.current = s.next
	changed := old != s.current
	s.lock.Unlock()

	if changed && s.NumHooks() > 0 {
		s.InvokeHook(sim.HookCtx{
			Domain: s,
			Pos:    HookPosValueChange,
			Item:   s.next,
			Detail: old,
		})
	}

	return changed
}

// Claim reserves the signal for a single writer.
func (s *Signal[T]) Claim(driver string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.driver != "" {
		return errors.Wrapf(ErrMultipleDrivers,
			"%s cannot drive %s, driven by %s", driver, s.name, s.driver)
	}

	s.driver = driver

	return nil
}

// Driver returns the name of the writer that claimed the signal.
func (s *Signal[T]) Driver() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.driver
}
