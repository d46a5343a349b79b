package signal

import (
	"log"

	"github.com/pkg/errors"
	"github.com/sarchlab/fifoadapter/sim"
)

// In is a read-only endpoint of a signal.
type In[T comparable] struct {
	name string
	sig  *Signal[T]
}

// NewIn creates an unbound input port.
func NewIn[T comparable](name string) *In[T] {
	sim.NameMustBeValid(name)

	return &In[T]{name: name}
}

// Name returns the name of the port.
func (p *In[T]) Name() string {
	return p.name
}

// Bind connects the port to a signal. A port can only be bound once.
func (p *In[T]) Bind(s *Signal[T]) error {
	if s == nil {
		return errors.Wrapf(ErrNilSignal, "binding %s", p.name)
	}

	if p.sig != nil {
		return errors.Wrapf(ErrAlreadyBound,
			"%s is bound to %s", p.name, p.sig.Name())
	}

	p.sig = s

	return nil
}

// IsBound returns true if the port is connected to a signal.
func (p *In[T]) IsBound() bool {
	return p.sig != nil
}

// Read returns the settled value of the bound signal.
func (p *In[T]) Read() T {
	return p.mustBeBound().Read()
}

func (p *In[T]) mustBeBound() *Signal[T] {
	if p.sig == nil {
		log.Panicf("port %s is not bound", p.name)
	}

	return p.sig
}

// Out is a read-write endpoint of a signal. An output port is the only
// writer of the signal it is bound to.
type Out[T comparable] struct {
	In[T]
}

// NewOut creates an unbound output port.
func NewOut[T comparable](name string) *Out[T] {
	sim.NameMustBeValid(name)

	return &Out[T]{In: In[T]{name: name}}
}

// Bind connects the port to a signal and claims the signal as its driver.
func (p *Out[T]) Bind(s *Signal[T]) error {
	if s == nil {
		return errors.Wrapf(ErrNilSignal, "binding %s", p.name)
	}

	if p.sig != nil {
		return errors.Wrapf(ErrAlreadyBound,
			"%s is bound to %s", p.name, p.sig.Name())
	}

	err := s.Claim(p.name)
	if err != nil {
		return err
	}

	p.sig = s

	return nil
}

// Write stages the next value of the bound signal.
func (p *Out[T]) Write(v T) {
	p.mustBeBound().Write(v)
}

// Init sets the reset value of the bound signal.
func (p *Out[T]) Init(v T) {
	p.mustBeBound().Init(v)
}
