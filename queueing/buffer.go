// Package queueing provides the upstream sources that feed stimulus into a
// simulation.
package queueing

import (
	"log"
	"sync"

	"github.com/sarchlab/fifoadapter/sim"
)

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &sim.HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is pulled from the buffer.
var HookPosBufPop = &sim.HookPos{Name: "Buffer Pop"}

// Buffer is a bounded FIFO queue. Its level can be read from other goroutines
// while a simulation runs.
type Buffer[T any] struct {
	sim.HookableBase

	name     string
	capacity int

	lock     sync.RWMutex
	elements []T
}

// NewBuffer creates a new buffer object.
func NewBuffer[T any](name string, capacity int) *Buffer[T] {
	sim.NameMustBeValid(name)

	if capacity <= 0 {
		log.Panicf("buffer %s must have a positive capacity", name)
	}

	return &Buffer[T]{
		name:     name,
		capacity: capacity,
	}
}

// Name returns the name of the buffer.
func (b *Buffer[T]) Name() string {
	return b.name
}

// CanPush checks if the buffer can accept a new element.
func (b *Buffer[T]) CanPush() bool {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.elements) < b.capacity
}

// Push adds an element to the back of the buffer. It panics if the buffer is
// full.
func (b *Buffer[T]) Push(e T) {
	b.lock.Lock()
	if len(b.elements) >= b.capacity {
		b.lock.Unlock()
		log.Panicf("buffer %s overflow", b.name)
	}

	b.elements = append(b.elements, e)
	b.lock.Unlock()

	if b.NumHooks() > 0 {
		b.InvokeHook(sim.HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}
}

// TryPull removes and returns the front element. It returns false without
// blocking if the buffer is empty.
func (b *Buffer[T]) TryPull() (T, bool) {
	var e T

	b.lock.Lock()
	if len(b.elements) == 0 {
		b.lock.Unlock()
		return e, false
	}

	e = b.elements[0]
	b.elements = b.elements[1:]
	b.lock.Unlock()

	if b.NumHooks() > 0 {
		b.InvokeHook(sim.HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
		})
	}

	return e, true
}

// Peek returns the front element without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if len(b.elements) == 0 {
		var zero T
		return zero, false
	}

	return b.elements[0], true
}

// Capacity returns the maximum number of elements the buffer can hold.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Size returns the number of elements in the buffer.
func (b *Buffer[T]) Size() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.elements)
}

// Clear removes all the elements.
func (b *Buffer[T]) Clear() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.elements = nil
}
