package queueing

// ChanSource pulls items from a Go channel without blocking. It lets a
// producer goroutine feed a simulation.
type ChanSource[T any] struct {
	ch <-chan T
}

// NewChanSource wraps a channel.
func NewChanSource[T any](ch <-chan T) *ChanSource[T] {
	return &ChanSource[T]{ch: ch}
}

// TryPull returns the next item if one is ready. A closed channel is reported
// as empty.
func (s *ChanSource[T]) TryPull() (T, bool) {
	select {
	case item, ok := <-s.ch:
		return item, ok
	default:
		var zero T
		return zero, false
	}
}
