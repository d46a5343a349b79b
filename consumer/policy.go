package consumer

import (
	"log"
	"math/rand"

	"github.com/pkg/errors"
)

// A ReadyPolicy decides whether the consumer accepts data at a cycle. Cycles
// are numbered from 1.
type ReadyPolicy interface {
	Ready(cycle uint64) bool
}

// ReadyFunc turns a function into a ReadyPolicy.
type ReadyFunc func(cycle uint64) bool

// Ready calls the function.
func (f ReadyFunc) Ready(cycle uint64) bool {
	return f(cycle)
}

// AlwaysReady returns a policy that accepts data at every cycle.
func AlwaysReady() ReadyPolicy {
	return ReadyFunc(func(uint64) bool { return true })
}

// NeverReady returns a policy that never accepts data.
func NeverReady() ReadyPolicy {
	return ReadyFunc(func(uint64) bool { return false })
}

// PatternReady returns a policy that follows a pattern, one element per
// cycle. After the pattern ends, the policy starts over if repeat is set and
// stays low otherwise.
func PatternReady(pattern []bool, repeat bool) ReadyPolicy {
	p := make([]bool, len(pattern))
	copy(p, pattern)

	return ReadyFunc(func(cycle uint64) bool {
		if len(p) == 0 || cycle == 0 {
			return false
		}

		i := cycle - 1
		if i >= uint64(len(p)) {
			if !repeat {
				return false
			}

			i %= uint64(len(p))
		}

		return p[i]
	})
}

// RandomReady returns a policy that is ready with the given probability. The
// policy draws one number per call, so a seed always reproduces the same
// sequence.
func RandomReady(seed int64, probability float64) ReadyPolicy {
	if probability < 0 || probability > 1 {
		log.Panicf("probability %f is not in [0, 1]", probability)
	}

	rng := rand.New(rand.NewSource(seed))

	return ReadyFunc(func(uint64) bool {
		return rng.Float64() < probability
	})
}

// ParsePattern converts a string such as "0110" into a pattern. Underscores
// can be used as separators.
func ParsePattern(s string) ([]bool, error) {
	pattern := make([]bool, 0, len(s))

	for i, c := range s {
		switch c {
		case '0':
			pattern = append(pattern, false)
		case '1':
			pattern = append(pattern, true)
		case '_':
		default:
			return nil, errors.Errorf(
				"invalid character %q at position %d in pattern %q", c, i, s)
		}
	}

	if len(pattern) == 0 {
		return nil, errors.Errorf("pattern %q is empty", s)
	}

	return pattern, nil
}
