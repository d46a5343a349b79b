package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many of a known number of steps, such as the
// cycles of a run, are finished.
type ProgressBar struct {
	lock      sync.Mutex
	id        string
	name      string
	startTime time.Time
	total     uint64
	finished  uint64
}

// IncrementFinished marks more steps as finished. The count saturates at the
// total.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.finished += amount
	if b.finished > b.total {
		b.finished = b.total
	}
}

// Finished returns the number of finished steps.
func (b *ProgressBar) Finished() uint64 {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.finished
}

type progressBarRsp struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	StartTime      time.Time `json:"start_time"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Total          uint64    `json:"total"`
	Finished       uint64    `json:"finished"`
}

func (b *ProgressBar) snapshot(now time.Time) progressBarRsp {
	b.lock.Lock()
	defer b.lock.Unlock()

	return progressBarRsp{
		ID:             b.id,
		Name:           b.name,
		StartTime:      b.startTime,
		ElapsedSeconds: now.Sub(b.startTime).Seconds(),
		Total:          b.total,
		Finished:       b.finished,
	}
}
