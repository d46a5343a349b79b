package handshake

import (
	"fmt"
	"sync/atomic"

	"github.com/sarchlab/fifoadapter/sim"
	"github.com/sarchlab/fifoadapter/tracing"
)

// TaskKindHold is the kind of the tracing task that spans from pulling an
// item to its acknowledgement.
const TaskKindHold = "hold"

// driver is the process that pulls items and drives valid and data.
//
// An idle driver tries to pull on every edge. A holding driver keeps valid
// and data unchanged until it sees ready. On the edge that completes a
// transfer it is idle again and pulls the next item right away, so a
// consumer that keeps ready high receives one item per cycle.
type driver[T comparable] struct {
	adapter *Adapter[T]

	holding atomic.Bool
	held    T
	taskID  string
}

func (d *driver[T]) Tick() bool {
	a := d.adapter
	a.mustBeBound()

	progress := false

	if d.holding.Load() {
		if !a.ready.Read() {
			d.stall()
			return false
		}

		d.acknowledge()
		progress = true
	}

	return d.pull() || progress
}

func (d *driver[T]) stall() {
	a := d.adapter
	if a.NumHooks() == 0 {
		return
	}

	a.InvokeHook(sim.HookCtx{
		Domain: a,
		Pos:    HookPosStall,
		Item:   d.held,
	})
}

func (d *driver[T]) acknowledge() {
	tracing.EndTask(d.taskID, d.adapter)

	var zero T
	d.held = zero
	d.taskID = ""
	d.holding.Store(false)
}

func (d *driver[T]) pull() bool {
	a := d.adapter

	item, ok := a.source.TryPull()
	if !ok {
		a.valid.Write(false)
		a.data.Write(a.sentinel)

		return false
	}

	a.valid.Write(true)
	a.data.Write(item)

	d.held = item
	d.holding.Store(true)
	d.taskID = sim.GetIDGenerator().Generate()

	tracing.StartTask(
		d.taskID,
		"",
		a,
		TaskKindHold,
		fmt.Sprintf("%T", item),
		item,
	)

	if a.NumHooks() > 0 {
		a.InvokeHook(sim.HookCtx{
			Domain: a,
			Pos:    HookPosPull,
			Item:   item,
		})
	}

	return true
}
