package handshake_test

import (
	"github.com/sarchlab/fifoadapter/handshake"
	"github.com/sarchlab/fifoadapter/signal"
	"github.com/sarchlab/fifoadapter/sim"
)

// readyDriver drives the ready signal from a function of the cycle number.
// The settled value at cycle k is ready(k).
type readyDriver struct {
	clock *sim.Clock
	port  *signal.Out[bool]
	ready func(cycle uint64) bool
}

func (d *readyDriver) Tick() bool {
	d.port.Write(d.ready(d.clock.Cycle() + 1))
	return true
}

func readySequence(seq ...bool) func(uint64) bool {
	return func(cycle uint64) bool {
		if cycle == 0 || cycle > uint64(len(seq)) {
			return false
		}

		return seq[cycle-1]
	}
}

func alwaysReady(uint64) bool { return true }

func neverReady(uint64) bool { return false }

// snapshot is the settled state of an adapter after the update phase of a
// cycle.
type snapshot struct {
	Cycle uint64
	Valid bool
	Data  int
	Count uint64
}

type snapshotHook struct {
	adapter   *handshake.Adapter[int]
	snapshots []snapshot
}

func (h *snapshotHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosClockUpdate {
		return
	}

	h.snapshots = append(h.snapshots, snapshot{
		Cycle: ctx.Item.(uint64),
		Valid: h.adapter.Valid(),
		Data:  h.adapter.Data(),
		Count: h.adapter.TransferCount(),
	})
}

// handshakeCounter counts the cycles in which the settled valid and ready
// are both high, sampled before any process runs.
type handshakeCounter struct {
	adapter *handshake.Adapter[int]
	count   uint64
}

func (h *handshakeCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosClockEdge {
		return
	}

	if h.adapter.Valid() && h.adapter.Ready() {
		h.count++
	}
}

type transferCollector struct {
	records []handshake.TransferRecord
}

func (c *transferCollector) Func(ctx sim.HookCtx) {
	if ctx.Pos != handshake.HookPosTransfer {
		return
	}

	c.records = append(c.records, ctx.Item.(handshake.TransferRecord))
}

type bench struct {
	engine  *sim.SerialEngine
	clock   *sim.Clock
	adapter *handshake.Adapter[int]

	valid *signal.In[bool]
	ready *signal.Out[bool]
	data  *signal.In[int]
}

func newBench(source handshake.Source[int]) *bench {
	b := &bench{}
	b.engine = sim.NewSerialEngine()
	b.clock = sim.NewClock("Clock", b.engine, 1*sim.Hz)
	b.adapter = handshake.MakeBuilder[int]().
		WithClock(b.clock).
		WithSource(source).
		Build("Adapter")

	b.valid = signal.NewIn[bool]("Bench.Valid")
	b.ready = signal.NewOut[bool]("Bench.Ready")
	b.data = signal.NewIn[int]("Bench.Data")

	return b
}

func (b *bench) bind(ready func(uint64) bool) {
	err := b.adapter.Bind(b.valid, b.ready, b.data)
	if err != nil {
		panic(err)
	}

	b.ready.Init(ready(1))
	b.clock.RegisterProcess(&readyDriver{
		clock: b.clock,
		port:  b.ready,
		ready: ready,
	})
}

func (b *bench) run(cycles uint64) {
	b.clock.Start()

	err := b.engine.RunUntil(b.clock.Freq.CycleTime(b.clock.Cycle() + cycles))
	if err != nil {
		panic(err)
	}
}
