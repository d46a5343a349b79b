package handshake

import "github.com/sarchlab/fifoadapter/sim"

// transferMonitor counts the cycles in which valid and ready are both high.
type transferMonitor[T comparable] struct {
	adapter *Adapter[T]
}

func (m *transferMonitor[T]) Tick() bool {
	a := m.adapter

	if !a.valid.Read() || !a.ready.Read() {
		return false
	}

	count := a.transferCount.Add(1)

	if a.NumHooks() > 0 {
		a.InvokeHook(sim.HookCtx{
			Domain: a,
			Pos:    HookPosTransfer,
			Item: TransferRecord{
				Cycle: a.clock.Cycle(),
				Time:  a.clock.CurrentTime(),
				Data:  a.data.Read(),
				Count: count,
			},
		})
	}

	return true
}
