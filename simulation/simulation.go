// Package simulation wires the engine, the clock and the optional data
// recording and monitoring services of a handshake simulation.
package simulation

import (
	"log"
	"sync"

	"github.com/sarchlab/fifoadapter/datarecording"
	"github.com/sarchlab/fifoadapter/handshake"
	"github.com/sarchlab/fifoadapter/monitoring"
	"github.com/sarchlab/fifoadapter/sim"
	"github.com/sarchlab/fifoadapter/tracing"
)

const handshakeTaskKind = handshake.TaskKindHold

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine *sim.SerialEngine
	clock  *sim.Clock

	dataRecorder     datarecording.DataRecorder
	monitor          *monitoring.Monitor
	visTracer        *tracing.DBTracer
	holdTimeTracer   *tracing.AverageTimeTracer
	transferRecorder *transferRecorder
	progress         progressHook

	components    []sim.Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetClock returns the clock that drives the components.
func (s *Simulation) GetClock() *sim.Clock {
	return s.clock
}

// GetDataRecorder returns the data recorder used in the simulation. It is nil
// if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetTracer returns the tracer that writes tasks into the data recorder. It
// is nil if recording is disabled.
func (s *Simulation) GetTracer() *tracing.DBTracer {
	return s.visTracer
}

// GetHoldTimeTracer returns the tracer that measures how long items are held
// by the adapters.
func (s *Simulation) GetHoldTimeTracer() *tracing.AverageTimeTracer {
	return s.holdTimeTracer
}

// RegisterComponent registers a component with the simulation. The component
// is traced, recorded and monitored if those services are enabled.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		log.Panicf("component %s already registered", compName)
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if domain, ok := c.(tracing.NamedHookable); ok {
		tracing.CollectTrace(domain, s.holdTimeTracer)

		if s.visTracer != nil {
			tracing.CollectTrace(domain, s.visTracer)
		}
	}

	if s.transferRecorder != nil {
		c.AcceptHook(s.transferRecorder)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// RegisterBuffer lets the monitor report the level of a buffer.
func (s *Simulation) RegisterBuffer(b monitoring.Buffer) {
	if s.monitor != nil {
		s.monitor.RegisterBuffer(b)
	}
}

// GetComponentByName returns the component with the given name, or nil if no
// such component is registered.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	comps := make([]sim.Component, len(s.components))
	copy(comps, s.components)

	return comps
}

// RunCycles starts the clock if needed and runs the simulation for n more
// cycles.
func (s *Simulation) RunCycles(n uint64) error {
	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar("Cycles", n)
		s.progress.setBar(bar)

		defer func() {
			s.progress.setBar(nil)
			s.monitor.CompleteProgressBar(bar)
		}()
	}

	s.clock.Start()
	target := s.clock.Freq.CycleTime(s.clock.Cycle() + n)

	return s.engine.RunUntil(target)
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.clock.Stop()
	s.engine.Finished()

	if s.visTracer != nil {
		s.visTracer.Terminate()
	}

	if s.dataRecorder != nil {
		err := s.dataRecorder.Close()
		if err != nil {
			log.Panic(err)
		}
	}
}

// progressHook advances the progress bar of a run on every clock edge.
type progressHook struct {
	lock sync.Mutex
	bar  *monitoring.ProgressBar
}

func (h *progressHook) setBar(bar *monitoring.ProgressBar) {
	h.lock.Lock()
	h.bar = bar
	h.lock.Unlock()
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosClockEdge {
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.bar != nil {
		h.bar.IncrementFinished(1)
	}
}
