package simulation

import (
	"github.com/rs/xid"
	"github.com/sarchlab/fifoadapter/datarecording"
	"github.com/sarchlab/fifoadapter/monitoring"
	"github.com/sarchlab/fifoadapter/sim"
	"github.com/sarchlab/fifoadapter/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	freq           sim.Freq
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.GHz,
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithFreq sets the frequency of the simulation clock.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page in a browser once the simulation is
// built.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithoutRecording sets the simulation to not write any database.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		panic("monitor options cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}

	if b.freq <= 0 {
		panic("frequency must be positive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()
	s.clock = sim.NewClock("Clock", s.engine, b.freq)
	s.holdTimeTracer = tracing.NewAverageTimeTracer(
		s.engine, tracing.KindFilter(handshakeTaskKind))

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "handshakesim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
		s.transferRecorder = newTransferRecorder(s.dataRecorder)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		if b.openBrowser {
			s.monitor.WithBrowser()
		}

		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterClock(s.clock)
		s.clock.AcceptHook(&s.progress)
		s.monitor.StartServer()
	}

	return s
}
