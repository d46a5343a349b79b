package cmd

import (
	"log"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/fifoadapter/consumer"
	"github.com/sarchlab/fifoadapter/handshake"
	"github.com/sarchlab/fifoadapter/queueing"
	"github.com/sarchlab/fifoadapter/sim"
	"github.com/sarchlab/fifoadapter/simulation"
)

type runOptions struct {
	items        int
	ready        string
	repeat       bool
	probability  float64
	seed         int64
	cycles       uint64
	freqMHz      float64
	record       bool
	output       string
	monitor      bool
	monitorPort  int
	browser      bool
	logTransfers bool
	logEvents    bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a bench of a buffer, an adapter and a sink.",
		Long: "`run` fills a buffer with the items 1 to --items, connects " +
			"it to a sink through a handshake adapter, runs --cycles cycles " +
			"and prints the transfers. The sink follows --ready, a 0/1 " +
			"pattern, unless --random is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := runCmd.Flags()
	f.IntVar(&opts.items, "items", 16, "Number of items in the source buffer.")
	f.StringVar(&opts.ready, "ready", "1", "Ready pattern, such as 0110.")
	f.BoolVar(&opts.repeat, "repeat", true, "Repeat the ready pattern.")
	f.Float64Var(&opts.probability, "random", 0,
		"Probability of ready at each cycle. Overrides --ready if positive.")
	f.Int64Var(&opts.seed, "seed", 1, "Seed of the random ready policy.")
	f.Uint64Var(&opts.cycles, "cycles", 100, "Number of cycles to run.")
	f.Float64Var(&opts.freqMHz, "freq-mhz", 1000, "Clock frequency in MHz.")
	f.BoolVar(&opts.record, "record", false,
		"Record transfers and traces into a SQLite database.")
	f.StringVar(&opts.output, "output", "",
		"Name of the database file, without extension.")
	f.BoolVar(&opts.monitor, "monitor", false, "Start the monitoring server.")
	f.IntVar(&opts.monitorPort, "monitor-port", 0,
		"Port of the monitoring server. A random port is used if not set.")
	f.BoolVar(&opts.browser, "browser", false,
		"Open the monitoring page in a browser.")
	f.BoolVar(&opts.logTransfers, "log-transfers", false,
		"Print every transfer.")
	f.BoolVar(&opts.logEvents, "log-events", false, "Print every event.")

	return runCmd
}

func (o runOptions) validate() error {
	if o.items < 0 {
		return errors.Errorf("--items must not be negative, got %d", o.items)
	}

	if o.freqMHz <= 0 {
		return errors.Errorf("--freq-mhz must be positive, got %f", o.freqMHz)
	}

	if o.probability < 0 || o.probability > 1 {
		return errors.Errorf("--random must be in [0, 1], got %f", o.probability)
	}

	if o.output != "" && !o.record {
		return errors.New("--output requires --record")
	}

	if (o.monitorPort != 0 || o.browser) && !o.monitor {
		return errors.New("--monitor-port and --browser require --monitor")
	}

	return nil
}

func (o runOptions) policy() (consumer.ReadyPolicy, error) {
	if o.probability > 0 {
		return consumer.RandomReady(o.seed, o.probability), nil
	}

	pattern, err := consumer.ParsePattern(o.ready)
	if err != nil {
		return nil, errors.Wrap(err, "parsing --ready")
	}

	return consumer.PatternReady(pattern, o.repeat), nil
}

func (o runOptions) buildSimulation() *simulation.Simulation {
	builder := simulation.MakeBuilder().
		WithFreq(sim.Freq(o.freqMHz) * sim.MHz)

	if o.record {
		builder = builder.WithOutputFileName(o.output)
	} else {
		builder = builder.WithoutRecording()
	}

	if o.monitor {
		builder = builder.WithMonitorPort(o.monitorPort)
		if o.browser {
			builder = builder.WithBrowser()
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	return builder.Build()
}

func run(cmd *cobra.Command, o runOptions) error {
	err := o.validate()
	if err != nil {
		return err
	}

	policy, err := o.policy()
	if err != nil {
		return err
	}

	s := o.buildSimulation()
	defer s.Terminate()

	source := queueing.NewBuffer[int]("Source", o.items+1)
	for i := 1; i <= o.items; i++ {
		source.Push(i)
	}

	adapter := handshake.MakeBuilder[int]().
		WithClock(s.GetClock()).
		WithSource(source).
		Build("Adapter")
	sink := consumer.MakeBuilder[int]().
		WithClock(s.GetClock()).
		WithPolicy(policy).
		Build("Sink")

	err = sink.Connect(adapter)
	if err != nil {
		return err
	}

	s.RegisterComponent(adapter)
	s.RegisterComponent(sink)
	s.RegisterBuffer(source)

	logger := log.New(cmd.OutOrStdout(), "", 0)
	if o.logTransfers {
		adapter.AcceptHook(handshake.NewTransferLogger(logger))
	}

	if o.logEvents {
		s.GetEngine().AcceptHook(sim.NewEventLogger(logger))
	}

	err = s.RunCycles(o.cycles)
	if err != nil {
		return err
	}

	holdTime := s.GetHoldTimeTracer()
	period := s.GetClock().Freq.Period()

	printf(cmd, "cycles: %d\n", s.GetClock().Cycle())
	printf(cmd, "transfers: %d\n", adapter.TransferCount())
	printf(cmd, "received: %v\n", sink.Received())
	printf(cmd, "remaining: %d\n", source.Size())
	printf(cmd, "average hold: %.2f cycles\n",
		float64(holdTime.AverageTime()/period))
	printf(cmd, "max hold: %.0f cycles\n",
		float64(holdTime.MaxTime()/period))

	if o.record {
		printf(cmd, "database: %s\n", s.GetDataRecorder().(interface {
			Filename() string
		}).Filename())
	}

	if o.monitor {
		printf(cmd, "press Ctrl-C to stop monitoring\n")
		waitForInterrupt()
	}

	return nil
}

func waitForInterrupt() {
	c := make(chan os.Signal, 1)
	ossignal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
