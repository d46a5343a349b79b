package consumer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sarchlab/fifoadapter/consumer"
	"github.com/sarchlab/fifoadapter/handshake"
	"github.com/sarchlab/fifoadapter/queueing"
	"github.com/sarchlab/fifoadapter/sim"
)

var _ = Describe("Sink", func() {
	var (
		engine  *sim.SerialEngine
		clock   *sim.Clock
		source  *queueing.Buffer[int]
		adapter *handshake.Adapter[int]
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		clock = sim.NewClock("Clock", engine, 1*sim.GHz)
		source = queueing.NewBuffer[int]("Source", 256)
		adapter = handshake.MakeBuilder[int]().
			WithClock(clock).
			WithSource(source).
			Build("Adapter")
	})

	runCycles := func(n uint64) {
		clock.Start()
		Expect(engine.RunUntil(clock.Freq.CycleTime(clock.Cycle() + n))).
			To(Succeed())
	}

	It("should receive the items of the reference scenario", func() {
		for _, item := range []int{5, 9, 2} {
			source.Push(item)
		}

		pattern, err := consumer.ParsePattern("01101")
		Expect(err).NotTo(HaveOccurred())

		sink := consumer.MakeBuilder[int]().
			WithClock(clock).
			WithPolicy(consumer.PatternReady(pattern, false)).
			Build("Sink")
		Expect(sink.Connect(adapter)).To(Succeed())

		runCycles(2)
		Expect(sink.Received()).To(Equal([]int{5}))

		runCycles(3)
		Expect(sink.Received()).To(Equal([]int{5, 9, 2}))
		Expect(adapter.TransferCount()).To(Equal(uint64(3)))
	})

	It("should receive every item in order under random back-pressure", func() {
		for i := 0; i < 100; i++ {
			source.Push(i)
		}

		sink := consumer.MakeBuilder[int]().
			WithClock(clock).
			WithPolicy(consumer.RandomReady(3, 0.4)).
			Build("Sink")
		Expect(sink.Connect(adapter)).To(Succeed())

		runCycles(1000)

		received := sink.Received()
		Expect(received).To(HaveLen(100))
		for i, item := range received {
			Expect(item).To(Equal(i))
		}
		Expect(adapter.TransferCount()).To(Equal(uint64(100)))
		Expect(adapter.Valid()).To(BeFalse())
	})

	It("should receive nothing when never ready", func() {
		source.Push(1)

		sink := consumer.MakeBuilder[int]().
			WithClock(clock).
			WithPolicy(consumer.NeverReady()).
			Build("Sink")
		Expect(sink.Connect(adapter)).To(Succeed())

		runCycles(10)

		Expect(sink.NumReceived()).To(BeZero())
		Expect(adapter.IsHolding()).To(BeTrue())
		Expect(source.Size()).To(BeZero())
	})

	It("should bind the ports returned by Ports", func() {
		sink := consumer.MakeBuilder[int]().
			WithClock(clock).
			Build("Sink")

		Expect(adapter.Bind(sink.Ports())).To(Succeed())

		valid, ready, data := sink.Ports()
		Expect(valid.IsBound()).To(BeTrue())
		Expect(ready.IsBound()).To(BeTrue())
		Expect(data.IsBound()).To(BeTrue())
	})

	It("should report a failed connection", func() {
		sink := consumer.MakeBuilder[int]().
			WithClock(clock).
			Build("Sink")
		Expect(sink.Connect(adapter)).To(Succeed())

		other := consumer.MakeBuilder[int]().
			WithClock(clock).
			Build("Other")
		err := other.Connect(adapter)

		Expect(errors.Cause(err)).To(Equal(handshake.ErrAlreadyBound))
	})
})
