package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventLogger", func() {
	var (
		buf    *bytes.Buffer
		engine *SerialEngine
		clock  *Clock
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		engine = NewSerialEngine()
		engine.AcceptHook(NewEventLogger(log.New(buf, "", 0)))
		clock = NewClock("Clk", engine, 1*Hz)
	})

	It("should log the events and their handlers", func() {
		clock.Start()
		Expect(engine.RunUntil(1)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("sim.EdgeEvent -> Clk"))
		Expect(buf.String()).To(ContainSubstring("sim.UpdateEvent -> Clk"))
	})
})
