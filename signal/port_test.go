package signal

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ports", func() {
	var (
		sig *Signal[bool]
		in  *In[bool]
		out *Out[bool]
	)

	BeforeEach(func() {
		sig = New("Bench.Ready", false)
		in = NewIn[bool]("Bench.Adapter.ReadyIn")
		out = NewOut[bool]("Bench.Sink.ReadyOut")
	})

	It("should panic when using an unbound port", func() {
		Expect(in.IsBound()).To(BeFalse())
		Expect(func() { in.Read() }).To(Panic())
		Expect(func() { out.Write(true) }).To(Panic())
		Expect(func() { out.Init(true) }).To(Panic())
	})

	It("should read through an input port", func() {
		Expect(in.Bind(sig)).To(Succeed())
		Expect(in.IsBound()).To(BeTrue())

		sig.Write(true)
		Expect(in.Read()).To(BeFalse())

		sig.Update()
		Expect(in.Read()).To(BeTrue())
	})

	It("should write through an output port", func() {
		Expect(out.Bind(sig)).To(Succeed())
		Expect(sig.Driver()).To(Equal("Bench.Sink.ReadyOut"))

		out.Write(true)
		Expect(out.Read()).To(BeFalse())

		sig.Update()
		Expect(out.Read()).To(BeTrue())
	})

	It("should set reset values through an output port", func() {
		Expect(out.Bind(sig)).To(Succeed())

		out.Init(true)
		Expect(sig.Read()).To(BeTrue())
	})

	It("should reject rebinding", func() {
		other := New("Bench.Other", false)

		Expect(in.Bind(sig)).To(Succeed())
		Expect(errors.Cause(in.Bind(other))).To(Equal(ErrAlreadyBound))

		Expect(out.Bind(sig)).To(Succeed())
		Expect(errors.Cause(out.Bind(other))).To(Equal(ErrAlreadyBound))
	})

	It("should reject binding to a nil signal", func() {
		Expect(errors.Cause(in.Bind(nil))).To(Equal(ErrNilSignal))
		Expect(errors.Cause(out.Bind(nil))).To(Equal(ErrNilSignal))
	})

	It("should reject a second output port on the same signal", func() {
		second := NewOut[bool]("Bench.Other.ReadyOut")

		Expect(out.Bind(sig)).To(Succeed())

		err := second.Bind(sig)
		Expect(errors.Cause(err)).To(Equal(ErrMultipleDrivers))
		Expect(second.IsBound()).To(BeFalse())
	})

	It("should allow many input ports on the same signal", func() {
		second := NewIn[bool]("Bench.Monitor.ReadyIn")

		Expect(in.Bind(sig)).To(Succeed())
		Expect(second.Bind(sig)).To(Succeed())
	})
})
