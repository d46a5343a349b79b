package consumer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifoadapter/consumer"
)

func firstCycles(p consumer.ReadyPolicy, n uint64) []bool {
	out := make([]bool, 0, n)
	for c := uint64(1); c <= n; c++ {
		out = append(out, p.Ready(c))
	}

	return out
}

var _ = Describe("ReadyPolicy", func() {
	It("should always be ready", func() {
		Expect(firstCycles(consumer.AlwaysReady(), 3)).
			To(Equal([]bool{true, true, true}))
	})

	It("should never be ready", func() {
		Expect(firstCycles(consumer.NeverReady(), 3)).
			To(Equal([]bool{false, false, false}))
	})

	It("should stay low after a pattern ends", func() {
		p := consumer.PatternReady([]bool{true, false, true}, false)

		Expect(firstCycles(p, 5)).
			To(Equal([]bool{true, false, true, false, false}))
	})

	It("should repeat a pattern", func() {
		p := consumer.PatternReady([]bool{true, false}, true)

		Expect(firstCycles(p, 5)).
			To(Equal([]bool{true, false, true, false, true}))
	})

	It("should treat an empty pattern as never ready", func() {
		p := consumer.PatternReady(nil, true)

		Expect(firstCycles(p, 2)).To(Equal([]bool{false, false}))
	})

	It("should reproduce a random sequence from a seed", func() {
		a := consumer.RandomReady(7, 0.5)
		b := consumer.RandomReady(7, 0.5)

		Expect(firstCycles(a, 50)).To(Equal(firstCycles(b, 50)))
	})

	It("should respect the extreme probabilities", func() {
		Expect(firstCycles(consumer.RandomReady(1, 1), 20)).
			NotTo(ContainElement(false))
		Expect(firstCycles(consumer.RandomReady(1, 0), 20)).
			NotTo(ContainElement(true))
	})

	It("should panic on an invalid probability", func() {
		Expect(func() { consumer.RandomReady(1, 1.5) }).To(Panic())
	})

	DescribeTable("ParsePattern",
		func(s string, expected []bool, valid bool) {
			pattern, err := consumer.ParsePattern(s)
			if !valid {
				Expect(err).To(HaveOccurred())
				return
			}

			Expect(err).NotTo(HaveOccurred())
			Expect(pattern).To(Equal(expected))
		},
		Entry("plain", "0110", []bool{false, true, true, false}, true),
		Entry("separated", "01_10", []bool{false, true, true, false}, true),
		Entry("invalid character", "01x", nil, false),
		Entry("empty", "", nil, false),
	)
})
