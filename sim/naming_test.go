package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).NotTo(Panic())
		},
		Entry("single element", "Adapter"),
		Entry("hierarchy", "Bench.Adapter.Valid"),
		Entry("indexed", "Bench.Lane[3]"),
		Entry("multi-dimensional index", "Bench.Lane[3][1].Ready"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).To(Panic())
		},
		Entry("trailing dot", "Bench.Adapter."),
		Entry("empty element", "Bench..Adapter"),
		Entry("lower case", "Bench.adapter"),
		Entry("underscore", "Bench.My_Adapter"),
		Entry("dash", "Bench.My-Adapter"),
		Entry("unmatched bracket", "Bench.Lane[3"),
		Entry("non-integer index", "Bench.Lane[a]"),
	)

	It("should build names", func() {
		Expect(BuildName("", "Bench")).To(Equal("Bench"))
		Expect(BuildName("Bench", "Adapter")).To(Equal("Bench.Adapter"))
		Expect(BuildNameWithIndex("Bench", "Lane", 2)).To(Equal("Bench.Lane[2]"))
	})
})
