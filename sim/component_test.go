package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("ComponentBase", func() {
	It("should set and get name", func() {
		component := NewComponentBase("Bench.Adapter")
		Expect(component.Name()).To(Equal("Bench.Adapter"))
	})

	It("should panic on invalid name", func() {
		Expect(func() { NewComponentBase("adapter") }).To(Panic())
	})

	It("should invoke accepted hooks", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		hook := NewMockHook(mockCtrl)
		component := NewComponentBase("Adapter")
		ctx := HookCtx{Domain: component, Pos: HookPosClockEdge, Item: 1}

		component.AcceptHook(hook)
		hook.EXPECT().Func(ctx)

		component.InvokeHook(ctx)
		Expect(component.NumHooks()).To(Equal(1))
	})
})
