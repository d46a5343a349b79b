package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fifoadapter/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("with hooks", func() {
		BeforeEach(func() {
			domain.EXPECT().NumHooks().Return(1).AnyTimes()
		})

		It("should panic if ID is not given", func() {
			Expect(func() {
				StartTask("", "123", domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if domain is nil", func() {
			Expect(func() {
				StartTask("id", "123", nil, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if domain's name is empty", func() {
			domain.EXPECT().Name().Return("").AnyTimes()
			Expect(func() {
				StartTask("id", "123", domain, "kind", "what", nil)
			}).Should(Panic())
		})

		It("should panic if kind is empty", func() {
			Expect(func() {
				StartTask("id", "123", domain, "", "what", nil)
			}).Should(Panic())
		})

		It("should panic if what is empty", func() {
			Expect(func() {
				StartTask("id", "123", domain, "kind", "", nil)
			}).Should(Panic())
		})

		It("should invoke the hooks at task start", func() {
			domain.EXPECT().Name().Return("Adapter").AnyTimes()
			domain.EXPECT().
				InvokeHook(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))
					task := ctx.Item.(Task)
					Expect(task.ID).To(Equal("id"))
					Expect(task.Location).To(Equal("Adapter"))
					Expect(task.Detail).To(Equal(5))
				})

			StartTask("id", "", domain, "kind", "what", 5)
		})

		It("should invoke the hooks at task end", func() {
			domain.EXPECT().
				InvokeHook(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskEnd))
					Expect(ctx.Item.(Task).ID).To(Equal("id"))
				})

			EndTask("id", domain)
		})
	})

	It("should not invoke hooks if there is none", func() {
		domain.EXPECT().NumHooks().Return(0).AnyTimes()

		StartTask("id", "", domain, "kind", "what", nil)
		EndTask("id", domain)
	})
})
