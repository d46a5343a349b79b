package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fifoadapter/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
		tracer   *MockTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
		tracer = NewMockTracer(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should register a hook that forwards tasks", func() {
		var hook sim.Hook

		domain.EXPECT().Hooks().Return(nil)
		domain.EXPECT().AcceptHook(gomock.Any()).
			Do(func(h sim.Hook) { hook = h })

		CollectTrace(domain, tracer)

		task := Task{ID: "1"}
		tracer.EXPECT().StartTask(task)
		tracer.EXPECT().EndTask(task)

		hook.Func(sim.HookCtx{Pos: HookPosTaskStart, Item: task})
		hook.Func(sim.HookCtx{Pos: HookPosTaskEnd, Item: task})
		hook.Func(sim.HookCtx{Pos: sim.HookPosBeforeEvent, Item: task})
		hook.Func(sim.HookCtx{Pos: HookPosTaskStart, Item: "not a task"})
	})

	It("should panic if the tracer is already attached", func() {
		domain.EXPECT().Name().Return("Adapter").AnyTimes()
		domain.EXPECT().Hooks().Return([]sim.Hook{&traceHook{tracer: tracer}})

		Expect(func() { CollectTrace(domain, tracer) }).To(Panic())
	})
})
