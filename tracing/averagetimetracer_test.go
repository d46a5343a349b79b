package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fifoadapter/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("AverageTimeTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		tracer     *AverageTimeTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		tracer = NewAverageTimeTracer(timeTeller, KindFilter("hold"))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should average the task times", func() {
		gomock.InOrder(
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(1)),
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(2)),
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(3)),
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(7)),
		)

		tracer.StartTask(Task{ID: "1", Kind: "hold"})
		tracer.EndTask(Task{ID: "1"})
		tracer.StartTask(Task{ID: "2", Kind: "hold"})
		tracer.EndTask(Task{ID: "2"})

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.AverageTime()).To(BeNumerically("~", 2.5, 1e-12))
		Expect(tracer.MaxTime()).To(Equal(sim.VTimeInSec(4)))
	})

	It("should ignore filtered tasks", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(1)).Times(2)

		tracer.StartTask(Task{ID: "1", Kind: "other"})
		tracer.EndTask(Task{ID: "1"})

		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
		Expect(tracer.AverageTime()).To(Equal(sim.VTimeInSec(0)))
	})

	It("should ignore tasks that never started", func() {
		timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(5))

		tracer.EndTask(Task{ID: "1"})

		Expect(tracer.TotalCount()).To(Equal(uint64(0)))
	})
})
