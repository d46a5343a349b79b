package tracing

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/fifoadapter/sim"
	"go.uber.org/mock/gomock"
)

var _ = Describe("TaskLogger", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		buf        *bytes.Buffer
		taskLogger *TaskLogger
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		buf = new(bytes.Buffer)
		taskLogger = NewTaskLogger(log.New(buf, "", 0), timeTeller)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should log finished tasks", func() {
		gomock.InOrder(
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(1)),
			timeTeller.EXPECT().CurrentTime().Return(sim.VTimeInSec(2)),
		)

		taskLogger.StartTask(Task{
			ID: "7", Kind: "hold", What: "int", Location: "Adapter",
		})
		taskLogger.EndTask(Task{ID: "7"})

		Expect(buf.String()).To(Equal(
			"1.0000000000, 2.0000000000, Adapter, hold, int, 7\n"))
	})

	It("should ignore tasks that never started", func() {
		taskLogger.EndTask(Task{ID: "7"})

		Expect(buf.Len()).To(Equal(0))
	})
})
