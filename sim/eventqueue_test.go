package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("EventQueue", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueue
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop in order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			event := NewMockEvent(mockCtrl)
			event.EXPECT().
				Time().
				Return(VTimeInSec(rand.Float64() / 1e8)).
				AnyTimes()
			queue.Push(event)
		}

		now := VTimeInSec(-1)
		for i := 0; i < numEvents; i++ {
			event := queue.Pop()
			Expect(event.Time() >= now).To(BeTrue())
			now = event.Time()
		}
	})

	It("should keep same-time events in push order", func() {
		events := make([]*MockEvent, 10)
		for i := range events {
			events[i] = NewMockEvent(mockCtrl)
			events[i].EXPECT().Time().Return(VTimeInSec(1)).AnyTimes()
			queue.Push(events[i])
		}

		for i := range events {
			Expect(queue.Peek()).To(BeIdenticalTo(events[i]))
			Expect(queue.Pop()).To(BeIdenticalTo(events[i]))
		}
	})

	It("should return nil when empty", func() {
		Expect(queue.Len()).To(Equal(0))
		Expect(queue.Peek()).To(BeNil())
		Expect(queue.Pop()).To(BeNil())
	})
})
