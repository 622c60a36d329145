package pipelining

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pipeline", func() {
	var pipeline *Pipeline[int]

	BeforeEach(func() {
		pipeline = MakeBuilder[int]().
			WithNumStage(3).
			WithInitialValue(-1).
			Build("Pipeline")
	})

	It("should delay values by the number of stages", func() {
		Expect(pipeline.Name()).To(Equal("Pipeline"))
		Expect(pipeline.NumStage()).To(Equal(3))
		Expect(pipeline.Settled()).To(BeTrue())

		outs := []int{}
		for i := 0; i < 6; i++ {
			outs = append(outs, pipeline.Shift(i))
		}

		Expect(outs).To(Equal([]int{-1, -1, -1, 0, 1, 2}))
		Expect(pipeline.Output()).To(Equal(3))
		Expect(pipeline.Stages()).To(Equal([]int{3, 4, 5}))
		Expect(pipeline.Settled()).To(BeFalse())
	})

	It("should clear to the initial value", func() {
		pipeline.Shift(7)
		pipeline.Clear()

		Expect(pipeline.Settled()).To(BeTrue())
		Expect(pipeline.Shift(1)).To(Equal(-1))
	})

	It("should pass through without stages", func() {
		p := MakeBuilder[bool]().WithNumStage(0).Build("Wire")

		Expect(p.Shift(true)).To(BeTrue())
		Expect(p.Settled()).To(BeTrue())
	})

	It("should panic on negative depth", func() {
		Expect(func() {
			MakeBuilder[int]().WithNumStage(-1).Build("Bad")
		}).To(Panic())
	})
})
