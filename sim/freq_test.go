package sim

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should get this tick", func() {
		var f = 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
	})

	It("should round up to this tick when off tick", func() {
		var f = 100 * MHz
		Expect(f.ThisTick(0.000000015)).To(BeNumerically("~", 0.00000002, 1e-15))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(102.000000001)).To(BeNumerically("~", 102.000000002, 1e-12))
	})

	It("should get the next tick, if currTime is not on a tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(0.0000000011)).To(BeNumerically("~", 0.000000002, 1e-15))
	})

	It("should panic on an invalid time", func() {
		var f = 1 * GHz
		nan := VTimeInSec(math.NaN())
		Expect(func() { f.NextTick(nan) }).To(Panic())
	})

	It("should count cycles", func() {
		var f = 100 * MHz
		Expect(f.Cycle(0.00000042)).To(Equal(uint64(42)))
	})

	It("should panic on zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).To(Panic())
	})
})
