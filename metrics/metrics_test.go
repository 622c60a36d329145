package metrics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dto "github.com/prometheus/client_model/go"

	"github.com/sarchlab/hyperram/hyperram"
	"github.com/sarchlab/hyperram/sim"
)

type namedDomain struct {
	sim.HookableBase
}

func (namedDomain) Name() string { return "HyperRAM" }

func counterValue(c interface{ Write(*dto.Metric) error }) float64 {
	m := &dto.Metric{}
	Expect(c.Write(m)).To(Succeed())

	return m.GetCounter().GetValue()
}

var _ = Describe("Collector", func() {
	var (
		c      *Collector
		domain *namedDomain
	)

	BeforeEach(func() {
		c = NewCollector()
		domain = &namedDomain{}
	})

	It("should count beats by direction", func() {
		c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosBeat,
			Item: hyperram.Beat{Write: true}})
		c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosBeat,
			Item: hyperram.Beat{Write: true}})
		c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosBeat,
			Item: hyperram.Beat{}})

		Expect(counterValue(c.beats.WithLabelValues("HyperRAM", "write"))).
			To(Equal(2.0))
		Expect(counterValue(c.beats.WithLabelValues("HyperRAM", "read"))).
			To(Equal(1.0))
	})

	It("should count aborts by reason", func() {
		c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosAbort,
			Item: &hyperram.Transaction{Abort: hyperram.AbortTimeout}})

		Expect(counterValue(c.aborts.WithLabelValues("HyperRAM", "timeout"))).
			To(Equal(1.0))
	})

	It("should track the time spent in each state", func() {
		for i := 0; i < 3; i++ {
			c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosCycle,
				Item:   hyperram.Debug{State: hyperram.StateHoldWait},
				Detail: uint64(i)})
		}

		Expect(counterValue(
			c.stateCycles.WithLabelValues("HyperRAM", "HOLD-WAIT"))).
			To(Equal(3.0))

		m := &dto.Metric{}
		Expect(c.cycle.WithLabelValues("HyperRAM").Write(m)).To(Succeed())
		Expect(m.GetGauge().GetValue()).To(Equal(2.0))
	})

	It("should observe transaction durations", func() {
		c.Func(sim.HookCtx{Domain: domain, Pos: hyperram.HookPosTransactionEnd,
			Item: &hyperram.Transaction{StartCycle: 0, EndCycle: 26, Write: true}})

		families, err := c.Registry().Gather()
		Expect(err).NotTo(HaveOccurred())

		names := map[string]*dto.MetricFamily{}
		for _, f := range families {
			names[f.GetName()] = f
		}

		Expect(names).To(HaveKey("hyperram_transactions_total"))
		h := names["hyperram_transaction_cycles"].GetMetric()[0].GetHistogram()
		Expect(h.GetSampleCount()).To(Equal(uint64(1)))
		Expect(h.GetSampleSum()).To(Equal(26.0))
	})
})
