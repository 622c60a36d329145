package hyperram

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/hyperram/protocol"
	"github.com/sarchlab/hyperram/recording"
	"github.com/sarchlab/hyperram/sim"
)

var _ = Describe("LogHook", func() {
	var (
		logs *observer.ObservedLogs
		hook *LogHook
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		hook = NewLogHook(zap.New(core))
	})

	It("should log an aborted transaction as a warning", func() {
		txn := &Transaction{
			ID:      "t1",
			Command: protocol.EncodeCommand(false, 0x2),
			Abort:   AbortTimeout,
		}

		hook.Func(sim.HookCtx{Pos: HookPosAbort, Item: txn, Detail: uint64(30)})

		Expect(logs.Len()).To(Equal(1))
		entry := logs.All()[0]
		Expect(entry.Level).To(Equal(zapcore.WarnLevel))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("reason", "timeout"))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("cycle", uint64(30)))
	})

	It("should log beats and state changes at debug level", func() {
		hook.Func(sim.HookCtx{Pos: HookPosBeat, Item: Beat{Data: 7}})
		hook.Func(sim.HookCtx{
			Pos:  HookPosStateChange,
			Item: Transition{From: StateIdle, To: StateCASend},
		})

		Expect(logs.FilterLevelExact(zapcore.DebugLevel).Len()).To(Equal(2))
		Expect(logs.FilterMessage("state change").All()[0].ContextMap()).
			To(HaveKeyWithValue("to", "CA-SEND"))
	})

	It("should log completed transactions at info level", func() {
		hook.Func(sim.HookCtx{
			Pos:  HookPosTransactionEnd,
			Item: &Transaction{ID: "t2", Beats: 4},
		})

		Expect(logs.FilterLevelExact(zapcore.InfoLevel).Len()).To(Equal(1))
	})

	It("should ignore the cycle position", func() {
		hook.Func(sim.HookCtx{Pos: HookPosCycle, Item: Debug{}})
		Expect(logs.Len()).To(BeZero())
	})

	It("should accept a nil logger", func() {
		Expect(func() {
			NewLogHook(nil).Func(sim.HookCtx{
				Pos:  HookPosTransactionStart,
				Item: &Transaction{},
			})
		}).NotTo(Panic())
	})
})

var _ = Describe("RecorderHook", func() {
	var writer *recording.SQLiteWriter

	BeforeEach(func() {
		writer = recording.NewSQLiteWriter(
			filepath.Join(GinkgoT().TempDir(), "rec"))
		Expect(writer.Init()).To(Succeed())
		DeferCleanup(writer.DB.Close)
	})

	It("should store transactions and beats", func() {
		hook, err := NewRecorderHook(writer, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.ListTables()).To(Equal([]string{TransactionTable, BeatTable}))

		hook.Func(sim.HookCtx{
			Pos: HookPosBeat,
			Item: Beat{
				TransactionID: "t", Index: 2, Cycle: 8,
				Data: 0xDEADBEEF, Sel: 0xF,
			},
			Detail: uint64(8),
		})
		hook.Func(sim.HookCtx{
			Pos:  HookPosTransactionEnd,
			Item: &Transaction{ID: "t", Write: true, Beats: 1, EndCycle: 26},
		})
		hook.Func(sim.HookCtx{Pos: HookPosCycle, Item: Debug{}})
		Expect(writer.Flush()).To(Succeed())

		r := recording.NewReaderWithDB(writer.DB)
		r.MapTable(BeatTable, BeatEntry{})
		r.MapTable(TransactionTable, TransactionEntry{})

		beats, n, err := r.Query(context.Background(), BeatTable,
			recording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(beats[0].(*BeatEntry).Data).To(Equal(uint32(0xDEADBEEF)))
		Expect(beats[0].(*BeatEntry).Index).To(Equal(2))

		txns, _, err := r.Query(context.Background(), TransactionTable,
			recording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(txns[0].(*TransactionEntry).Abort).To(Equal("none"))
		Expect(txns[0].(*TransactionEntry).EndCycle).To(Equal(uint64(26)))
	})

	It("should store the waveform when enabled", func() {
		hook, err := NewRecorderHook(writer, true)
		Expect(err).NotTo(HaveOccurred())

		hook.Func(sim.HookCtx{
			Pos: HookPosCycle,
			Item: Debug{
				State: StateReadAck,
				SROut: 0xA000_0000_0000_0000,
			},
			Detail: uint64(12),
		})
		Expect(writer.Flush()).To(Succeed())

		r := recording.NewReaderWithDB(writer.DB)
		r.MapTable(WaveformTable, WaveformEntry{})

		rows, _, err := r.Query(context.Background(), WaveformTable,
			recording.QueryParams{Where: "Cycle = ?", Args: []any{12}})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))

		row := rows[0].(*WaveformEntry)
		Expect(row.State).To(Equal("READ-ACK"))
		Expect(uint64(row.SROut)).To(Equal(uint64(0xA000_0000_0000_0000)))
	})

	It("should stamp waveform rows with the PHY clock edges", func() {
		hook, err := NewRecorderHook(writer, true)
		Expect(err).NotTo(HaveOccurred())

		hook.Func(sim.HookCtx{
			Domain: &clockedStub{
				clocks: phy.NewClocks(100 * sim.MHz),
				now:    30e-9,
			},
			Pos:    HookPosCycle,
			Item:   Debug{State: StateCASend},
			Detail: uint64(2),
		})
		Expect(writer.Flush()).To(Succeed())

		r := recording.NewReaderWithDB(writer.DB)
		r.MapTable(WaveformTable, WaveformEntry{})

		rows, _, err := r.Query(context.Background(), WaveformTable,
			recording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))

		row := rows[0].(*WaveformEntry)
		Expect(row.Time).To(BeNumerically("~", 30e-9, 1e-15))
		Expect(row.DQStart).To(BeNumerically("~", 30e-9, 1e-15))
		Expect(row.ClockEdge).To(BeNumerically("~", 31.25e-9, 1e-15))
		Expect(row.ClockFrame).To(BeNumerically("~", 32.5e-9, 1e-15))
	})
})

type clockedStub struct {
	sim.HookableBase

	clocks phy.Clocks
	now    sim.VTimeInSec
}

func (s *clockedStub) CurrentTime() sim.VTimeInSec {
	return s.now
}

func (s *clockedStub) Clocks() phy.Clocks {
	return s.clocks
}
