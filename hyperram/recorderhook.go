package hyperram

import (
	"log"

	"github.com/sarchlab/hyperram/hyperram/phy"
	"github.com/sarchlab/hyperram/recording"
	"github.com/sarchlab/hyperram/sim"
)

// Table names used by the RecorderHook.
const (
	TransactionTable = "hyperram_transaction"
	BeatTable        = "hyperram_beat"
	WaveformTable    = "hyperram_waveform"
)

// TransactionEntry is a row of the transaction table.
type TransactionEntry struct {
	ID         string
	Component  string
	Command    uint64
	Write      bool
	Address    uint32
	StartCycle uint64
	EndCycle   uint64
	StartTime  float64
	EndTime    float64
	Beats      int
	Abort      string
}

// BeatEntry is a row of the beat table.
type BeatEntry struct {
	TransactionID string
	Index         int
	Cycle         uint64
	Time          float64
	Write         bool
	Address       uint32
	Data          uint32
	Sel           uint8
}

// WaveformEntry is a row of the waveform table: the debug bundle of one
// cycle. The 64-bit shift registers are stored as their two's complement
// since SQLite integers are signed.
//
// Time is the simulated time of the cycle. DQStart, ClockEdge and
// ClockFrame place the first DQ bit-time, the first clock-lane toggle and
// the clock-pair load of the frame driven at that core edge.
type WaveformEntry struct {
	Component  string
	Cycle      uint64
	Time       float64
	DQStart    float64
	ClockEdge  float64
	ClockFrame float64
	State      string
	Stage      int
	Command    uint64
	Cyc        bool
	Stb        bool
	WE         bool
	Address    uint32
	WData      uint32
	Sel        uint8
	Ack        bool
	RData      uint32
	SROut      int64
	SRIn       int64
	SRRWDSIn   uint8
	SRRWDSOut  uint8
	Timeout    uint8
	CS         bool
	ClkEnable  bool
	DQIn       uint32
	DQOut      uint32
	DQOE       bool
	RWDSIn     uint8
	RWDSOut    uint8
	RWDSOE     bool
}

// RecorderHook stores the transactions and beats of controllers in a
// recording. The per-cycle waveform is stored only when enabled.
type RecorderHook struct {
	recorder recording.Recorder
	waveform bool
}

// NewRecorderHook creates the tables and returns the hook.
func NewRecorderHook(
	recorder recording.Recorder,
	waveform bool,
) (*RecorderHook, error) {
	h := &RecorderHook{
		recorder: recorder,
		waveform: waveform,
	}

	if err := recorder.CreateTable(TransactionTable, TransactionEntry{}); err != nil {
		return nil, err
	}

	if err := recorder.CreateTable(BeatTable, BeatEntry{}); err != nil {
		return nil, err
	}

	if waveform {
		if err := recorder.CreateTable(WaveformTable, WaveformEntry{}); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Func records the hook context.
func (h *RecorderHook) Func(ctx sim.HookCtx) {
	var (
		table string
		entry any
	)

	switch ctx.Pos {
	case HookPosTransactionEnd:
		table = TransactionTable
		entry = transactionEntry(componentName(ctx), ctx.Item.(*Transaction))
	case HookPosBeat:
		table = BeatTable
		entry = beatEntry(ctx.Item.(Beat))
	case HookPosCycle:
		if !h.waveform {
			return
		}

		cycle, _ := ctx.Detail.(uint64)
		w := waveformEntry(componentName(ctx), cycle, ctx.Item.(Debug))
		stampWaveform(&w, ctx.Domain)

		table = WaveformTable
		entry = w
	default:
		return
	}

	if err := h.recorder.InsertData(table, entry); err != nil {
		log.Panic(err)
	}
}

func componentName(ctx sim.HookCtx) string {
	if n, ok := ctx.Domain.(sim.Named); ok {
		return n.Name()
	}

	return ""
}

func transactionEntry(comp string, t *Transaction) TransactionEntry {
	return TransactionEntry{
		ID:         t.ID,
		Component:  comp,
		Command:    uint64(t.Command),
		Write:      t.Write,
		Address:    t.Address,
		StartCycle: t.StartCycle,
		EndCycle:   t.EndCycle,
		StartTime:  float64(t.StartTime),
		EndTime:    float64(t.EndTime),
		Beats:      t.Beats,
		Abort:      t.Abort.String(),
	}
}

func beatEntry(b Beat) BeatEntry {
	return BeatEntry{
		TransactionID: b.TransactionID,
		Index:         b.Index,
		Cycle:         b.Cycle,
		Time:          float64(b.Time),
		Write:         b.Write,
		Address:       b.Address,
		Data:          b.Data,
		Sel:           b.Sel,
	}
}

// clockedDomain is a hook domain that knows its time and PHY clocks.
type clockedDomain interface {
	CurrentTime() sim.VTimeInSec
	Clocks() phy.Clocks
}

func stampWaveform(w *WaveformEntry, domain sim.Hookable) {
	d, ok := domain.(clockedDomain)
	if !ok {
		return
	}

	clocks := d.Clocks()
	now := d.CurrentTime()
	edge := clocks.Edge(now)

	w.Time = float64(now)
	w.DQStart = float64(clocks.BitTimes(edge)[0])
	w.ClockEdge = float64(clocks.ClockEdges(edge)[0])
	w.ClockFrame = float64(clocks.ClockFrameTime(edge))
}

func waveformEntry(comp string, cycle uint64, d Debug) WaveformEntry {
	return WaveformEntry{
		Component: comp,
		Cycle:     cycle,
		State:     d.State.String(),
		Stage:     d.Stage,
		Command:   uint64(d.Command),
		Cyc:       d.Request.Cyc,
		Stb:       d.Request.Stb,
		WE:        d.Request.WE,
		Address:   d.Request.Address,
		WData:     d.Request.Data,
		Sel:       d.Request.Sel,
		Ack:       d.Response.Ack,
		RData:     d.Response.Data,
		SROut:     int64(d.SROut),
		SRIn:      int64(d.SRIn),
		SRRWDSIn:  d.SRRWDSIn,
		SRRWDSOut: d.SRRWDSOut,
		Timeout:   d.Timeout,
		CS:        d.CS,
		ClkEnable: d.ClkEnable,
		DQIn:      d.DQIn,
		DQOut:     d.DQOut,
		DQOE:      d.DQOE,
		RWDSIn:    d.RWDSIn,
		RWDSOut:   d.RWDSOut,
		RWDSOE:    d.RWDSOE,
	}
}
