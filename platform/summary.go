package platform

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sarchlab/hyperram/config"
	"github.com/sarchlab/hyperram/sim"
)

// A Mismatch is a read whose data differs from the expected words.
type Mismatch struct {
	Index   int
	Address uint32
	Want    []uint32
	Got     []uint32
}

func (m Mismatch) String() string {
	return fmt.Sprintf("transaction %d @0x%06x: want %08x, got %08x",
		m.Index, m.Address, m.Want, m.Got)
}

// Summary summarizes a run.
type Summary struct {
	Transactions int
	Completed    int
	TimedOut     int
	Mismatches   []Mismatch

	Cycles       uint64
	SimTime      sim.VTimeInSec
	BytesWritten uint64
	BytesRead    uint64
}

// ErrFailed is returned by Summary.Err when a transaction failed.
var ErrFailed = errors.New("scenario failed")

// Err tells if any transaction timed out or read unexpected data.
func (r *Summary) Err() error {
	if r.TimedOut == 0 && len(r.Mismatches) == 0 &&
		r.Completed == r.Transactions {
		return nil
	}

	return fmt.Errorf("%w: %d of %d completed, %d timed out, %d mismatched",
		ErrFailed, r.Completed-r.TimedOut, r.Transactions,
		r.TimedOut, len(r.Mismatches))
}

// Write prints the report in a human-readable form.
func (r *Summary) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"transactions: %d\ncompleted: %d\ntimed out: %d\n"+
			"cycles: %d\nsimulated time: %.3f us\n"+
			"device bytes written: %d\ndevice bytes read: %d\n",
		r.Transactions, r.Completed, r.TimedOut,
		r.Cycles, float64(r.SimTime)*1e6,
		r.BytesWritten, r.BytesRead)
	if err != nil {
		return err
	}

	for _, m := range r.Mismatches {
		if _, err := fmt.Fprintf(w, "mismatch: %s\n", m); err != nil {
			return err
		}
	}

	return nil
}

func (p *Platform) summary() *Summary {
	r := &Summary{
		Transactions: len(p.txns),
		Cycles:       p.Controller.Cycle(),
		SimTime:      p.Engine.CurrentTime(),
		BytesWritten: p.Device.BytesWritten(),
		BytesRead:    p.Device.BytesRead(),
	}

	for i, t := range p.txns {
		if t.Done {
			r.Completed++
		}

		if t.TimedOut {
			r.TimedOut++
			continue
		}

		want := p.cfg.Transactions[i].Expect
		if p.cfg.Transactions[i].Op != config.OpRead || len(want) == 0 {
			continue
		}

		if !slices.Equal(want, t.Data) {
			r.Mismatches = append(r.Mismatches, Mismatch{
				Index:   i,
				Address: t.Address,
				Want:    want,
				Got:     t.Data,
			})
		}
	}

	return r
}
