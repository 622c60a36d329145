package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many items of a known total are done.
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// Begin marks items as started.
func (b *ProgressBar) Begin(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// Complete moves started items to finished. Items that were never begun
// are counted as finished directly.
func (b *ProgressBar) Complete(amount uint64) {
	b.Lock()
	defer b.Unlock()

	moved := min(amount, b.InProgress)
	b.InProgress -= moved
	b.Finished += amount
}

// Done tells if every item is finished.
func (b *ProgressBar) Done() bool {
	b.Lock()
	defer b.Unlock()

	return b.Finished >= b.Total
}
