package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator hands out identifiers for transactions.
type IDGenerator interface {
	Generate() string
}

// SequentialIDGenerator counts from 1. IDs are unique within one run only.
type SequentialIDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewSequentialIDGenerator returns a generator whose IDs are prefix plus a
// counter.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

// XIDGenerator returns globally unique, time-sortable IDs, so that the
// recordings of several runs can share one database.
type XIDGenerator struct{}

// Generate returns a new xid.
func (XIDGenerator) Generate() string {
	return xid.New().String()
}

// NewIDGenerator picks a sequential generator, or an xid generator when
// unique is set.
func NewIDGenerator(prefix string, unique bool) IDGenerator {
	if unique {
		return XIDGenerator{}
	}

	return NewSequentialIDGenerator(prefix)
}
