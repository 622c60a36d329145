package phy

import "log"

// NumPhases is the ratio of the gearbox. Four bit-times go on the wire for
// every core cycle.
const NumPhases = 4

// Lane counts of the two gearboxes.
const (
	DQLanes   = 8
	RWDSLanes = 1
)

// A Serializer splits one wide word per core cycle into NumPhases narrow
// samples (ODDRX2F). Phase 0 is transmitted first and carries the most
// significant lane group.
type Serializer struct {
	lanes int
	mask  uint32
	regs  *Synchronizer[uint32]
}

// NewSerializer creates a serializer for the given number of lanes whose
// output lags its input by latency core cycles.
func NewSerializer(name string, lanes, latency int) *Serializer {
	if lanes <= 0 || lanes*NumPhases > 32 {
		log.Panicf("serializer %s: unsupported lane count %d", name, lanes)
	}

	return &Serializer{
		lanes: lanes,
		mask:  1<<lanes - 1,
		regs:  NewSynchronizer[uint32](name, latency, 0),
	}
}

// Serialize accepts the word of this cycle and returns the samples put on
// the wire during this cycle.
func (s *Serializer) Serialize(word uint32) [NumPhases]uint8 {
	return Split(s.regs.Sync(word), s.lanes)
}

// Settled tells if no data is in flight.
func (s *Serializer) Settled() bool {
	return s.regs.Settled()
}

// Split breaks a word into NumPhases samples, most significant group first.
func Split(word uint32, lanes int) [NumPhases]uint8 {
	var samples [NumPhases]uint8

	mask := uint32(1)<<lanes - 1
	for p := 0; p < NumPhases; p++ {
		shift := (NumPhases - 1 - p) * lanes
		samples[p] = uint8(word >> shift & mask)
	}

	return samples
}

// A Deserializer rebuilds one wide word per core cycle from NumPhases narrow
// samples (IDDRX2F). The first received sample lands in the most
// significant lane group.
type Deserializer struct {
	lanes int
}

// NewDeserializer creates a deserializer for the given number of lanes.
func NewDeserializer(name string, lanes int) *Deserializer {
	if lanes <= 0 || lanes*NumPhases > 32 {
		log.Panicf("deserializer %s: unsupported lane count %d", name, lanes)
	}

	return &Deserializer{lanes: lanes}
}

// Deserialize packs the samples received during one core cycle.
func (d *Deserializer) Deserialize(samples [NumPhases]uint8) uint32 {
	return Join(samples, d.lanes)
}

// Join is the inverse of Split.
func Join(samples [NumPhases]uint8, lanes int) uint32 {
	var word uint32

	mask := uint32(1)<<lanes - 1
	for p := 0; p < NumPhases; p++ {
		shift := (NumPhases - 1 - p) * lanes
		word |= (uint32(samples[p]) & mask) << shift
	}

	return word
}
