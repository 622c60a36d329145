package memory

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an access touches bytes beyond the capacity
// of a storage.
var ErrOutOfRange = errors.New("access beyond the storage capacity")

// DefaultUnitSize is the allocation granularity of a Storage.
const DefaultUnitSize = 4096

// A Storage keeps the content of a memory device.
//
// The storage manages the data in units, similar to pages in memory
// management. Units that are never touched by Read or Write are never
// allocated, so a large device costs nothing until it is used. Untouched
// bytes read as zero.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return NewStorageWithUnitSize(capacity, DefaultUnitSize)
}

// NewStorageWithUnitSize creates a storage that allocates unitSize bytes at
// a time.
func NewStorageWithUnitSize(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("storage unit size cannot be 0")
	}

	storage := new(Storage)
	storage.unitSize = unitSize
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// NumAllocatedUnits returns how many units have been touched.
func (s *Storage) NumAllocatedUnits() int {
	return len(s.data)
}

func (s *Storage) checkRange(address, length uint64) error {
	if address >= s.capacity || length > s.capacity-address {
		return fmt.Errorf("%w: [0x%x, 0x%x) with capacity 0x%x",
			ErrOutOfRange, address, address+length, s.capacity)
	}

	return nil
}

// createOrGetStorageUnit retrieves a storage unit if the unit has been created
// before. Otherwise it initializes a storage unit in the storage object.
func (s *Storage) createOrGetStorageUnit(address uint64) []byte {
	baseAddr, _ := s.parseAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	if err := s.checkRange(address, length); err != nil {
		return nil, err
	}

	res := make([]byte, length)
	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < length {
		unit := s.createOrGetStorageUnit(currAddr)
		_, inUnitAddr := s.parseAddress(currAddr)
		n := min(length-dataOffset, s.unitSize-inUnitAddr)

		copy(res[dataOffset:dataOffset+n], unit[inUnitAddr:inUnitAddr+n])
		dataOffset += n
		currAddr += n
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	if err := s.checkRange(address, length); err != nil {
		return err
	}

	currAddr := address
	dataOffset := uint64(0)

	for dataOffset < length {
		unit := s.createOrGetStorageUnit(currAddr)
		_, inUnitAddr := s.parseAddress(currAddr)
		n := min(length-dataOffset, s.unitSize-inUnitAddr)

		copy(unit[inUnitAddr:inUnitAddr+n], data[dataOffset:dataOffset+n])
		dataOffset += n
		currAddr += n
	}

	return nil
}
