package memory

// An Accessor reads and writes the content of a memory. Storage implements
// it; device models take an Accessor so tests can observe or fault accesses.
type Accessor interface {
	Read(address uint64, length uint64) ([]byte, error)
	Write(address uint64, data []byte) error
}

var _ Accessor = (*Storage)(nil)
