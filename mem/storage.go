// Package mem provides the physical memory model of the simulator.
package mem

import "fmt"

// A Storage keeps the bytes of the simulated physical memory. It is a
// plain contiguous buffer; frames are byte ranges inside it, and the
// page-fault loader is the only writer.
type Storage struct {
	capacity uint64
	data     []byte
}

// NewStorage creates a storage object with the specified capacity in
// bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		capacity: capacity,
		data:     make([]byte, capacity),
	}
}

// Capacity returns the size of the storage in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// Read returns n bytes starting at the given physical address.
func (s *Storage) Read(addr, n uint64) ([]byte, error) {
	if addr+n > s.capacity {
		return nil, fmt.Errorf(
			"reading [%d, %d) is beyond the storage capacity %d",
			addr, addr+n, s.capacity)
	}

	res := make([]byte, n)
	copy(res, s.data[addr:addr+n])

	return res, nil
}

// Write copies data into the storage starting at the given physical
// address.
func (s *Storage) Write(addr uint64, data []byte) error {
	if addr+uint64(len(data)) > s.capacity {
		return fmt.Errorf(
			"writing [%d, %d) is beyond the storage capacity %d",
			addr, addr+uint64(len(data)), s.capacity)
	}

	copy(s.data[addr:], data)

	return nil
}
