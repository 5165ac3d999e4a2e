package mmu

import (
	"github.com/sarchlab/vmsim/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
)

// A Builder can build address translators.
type Builder struct {
	numFrames   int
	tlbCapacity int
	storage     *mem.Storage
	reader      PageReader
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numFrames:   vm.DefaultNumFrames,
		tlbCapacity: 16,
	}
}

// WithNumFrames sets the number of physical frames. Using fewer frames
// than pages makes frame eviction necessary.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithTLBCapacity sets the number of entries in the TLB.
func (b Builder) WithTLBCapacity(n int) Builder {
	b.tlbCapacity = n
	return b
}

// WithStorage sets the storage that holds the physical memory. If not
// provided, a storage sized to the frame count is created.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// WithPageReader sets the backing store that pages are loaded from on
// a page fault.
func (b Builder) WithPageReader(reader PageReader) Builder {
	b.reader = reader
	return b
}

// Build creates a new translator.
func (b Builder) Build(name string) *Comp {
	if b.reader == nil {
		panic("a page reader must be provided")
	}

	c := &Comp{
		name:      name,
		pageTable: vm.NewPageTable(b.numFrames),
		reader:    b.reader,
	}

	c.tlb = tlb.MakeBuilder().
		WithCapacity(b.tlbCapacity).
		Build(name + ".TLB")

	capacity := uint64(b.numFrames) * vm.PageSize
	if b.storage == nil {
		c.storage = mem.NewStorage(capacity)
	} else {
		if b.storage.Capacity() < capacity {
			panic("storage is smaller than the configured frames")
		}
		c.storage = b.storage
	}

	return c
}
