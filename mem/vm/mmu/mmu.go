// Package mmu provides the address translator that ties the TLB, the
// page table, and the backing store together.
package mmu

import (
	"fmt"
	"sync"

	"github.com/sarchlab/vmsim/mem"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/tlb"
)

// A PageReader can provide the bytes of a page from the backing store.
type PageReader interface {
	ReadPage(pageNum uint32) ([]byte, error)
}

// Comp translates virtual addresses to physical addresses. A query
// consults the TLB first, falls back to the page table, and finally
// loads the page from the backing store into a newly assigned frame (a
// page fault).
//
// Queries must be issued one at a time; only the accumulated counters
// are safe to read from another goroutine.
type Comp struct {
	name      string
	storage   *mem.Storage
	pageTable *vm.PageTable
	tlb       *tlb.Comp
	reader    PageReader

	statsLock sync.Mutex
	stats     vm.TranslationStats
}

// Name returns the name of the translator.
func (c *Comp) Name() string {
	return c.name
}

// Stats returns a snapshot of the counters accumulated so far.
func (c *Comp) Stats() vm.TranslationStats {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	return c.stats
}

// Translate resolves one virtual address and returns the physical
// address, the byte stored there, and which tier answered the query.
// A failed backing-store read is fatal for the query; no partial page
// is ever installed as a result.
func (c *Comp) Translate(addr vm.Address) (vm.QueryResult, error) {
	pageNum := addr.PageNumber()
	offset := addr.Offset()

	if frame, found := c.tlb.Lookup(pageNum); found {
		return c.handleTLBHit(frame, offset)
	}

	if frame, found := c.pageTable.Find(pageNum); found {
		return c.handlePageTableHit(pageNum, frame, offset)
	}

	return c.handlePageFault(pageNum, offset)
}

func (c *Comp) handleTLBHit(
	frame, offset uint32,
) (vm.QueryResult, error) {
	physAddr := frame + offset

	value, err := c.readValue(physAddr)
	if err != nil {
		return vm.QueryResult{}, err
	}

	result := vm.QueryResult{
		PhysicalAddr: physAddr,
		TLBHit:       true,
		Value:        value,
	}
	c.recordQuery(result)

	return result, nil
}

func (c *Comp) handlePageTableHit(
	pageNum, frame, offset uint32,
) (vm.QueryResult, error) {
	c.tlb.Insert(pageNum, frame)

	physAddr := frame + offset

	value, err := c.readValue(physAddr)
	if err != nil {
		return vm.QueryResult{}, err
	}

	result := vm.QueryResult{
		PhysicalAddr: physAddr,
		Value:        value,
	}
	c.recordQuery(result)

	return result, nil
}

func (c *Comp) handlePageFault(
	pageNum, offset uint32,
) (vm.QueryResult, error) {
	frame := c.pageTable.AllocateFrame(pageNum)
	c.tlb.Insert(pageNum, frame)

	data, err := c.reader.ReadPage(pageNum)
	if err != nil {
		return vm.QueryResult{},
			fmt.Errorf("loading page %d: %w", pageNum, err)
	}

	err = c.storage.Write(uint64(frame), data)
	if err != nil {
		return vm.QueryResult{},
			fmt.Errorf("installing page %d in frame %d: %w",
				pageNum, frame, err)
	}

	physAddr := frame + offset

	value, err := c.readValue(physAddr)
	if err != nil {
		return vm.QueryResult{}, err
	}

	result := vm.QueryResult{
		PhysicalAddr: physAddr,
		PageFault:    true,
		Value:        value,
	}
	c.recordQuery(result)

	return result, nil
}

func (c *Comp) readValue(physAddr uint32) (int8, error) {
	data, err := c.storage.Read(uint64(physAddr), 1)
	if err != nil {
		return 0, err
	}

	return int8(data[0]), nil
}

func (c *Comp) recordQuery(result vm.QueryResult) {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	c.stats.Total++
	if result.PageFault {
		c.stats.PageFaults++
	}
	if result.TLBHit {
		c.stats.TLBHits++
	}
}
