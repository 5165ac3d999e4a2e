// Package tlb provides a fully-associative translation lookaside
// buffer with FIFO replacement.
package tlb

import (
	"github.com/sarchlab/vmsim/mem/vm"
)

// Comp is a cache that maintains recently used page-to-frame mappings.
// Entries are kept in insertion order; a lookup does not promote the
// entry it finds, and inserting into a full cache drops the oldest
// entry.
type Comp struct {
	name     string
	capacity int
	entries  []vm.Mapping
}

// Name returns the name of the TLB.
func (c *Comp) Name() string {
	return c.name
}

// Capacity returns the maximum number of entries the TLB can hold.
func (c *Comp) Capacity() int {
	return c.capacity
}

// Len returns the number of entries currently in the TLB.
func (c *Comp) Len() int {
	return len(c.entries)
}

// Lookup scans the entries from oldest to newest and returns the frame
// address recorded for the given page. There is no side effect on a
// hit.
//
// The TLB is never told when the page table evicts a page, so an entry
// can outlive the mapping it was created from. Such an entry keeps
// answering until enough later insertions push it out; runs with very
// few frames can therefore see a hit that resolves to a frame whose
// page has since been replaced.
func (c *Comp) Lookup(pageNum uint32) (uint32, bool) {
	for _, entry := range c.entries {
		if entry.PageNum == pageNum {
			return entry.Frame, true
		}
	}

	return 0, false
}

// Insert records a page-to-frame mapping, evicting the oldest entry if
// the TLB is full. No deduplication against existing entries for the
// same page is performed.
func (c *Comp) Insert(pageNum, frame uint32) {
	if len(c.entries) == c.capacity {
		c.entries = c.entries[1:]
	}

	c.entries = append(c.entries,
		vm.Mapping{PageNum: pageNum, Frame: frame})
}
