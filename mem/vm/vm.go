// Package vm provides the data model for virtual-to-physical address
// translation: address decomposition, page-to-frame mappings, and the
// page table.
package vm

// PageSize is the number of bytes in a page and in a frame.
const PageSize = 256

// NumPages is the number of pages in the virtual address space. A
// virtual address is 16 bits, split into an 8-bit page number and an
// 8-bit in-page offset.
const NumPages = 256

// DefaultNumFrames is the number of physical frames used when no frame
// count is configured. It is intentionally smaller than NumPages so
// that frame eviction is exercised.
const DefaultNumFrames = 128

// An Address is a 16-bit virtual address.
type Address uint16

// MaskAddress truncates a raw integer to the 16-bit virtual address
// space.
func MaskAddress(raw uint64) Address {
	return Address(raw & 0xFFFF)
}

// PageNumber returns the upper 8 bits of the address.
func (a Address) PageNumber() uint32 {
	return uint32(a) >> 8
}

// Offset returns the lower 8 bits of the address.
func (a Address) Offset() uint32 {
	return uint32(a) & 0xFF
}

// A Mapping associates a page number with the byte address of the frame
// that holds the page. Frame addresses are always multiples of
// PageSize.
type Mapping struct {
	PageNum uint32
	Frame   uint32
}

// A QueryResult describes the outcome of translating one virtual
// address.
type QueryResult struct {
	PhysicalAddr uint32
	PageFault    bool
	TLBHit       bool
	Value        int8
}

// TranslationStats accumulates per-run counters over a stream of
// queries.
type TranslationStats struct {
	Total      uint64
	PageFaults uint64
	TLBHits    uint64
}

// PageFaultRate returns the fraction of queries that required loading a
// page from the backing store.
func (s TranslationStats) PageFaultRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.PageFaults) / float64(s.Total)
}

// TLBHitRate returns the fraction of queries answered by the
// translation cache.
func (s TranslationStats) TLBHitRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.TLBHits) / float64(s.Total)
}
