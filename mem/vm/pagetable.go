package vm

import "fmt"

type pageTableEntry struct {
	frame uint32
	valid bool
}

// A PageTable maps page numbers to frame addresses. It owns a FIFO
// queue of frame occupancy so that, once all frames are in use, the
// page that has held a frame the longest is evicted first.
type PageTable struct {
	entries   [NumPages]pageTableEntry
	queue     []Mapping
	numFrames int
}

// NewPageTable creates a PageTable that manages numFrames physical
// frames.
func NewPageTable(numFrames int) *PageTable {
	if numFrames <= 0 {
		panic(fmt.Sprintf("page table needs at least 1 frame, got %d",
			numFrames))
	}

	return &PageTable{
		queue:     make([]Mapping, 0, numFrames),
		numFrames: numFrames,
	}
}

// Find returns the frame address holding the given page. The bool
// return value indicates whether the page is currently mapped.
func (pt *PageTable) Find(pageNum uint32) (uint32, bool) {
	pt.pageMustBeValid(pageNum)

	entry := pt.entries[pageNum]
	return entry.frame, entry.valid
}

// AllocateFrame assigns a frame to the given page, evicting the
// oldest-assigned page if all frames are occupied. Frames are handed
// out in ascending order until the table is first full; after that,
// the evicted page's frame is reused. The returned frame address is
// always a multiple of PageSize.
func (pt *PageTable) AllocateFrame(pageNum uint32) uint32 {
	pt.pageMustBeValid(pageNum)

	var frame uint32
	if len(pt.queue) == pt.numFrames {
		victim := pt.queue[0]
		pt.queue = pt.queue[1:]
		pt.entries[victim.PageNum] = pageTableEntry{}
		frame = victim.Frame
	} else {
		frame = uint32(len(pt.queue)) * PageSize
	}

	pt.queue = append(pt.queue, Mapping{PageNum: pageNum, Frame: frame})
	pt.entries[pageNum] = pageTableEntry{frame: frame, valid: true}

	return frame
}

// NumOccupiedFrames returns how many frames currently hold a page.
func (pt *PageTable) NumOccupiedFrames() int {
	return len(pt.queue)
}

// NumFrames returns the total number of frames the table manages.
func (pt *PageTable) NumFrames() int {
	return pt.numFrames
}

func (pt *PageTable) pageMustBeValid(pageNum uint32) {
	if pageNum >= NumPages {
		panic(fmt.Sprintf("page number %d out of range", pageNum))
	}
}
