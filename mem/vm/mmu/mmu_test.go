package mmu

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vmsim/mem/vm"
)

// pageFilledWith returns a full page whose every byte is b.
func pageFilledWith(b byte) []byte {
	data := make([]byte, vm.PageSize)
	for i := range data {
		data[i] = b
	}
	return data
}

var _ = Describe("MMU", func() {
	var (
		mockCtrl *gomock.Controller
		reader   *MockPageReader
		m        *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		reader = NewMockPageReader(mockCtrl)
		m = MakeBuilder().WithPageReader(reader).Build("MMU")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should page fault on a cold query", func() {
		reader.EXPECT().ReadPage(uint32(1)).
			Return(pageFilledWith(0x2A), nil)

		result, err := m.Translate(vm.Address(0x0123))

		Expect(err).ToNot(HaveOccurred())
		Expect(result.PageFault).To(BeTrue())
		Expect(result.TLBHit).To(BeFalse())
		Expect(result.PhysicalAddr).To(Equal(uint32(0x23)))
		Expect(result.Value).To(Equal(int8(0x2A)))
	})

	It("should serve the second identical query from the TLB", func() {
		reader.EXPECT().ReadPage(uint32(1)).
			Return(pageFilledWith(0x2A), nil).
			Times(1)

		first, err := m.Translate(vm.Address(0x0100))
		Expect(err).ToNot(HaveOccurred())
		Expect(first.PageFault).To(BeTrue())
		Expect(first.TLBHit).To(BeFalse())

		second, err := m.Translate(vm.Address(0x0100))
		Expect(err).ToNot(HaveOccurred())
		Expect(second.PageFault).To(BeFalse())
		Expect(second.TLBHit).To(BeTrue())
		Expect(second.PhysicalAddr).To(Equal(first.PhysicalAddr))
		Expect(second.Value).To(Equal(first.Value))
	})

	It("should fall back to the page table when the TLB aged the entry out",
		func() {
			m = MakeBuilder().
				WithTLBCapacity(1).
				WithPageReader(reader).
				Build("MMU")

			reader.EXPECT().ReadPage(uint32(0)).
				Return(pageFilledWith(1), nil).
				Times(1)
			reader.EXPECT().ReadPage(uint32(1)).
				Return(pageFilledWith(2), nil).
				Times(1)

			m.Translate(vm.Address(0x0000))
			m.Translate(vm.Address(0x0100))

			result, err := m.Translate(vm.Address(0x0000))

			Expect(err).ToNot(HaveOccurred())
			Expect(result.PageFault).To(BeFalse())
			Expect(result.TLBHit).To(BeFalse())
			Expect(result.PhysicalAddr).To(Equal(uint32(0)))
			Expect(result.Value).To(Equal(int8(1)))
		})

	It("should interpret bytes as signed values", func() {
		reader.EXPECT().ReadPage(uint32(0)).
			Return(pageFilledWith(0x80), nil)

		result, err := m.Translate(vm.Address(0x0000))

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Value).To(Equal(int8(-128)))
	})

	It("should report a failed backing-store read", func() {
		readErr := errors.New("disk on fire")
		reader.EXPECT().ReadPage(uint32(3)).Return(nil, readErr)

		_, err := m.Translate(vm.Address(0x0300))

		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, readErr)).To(BeTrue())
	})

	It("should accumulate counters over a stream of queries", func() {
		reader.EXPECT().ReadPage(gomock.Any()).
			DoAndReturn(func(pageNum uint32) ([]byte, error) {
				return pageFilledWith(byte(pageNum)), nil
			}).
			Times(2)

		m.Translate(vm.Address(0x0000)) // fault
		m.Translate(vm.Address(0x0100)) // fault
		m.Translate(vm.Address(0x0001)) // TLB hit
		m.Translate(vm.Address(0x0101)) // TLB hit

		stats := m.Stats()
		Expect(stats.Total).To(Equal(uint64(4)))
		Expect(stats.PageFaults).To(Equal(uint64(2)))
		Expect(stats.TLBHits).To(Equal(uint64(2)))
		Expect(stats.PageFaultRate()).To(Equal(0.5))
		Expect(stats.TLBHitRate()).To(Equal(0.5))
	})

	It("should serve a stale mapping after its page was evicted", func() {
		// With 2 frames and no TLB invalidation, page 0's TLB entry
		// outlives its page-table entry. The hit reads frame 0, which
		// by then holds page 2's bytes.
		m = MakeBuilder().
			WithNumFrames(2).
			WithPageReader(reader).
			Build("MMU")

		reader.EXPECT().ReadPage(uint32(0)).Return(pageFilledWith(10), nil)
		reader.EXPECT().ReadPage(uint32(1)).Return(pageFilledWith(11), nil)
		reader.EXPECT().ReadPage(uint32(2)).Return(pageFilledWith(12), nil)

		m.Translate(vm.Address(0x0000))
		m.Translate(vm.Address(0x0100))
		m.Translate(vm.Address(0x0200)) // evicts page 0, reuses frame 0

		result, err := m.Translate(vm.Address(0x0000))

		Expect(err).ToNot(HaveOccurred())
		Expect(result.TLBHit).To(BeTrue())
		Expect(result.PhysicalAddr).To(Equal(uint32(0)))
		Expect(result.Value).To(Equal(int8(12)))
	})
})
