// Package backing provides the backing store, the authoritative source
// of every page's bytes.
package backing

import (
	"fmt"
	"os"

	"github.com/sarchlab/vmsim/mem/vm"
)

// A Store is a flat, page-indexed binary file holding one page per
// page number, in page-number order, with no header.
type Store struct {
	file     *os.File
	pageSize uint32
	numPages uint32
}

// Open opens the backing store file and validates that it covers the
// whole address space. A missing or short file is fatal for the run.
func Open(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backing store: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening backing store: %w", err)
	}

	minSize := int64(vm.NumPages) * vm.PageSize
	if info.Size() < minSize {
		file.Close()
		return nil, fmt.Errorf(
			"backing store %s is %d bytes, need at least %d",
			path, info.Size(), minSize)
	}

	return &Store{
		file:     file,
		pageSize: vm.PageSize,
		numPages: vm.NumPages,
	}, nil
}

// ReadPage returns the bytes of the given page. It always reads
// exactly one full page; a short read is an error.
func (s *Store) ReadPage(pageNum uint32) ([]byte, error) {
	if pageNum >= s.numPages {
		return nil, fmt.Errorf("page number %d out of range", pageNum)
	}

	data := make([]byte, s.pageSize)
	offset := int64(pageNum) * int64(s.pageSize)

	_, err := s.file.ReadAt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", pageNum, err)
	}

	return data, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	return s.file.Close()
}
