package tlb

// A Builder can build TLBs.
type Builder struct {
	capacity int
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		capacity: 16,
	}
}

// WithCapacity sets the number of entries the TLB can hold.
func (b Builder) WithCapacity(n int) Builder {
	b.capacity = n
	return b
}

// Build creates a new TLB.
func (b Builder) Build(name string) *Comp {
	if b.capacity <= 0 {
		panic("TLB capacity must be positive")
	}

	return &Comp{
		name:     name,
		capacity: b.capacity,
	}
}
