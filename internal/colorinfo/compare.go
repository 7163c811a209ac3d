package colorinfo

// CompareMode selects how strictly two layouts are compared.
type CompareMode int

const (
	// CompareExact requires the same color family and channel type.
	CompareExact CompareMode = iota

	// CompareBinary requires the same channel count and channel type, which
	// makes the pixels safe to reinterpret as one another (e.g. Bgr and Rgb).
	CompareBinary

	// CompareDepth only requires the same channel type.
	CompareDepth
)

// Equal reports whether c and o describe the same color type.
func (c ColorInfo) Equal(o ColorInfo) bool {
	return c.ColorType == o.ColorType && c.ChannelType == o.ChannelType
}

// BinaryCompatible reports whether pixels of c and o share a memory layout.
func (c ColorInfo) BinaryCompatible(o ColorInfo) bool {
	return c.ChannelCount == o.ChannelCount && c.ChannelType == o.ChannelType
}

// SameDepth reports whether c and o use the same primitive channel type.
func (c ColorInfo) SameDepth(o ColorInfo) bool {
	return c.ChannelType == o.ChannelType
}

// Compare compares two layouts using the given mode. Unknown modes compare
// exactly.
func Compare(a, b ColorInfo, mode CompareMode) bool {
	switch mode {
	case CompareBinary:
		return a.BinaryCompatible(b)
	case CompareDepth:
		return a.SameDepth(b)
	default:
		return a.Equal(b)
	}
}
