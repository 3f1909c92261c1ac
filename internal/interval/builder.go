package interval

// Builder produces the visual for one off-list position: content that is
// no longer (or not yet) present in item space, used only while an
// interval transitions. The returned value is opaque to the engine; the
// renderer decides what it is.
type Builder func(index int) any

// OffsetBuilder shifts a builder so index 0 of the result maps to index
// off of b. Used when a split assigns the right piece of an off-list
// range to a new interval: the piece still requests the correct items
// from the caller-owned builder.
func OffsetBuilder(b Builder, off int) Builder {
	if b == nil {
		return nil
	}
	if off == 0 {
		return b
	}
	return func(i int) any {
		return b(i + off)
	}
}

// ConcatBuilders joins two builders: indices below aCount resolve
// through a, the rest through b. Used when the optimizer merges two
// waiting off-list intervals.
func ConcatBuilders(a Builder, aCount int, b Builder) Builder {
	if a == nil {
		return OffsetBuilder(b, -aCount)
	}
	if b == nil {
		return a
	}
	return func(i int) any {
		if i < aCount {
			return a(i)
		}
		return b(i - aCount)
	}
}
