package interval

// List is an ordered, doubly-linked sequence of intervals representing
// one renderable region, plus the leftmost-dirty pointer for the lazy
// offset cache.
type List struct {
	head, tail *Interval
	count      int

	// dirty is the first interval whose cached offsets are stale, nil
	// when every member is valid. All intervals from dirty onward have
	// offValid unset; all intervals before it have offValid set.
	dirty *Interval
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// NewSettled returns a list holding a single settled interval of n
// items, or an empty list when n is zero.
func NewSettled(n int) *List {
	l := NewList()
	if n > 0 {
		l.PushBack(&Interval{State: Normal, RenderCount: n, ItemCount: n})
	}
	return l
}

// Len returns the number of member intervals.
func (l *List) Len() int { return l.count }

// Front returns the first interval, or nil when empty.
func (l *List) Front() *Interval { return l.head }

// Back returns the last interval, or nil when empty.
func (l *List) Back() *Interval { return l.tail }

// PushBack appends iv to the list.
func (l *List) PushBack(iv *Interval) {
	iv.list = l
	iv.prev = l.tail
	iv.next = nil
	if l.tail != nil {
		l.tail.next = iv
	} else {
		l.head = iv
	}
	l.tail = iv
	l.count++
	l.invalidateFrom(iv)
}

// InsertBefore links iv immediately before ref.
func (l *List) InsertBefore(iv, ref *Interval) {
	iv.list = l
	iv.next = ref
	iv.prev = ref.prev
	if ref.prev != nil {
		ref.prev.next = iv
	} else {
		l.head = iv
	}
	ref.prev = iv
	l.count++
	l.invalidateFrom(iv)
}

// InsertAfter links iv immediately after ref.
func (l *List) InsertAfter(iv, ref *Interval) {
	iv.list = l
	iv.prev = ref
	iv.next = ref.next
	if ref.next != nil {
		ref.next.prev = iv
	} else {
		l.tail = iv
	}
	ref.next = iv
	l.count++
	l.invalidateFrom(iv)
}

// Remove unlinks iv, releases its clock binding, and marks it Disposed.
// A disposed interval is never a member of any list.
func (l *List) Remove(iv *Interval) {
	next := iv.next
	if iv.prev != nil {
		iv.prev.next = iv.next
	} else {
		l.head = iv.next
	}
	if iv.next != nil {
		iv.next.prev = iv.prev
	} else {
		l.tail = iv.prev
	}
	l.count--
	if l.dirty == iv {
		l.dirty = next
	}
	if next != nil {
		l.invalidateFrom(next)
	}
	iv.DetachClock()
	iv.State = Disposed
	iv.list = nil
	iv.prev, iv.next = nil, nil
	iv.MeasureToken = ""
}

// Invalidate marks offsets stale from iv onward. Exposed for mutations
// that change counts in place without restructuring the list.
func (l *List) Invalidate(iv *Interval) {
	l.invalidateFrom(iv)
}

// invalidateFrom clears cached offsets from iv forward, stopping when it
// reaches the already-dirty suffix, and moves the dirty pointer to iv
// when iv lies before it. The clearing walk only retraces ground a
// previous validation paid for, so the cache stays amortized.
func (l *List) invalidateFrom(iv *Interval) {
	for x := iv; x != nil; x = x.next {
		if !x.offValid && x != iv {
			break
		}
		x.offValid = false
	}
	if l.dirty == nil || iv.prev == nil || iv.prev.offValid {
		l.dirty = iv
	}
}

// validateThrough recomputes prefix sums forward from the dirty pointer,
// stopping once target is reached. Everything after target stays dirty
// until next queried.
func (l *List) validateThrough(target *Interval) {
	if target.offValid {
		return
	}
	start := l.dirty
	if start == nil {
		start = l.head
	}
	ro, io := 0, 0
	if p := start.prev; p != nil {
		ro = p.renderOff + p.RenderCount
		io = p.itemOff + p.ItemCount
	}
	for x := start; x != nil; x = x.next {
		x.renderOff, x.itemOff = ro, io
		x.offValid = true
		ro += x.RenderCount
		io += x.ItemCount
		if x == target {
			l.dirty = x.next
			return
		}
	}
	l.dirty = nil
}

// RenderOffset returns the render-space prefix sum of iv, validating the
// cache as far as needed.
func (l *List) RenderOffset(iv *Interval) int {
	l.validateThrough(iv)
	return iv.renderOff
}

// ItemOffset returns the item-space prefix sum of iv, validating the
// cache as far as needed.
func (l *List) ItemOffset(iv *Interval) int {
	l.validateThrough(iv)
	return iv.itemOff
}

// TotalRenderCount returns the number of render-space slots in the list.
func (l *List) TotalRenderCount() int {
	if l.tail == nil {
		return 0
	}
	l.validateThrough(l.tail)
	return l.tail.renderOff + l.tail.RenderCount
}

// TotalItemCount returns the number of item-space positions in the list.
// This always equals the caller's current sequence length.
func (l *List) TotalItemCount() int {
	if l.tail == nil {
		return 0
	}
	l.validateThrough(l.tail)
	return l.tail.itemOff + l.tail.ItemCount
}

// FindByRenderIndex locates the interval owning render index i and the
// index's offset within it. Returns nil when i is out of range.
func (l *List) FindByRenderIndex(i int) (*Interval, int) {
	if i < 0 {
		return nil, 0
	}
	for x := l.head; x != nil; x = x.next {
		ro := l.RenderOffset(x)
		if i < ro+x.RenderCount {
			return x, i - ro
		}
	}
	return nil, 0
}

// FindByItemIndex locates the interval owning item index i and the
// index's offset within it. Returns nil when i is out of range.
func (l *List) FindByItemIndex(i int) (*Interval, int) {
	if i < 0 {
		return nil, 0
	}
	for x := l.head; x != nil; x = x.next {
		io := l.ItemOffset(x)
		if x.ItemCount > 0 && i < io+x.ItemCount {
			return x, i - io
		}
	}
	return nil, 0
}
