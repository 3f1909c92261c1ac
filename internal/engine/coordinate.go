package engine

import "github.com/roach88/glide/internal/interval"

// Admission policy. The tiers enforce a deterministic visual order:
// shrink before grow, content settled before insert. A candidate is
// admitted against a blocking tier only when the tier is empty or the
// candidate was marked strictly more urgent (numerically lower
// priority) than everything in it; at equal priority the earlier tier
// wins. The boundary conditions were pinned against the reference
// scenarios, so keep the comparison strict.
func admits(priority, tierMin int, tierOccupied bool) bool {
	return !tierOccupied || priority < tierMin
}

// removalTier covers pending and active removals.
func removalTier(x *interval.Interval) bool {
	return x.State == interval.ReadyToRemove || x.State == interval.Removing
}

// resizeTier covers pending and active size changes plus the change
// path, which occupies its span the same way while it runs.
func resizeTier(x *interval.Interval) bool {
	switch x.State {
	case interval.ReadyToResize, interval.Resizing, interval.ReadyToChange:
		return true
	case interval.Inserting:
		return x.AsChange
	}
	return false
}

// tierMin scans the list for the most urgent priority in a tier.
func (e *Engine) tierMin(tier func(*interval.Interval) bool) (int, bool) {
	min, occupied := 0, false
	for x := e.list.Front(); x != nil; x = x.Next() {
		if !tier(x) {
			continue
		}
		if !occupied || x.Priority < min {
			min = x.Priority
		}
		occupied = true
	}
	return min, occupied
}

// coordinate promotes every ready interval whose priority is
// admissible, triggers size measurement for intervals entering their
// resize stage, and leaves everything else for the next completion
// event. A promotion can unblock further promotions (a gap settling at
// its target frees its insert stage), so passes repeat until nothing
// moves. Removals started in the same pass with equal priority share
// one clock binding.
func (e *Engine) coordinate() {
	if e.disposed {
		return
	}
	var started []*interval.ClockBinding
	for {
		progressed := false
		removeMin, removeBusy := e.tierMin(removalTier)
		resizeMin, resizeBusy := e.tierMin(resizeTier)
		var removalBinding *interval.ClockBinding
		removalPriority := 0

		x := e.list.Front()
		for x != nil {
			next := x.Next()
			switch x.State {
			case interval.ReadyToRemove:
				// Removals are never blocked; they head the visual order.
				if removalBinding == nil || removalPriority != x.Priority {
					removalBinding = e.newBinding()
					removalPriority = x.Priority
					started = append(started, removalBinding)
				}
				x.AttachClock(removalBinding)
				x.State = interval.Removing
				if x.OffCount > 0 && !x.Measuring() {
					e.requestMeasure(x, MeasureSource)
				}
				progressed = true
				e.log.Debug("removal started", "render", x.RenderCount, "priority", x.Priority)

			case interval.ReadyToResize:
				if !e.coordination || admits(x.Priority, removeMin, removeBusy) {
					b, moved := e.startResize(x)
					if b != nil {
						started = append(started, b)
					}
					progressed = progressed || moved
				}

			case interval.ReadyToChange:
				if !e.coordination || admits(x.Priority, removeMin, removeBusy) {
					off := e.list.RenderOffset(x)
					b := e.newBinding()
					x.AttachClock(b)
					x.State = interval.Inserting
					started = append(started, b)
					progressed = true
					e.emitUpdate(UpdateRecord{off, x.RenderCount, x.RenderCount, UpdateRebuild})
					e.log.Debug("change started", "count", x.ItemCount, "priority", x.Priority)
				}

			case interval.ReadyToInsert:
				if !e.coordination || admits(x.Priority, resizeMin, resizeBusy) {
					off := e.list.RenderOffset(x)
					old := x.RenderCount
					x.RenderCount = x.ItemCount
					e.list.Invalidate(x)
					b := e.newBinding()
					x.AttachClock(b)
					x.State = interval.Inserting
					started = append(started, b)
					progressed = true
					e.emitUpdate(UpdateRecord{off, old, x.RenderCount, UpdateReplace})
					e.log.Debug("insert started", "count", x.ItemCount, "priority", x.Priority)
				}
			}
			x = next
		}
		if !progressed {
			break
		}
	}

	for _, b := range started {
		e.startBinding(b)
	}
}

// startResize moves an admitted ready-to-resize interval toward its
// clock: open the gap slot if the interval was spawned, measure the
// target extent if unknown, then run. Returns the binding to start (nil
// while waiting on measurement) and whether the interval changed state.
func (e *Engine) startResize(x *interval.Interval) (*interval.ClockBinding, bool) {
	l := e.list
	moved := false
	if x.ItemCount == 0 && !x.HasTarget {
		// Nothing incoming: the gap closes to zero, no measurement
		// needed.
		x.ToSize = 0
		x.HasTarget = true
	}
	if x.RenderCount == 0 {
		off := l.RenderOffset(x)
		x.RenderCount = 1
		l.Invalidate(x)
		e.emitUpdate(UpdateRecord{off, 0, 1, UpdateReplace})
		moved = true
	}
	if !x.HasTarget {
		if !x.Measuring() {
			e.requestMeasure(x, MeasureTarget)
		}
		return nil, moved
	}
	if x.ToSize == x.FromSize {
		// Extent already right; skip the resize clock entirely.
		e.finishResize(x)
		return nil, true
	}
	b := e.newBinding()
	x.AttachClock(b)
	x.State = interval.Resizing
	e.log.Debug("resize started",
		"from", x.FromSize,
		"to", x.ToSize,
		"items", x.ItemCount,
		"priority", x.Priority,
	)
	return b, true
}

// finishResize settles a gap at its target extent: dispose when nothing
// is incoming, otherwise hold the items for the insert stage.
func (e *Engine) finishResize(x *interval.Interval) {
	l := e.list
	x.DetachClock()
	x.FromSize = x.ToSize
	if x.ItemCount == 0 {
		off := l.RenderOffset(x)
		old := x.RenderCount
		l.Remove(x)
		e.emitUpdate(UpdateRecord{off, old, 0, UpdateUnbind})
		return
	}
	x.State = interval.ReadyToInsert
}

// handleClockDone advances every interval bound to the completed clock
// to its next state, then re-coordinates.
func (e *Engine) handleClockDone(b *interval.ClockBinding) {
	if e.disposed {
		return
	}
	var done []*interval.Interval
	for x := e.list.Front(); x != nil; x = x.Next() {
		if x.Clock == b {
			done = append(done, x)
		}
	}
	for _, x := range done {
		e.advance(x)
	}
	e.coordinate()
	e.optimize()
}

// advance performs one state machine transition for an interval whose
// clock completed: a single atomic relabeling plus, where relevant,
// disposal and offset invalidation from that point forward.
func (e *Engine) advance(x *interval.Interval) {
	l := e.list
	switch x.State {
	case interval.Removing:
		// Old content is gone; the remaining slots collapse into one gap
		// that the resize stage will animate.
		off := l.RenderOffset(x)
		old := x.RenderCount
		x.DetachClock()
		x.State = interval.ReadyToResize
		x.RenderCount = 1
		x.OffCount = 0
		x.Build = nil
		x.HasTarget = false
		l.Invalidate(x)
		e.emitUpdate(UpdateRecord{off, old, 1, UpdateReplace})

	case interval.Resizing:
		e.finishResize(x)

	case interval.Inserting:
		off := l.RenderOffset(x)
		x.DetachClock()
		x.State = interval.Normal
		x.OffCount = 0
		x.Build = nil
		x.AsChange = false
		e.emitUpdate(UpdateRecord{off, x.RenderCount, x.RenderCount, UpdateRebuild})

	case interval.ReorderOpening:
		// The gap reached the dragged item's extent; it idles open until
		// the drop or the next target change.
		x.FromSize = x.ToSize
		x.DetachClock()

	case interval.ReorderClosing:
		off := l.RenderOffset(x)
		old := x.RenderCount
		l.Remove(x)
		e.emitUpdate(UpdateRecord{off, old, 0, UpdateUnbind})
		if e.move != nil && e.move.closing == x {
			if e.move.drop == nil {
				e.move = nil
			} else {
				e.move.closing = nil
			}
		}

	case interval.MoveDrop:
		e.resolveMoveDrop(x)

	default:
		// A completion for an interval that was already converted by an
		// intervening notification; expected race, nothing to do.
		x.DetachClock()
	}
}

// handleMeasureDone applies an asynchronous measurement result. Results
// whose token is no longer pending are discarded: the interval was
// invalidated before measurement returned.
func (e *Engine) handleMeasureDone(token string, size interval.Size) {
	p, ok := e.pendingMeasure[token]
	if !ok {
		e.log.Debug("discarding superseded measurement", "token", token)
		return
	}
	delete(e.pendingMeasure, token)
	x := p.iv
	if x.Disposed() || x.MeasureToken != token {
		e.log.Debug("discarding measurement for invalidated interval", "token", token)
		return
	}
	x.MeasureToken = ""
	switch p.purpose {
	case MeasureSource:
		x.FromSize = size
	case MeasureTarget:
		x.ToSize = size
		x.HasTarget = true
	}
	e.coordinate()
	e.optimize()
}

// requestMeasure issues an asynchronous measurement for x. The token
// correlates the eventual result; clearing it invalidates the request.
func (e *Engine) requestMeasure(x *interval.Interval, purpose MeasurePurpose) {
	tok := e.tokens.Generate()
	x.MeasureToken = tok
	req := MeasureRequest{Token: tok, Purpose: purpose}
	if purpose == MeasureSource {
		req.Count = x.OffCount
		req.Build = x.Build
	} else {
		req.Count = x.ItemCount
		if e.itemBuilder != nil {
			req.Build = interval.OffsetBuilder(e.itemBuilder, e.list.ItemOffset(x))
		}
	}
	e.pendingMeasure[tok] = &measurePending{iv: x, purpose: purpose}
	cancel := e.measurer.Measure(req)
	if p, ok := e.pendingMeasure[tok]; ok {
		p.cancel = cancel
	}
}

// cancelMeasure cancels any in-flight measurement for x and discards
// the eventual result.
func (e *Engine) cancelMeasure(x *interval.Interval) {
	tok := x.MeasureToken
	if tok == "" {
		return
	}
	if p, ok := e.pendingMeasure[tok]; ok {
		if p.cancel != nil {
			p.cancel()
		}
		delete(e.pendingMeasure, tok)
	}
	x.MeasureToken = ""
}
