package engine

import "github.com/roach88/glide/internal/interval"

// reorderSession tracks the single active drag-to-reorder operation.
// Exactly one holder/opening pair exists per list while it runs.
type reorderSession struct {
	holder  *interval.Interval
	opening *interval.Interval
	size    interval.Size
}

// moveSession tracks one programmatic move animation: a closing gap at
// the source, a holder/drop pair at the destination.
type moveSession struct {
	holder  *interval.Interval
	drop    *interval.Interval
	closing *interval.Interval
}

// ReorderHandle exposes the opening gap of an active reorder to the
// gesture layer.
type ReorderHandle struct {
	e *Engine
}

// RenderIndex reports the current render-space position of the drop
// gap, or false when the session ended.
func (h *ReorderHandle) RenderIndex() (int, bool) {
	s := h.e.reorder
	if s == nil || s.opening.Disposed() {
		return 0, false
	}
	return h.e.list.RenderOffset(s.opening), true
}

// NotifyStartReorder begins a drag-to-reorder of the item at
// renderIndex. The slot splits into a holder pinning the item's data
// position (not rendered in place; the gesture layer draws the dragged
// item as an overlay) and an opening gap that starts at the item's
// measured size, available to shrink.
//
// Reordering is mutually exclusive with structural notifications.
func (e *Engine) NotifyStartReorder(renderIndex int, currentSize interval.Size) (*ReorderHandle, error) {
	if e.disposed {
		return nil, e.contract(&ContractError{Code: ErrCodeDisposed, Message: "engine used after dispose"})
	}
	if e.reorder != nil {
		return nil, e.contract(&ContractError{
			Code:    ErrCodeReorderActive,
			Message: "reorder already in progress",
		})
	}
	e.finishMoves()
	x, off := e.list.FindByRenderIndex(renderIndex)
	if x == nil || x.State != interval.Normal {
		return nil, e.contract(&ContractError{
			Code:    ErrCodeBadPick,
			Message: "reorder must pick a settled item",
			Index:   renderIndex,
		})
	}
	if off > 0 {
		_, right, err := e.list.SplitAt(x, off)
		if err != nil {
			return nil, e.contract(&ContractError{Code: ErrCodeBadPick, Message: err.Error(), Index: renderIndex})
		}
		x = right
	}
	if x.ItemCount > 1 {
		left, _, err := e.list.SplitAt(x, 1)
		if err != nil {
			return nil, e.contract(&ContractError{Code: ErrCodeBadPick, Message: err.Error(), Index: renderIndex})
		}
		x = left
	}

	x.State = interval.ReorderHolder
	x.RenderCount = 0
	e.list.Invalidate(x)

	opening := &interval.Interval{
		State:       interval.ReorderOpening,
		RenderCount: 1,
		FromSize:    currentSize,
		ToSize:      currentSize,
		HasTarget:   true,
	}
	e.list.InsertAfter(opening, x)
	e.emitUpdate(UpdateRecord{renderIndex, 1, 1, UpdateRebuild})
	e.log.Info("reorder started", "render_index", renderIndex)

	e.reorder = &reorderSession{holder: x, opening: opening, size: currentSize}
	e.flushRebuild()
	return &ReorderHandle{e: e}, nil
}

// NotifyUpdateReorderTarget moves the drop gap: the previous opening
// becomes a closing gap shrinking to zero, and a fresh opening grows at
// the new position.
func (e *Engine) NotifyUpdateReorderTarget(newRenderIndex int) error {
	s := e.reorder
	if s == nil {
		return e.contract(&ContractError{Code: ErrCodeNoReorder, Message: "no reorder in progress"})
	}
	if cur := e.list.RenderOffset(s.opening); cur == newRenderIndex {
		return nil
	}

	old := s.opening
	old.State = interval.ReorderClosing
	old.FromSize = old.CurrentSize()
	old.ToSize = 0
	b := e.newBinding()
	old.AttachClock(b)
	e.startBinding(b)

	opening := &interval.Interval{
		State:       interval.ReorderOpening,
		RenderCount: 1,
		FromSize:    0,
		ToSize:      s.size,
		HasTarget:   true,
	}
	e.insertAtRenderIndex(opening, newRenderIndex)
	ob := e.newBinding()
	opening.AttachClock(ob)
	e.startBinding(ob)
	s.opening = opening

	e.emitUpdate(UpdateRecord{e.list.RenderOffset(opening), 0, 1, UpdateReplace})
	e.log.Debug("reorder target moved", "render_index", newRenderIndex)
	e.flushRebuild()
	return nil
}

// NotifyStopReorder ends the session. On drop the opening gap resolves
// into a settled interval of length one and the holder disposes: the
// moved item is now ordinary content at its new position, and the
// caller applies the same move to its data. On cancel the held item
// settles back at its original position instead. Either way any
// still-closing gaps are finalized immediately, so counts come out
// exact. Returns the render index where the item settled.
func (e *Engine) NotifyStopReorder(cancel bool) (int, error) {
	s := e.reorder
	if s == nil {
		return 0, e.contract(&ContractError{Code: ErrCodeNoReorder, Message: "no reorder in progress"})
	}
	e.reorder = nil
	l := e.list

	var resolved int
	if cancel {
		// The drag never happened: the opening gap goes away and the
		// holder becomes the item again.
		op := s.opening
		off := l.RenderOffset(op)
		l.Remove(op)
		e.emitUpdate(UpdateRecord{off, 1, 0, UpdateUnbind})

		h := s.holder
		hoff := l.RenderOffset(h)
		h.State = interval.Normal
		h.RenderCount = 1
		l.Invalidate(h)
		e.emitUpdate(UpdateRecord{hoff, 0, 1, UpdateReplace})
		resolved = hoff
	} else {
		op := s.opening
		op.DetachClock()
		op.State = interval.Normal
		op.ItemCount = 1
		op.FromSize, op.ToSize, op.HasTarget = 0, 0, false
		l.Invalidate(op)
		resolved = l.RenderOffset(op)
		e.emitUpdate(UpdateRecord{resolved, 1, 1, UpdateRebuild})
		l.Remove(s.holder)
	}

	// Finalize abandoned drop gaps; the session they belonged to is
	// over.
	x := l.Front()
	for x != nil {
		next := x.Next()
		if x.State == interval.ReorderClosing {
			off := l.RenderOffset(x)
			l.Remove(x)
			e.emitUpdate(UpdateRecord{off, 1, 0, UpdateUnbind})
		}
		x = next
	}

	e.log.Info("reorder stopped", "cancel", cancel, "render_index", resolved)
	e.afterMutation()
	return resolved, nil
}

// insertAtRenderIndex links iv into the list at a render-space
// position, splitting a settled interval when the position falls inside
// one. Positions inside a gap clamp to the gap's trailing edge.
func (e *Engine) insertAtRenderIndex(iv *interval.Interval, renderIndex int) {
	l := e.list
	x, off := l.FindByRenderIndex(renderIndex)
	if x == nil {
		l.PushBack(iv)
		return
	}
	if off == 0 {
		l.InsertBefore(iv, x)
		return
	}
	if x.State == interval.Normal {
		if left, _, err := l.SplitAt(x, off); err == nil {
			l.InsertAfter(iv, left)
			return
		}
	}
	l.InsertAfter(iv, x)
}

// NotifyMove animates a programmatic move of one item: a closing gap
// shrinks at the source while a holder/drop pair opens at the
// destination; when the drop gap finishes opening it resolves into the
// settled item. The caller has already applied the move to its data;
// toItemIndex is in post-move coordinates. off builds the item while it
// travels.
func (e *Engine) NotifyMove(fromItemIndex, toItemIndex, priority int, currentSize interval.Size, off interval.Builder) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	n := e.list.TotalItemCount()
	if fromItemIndex < 0 || fromItemIndex >= n || toItemIndex < 0 || toItemIndex >= n {
		return e.contract(newOutOfBounds(fromItemIndex, 1, n))
	}
	if fromItemIndex == toItemIndex {
		return nil
	}
	e.finishMoves()

	x, xoff := e.list.FindByItemIndex(fromItemIndex)
	if x == nil || x.State != interval.Normal {
		return e.contract(&ContractError{
			Code:    ErrCodeBadPick,
			Message: "move must pick a settled item",
			Index:   fromItemIndex,
		})
	}
	if xoff > 0 {
		_, right, err := e.list.SplitAt(x, xoff)
		if err != nil {
			return e.contract(&ContractError{Code: ErrCodeBadPick, Message: err.Error(), Index: fromItemIndex})
		}
		x = right
	}
	if x.ItemCount > 1 {
		left, _, err := e.list.SplitAt(x, 1)
		if err != nil {
			return e.contract(&ContractError{Code: ErrCodeBadPick, Message: err.Error(), Index: fromItemIndex})
		}
		x = left
	}

	// Source: the vacated slot shrinks shut around the departing item.
	srcOff := e.list.RenderOffset(x)
	x.State = interval.ReorderClosing
	x.ItemCount = 0
	x.OffCount = 1
	x.Build = off
	x.Priority = priority
	x.FromSize = currentSize
	x.ToSize = 0
	x.HasTarget = true
	e.list.Invalidate(x)
	e.emitUpdate(UpdateRecord{srcOff, 1, 1, UpdateRebuild})
	cb := e.newBinding()
	x.AttachClock(cb)

	// Destination: holder pins the data position, drop gap grows open.
	holder := &interval.Interval{State: interval.MoveHolder, ItemCount: 1, Priority: priority}
	e.insertSpawnedAt(toItemIndex, holder)
	drop := &interval.Interval{
		State:       interval.MoveDrop,
		RenderCount: 1,
		Priority:    priority,
		FromSize:    0,
		ToSize:      currentSize,
		HasTarget:   true,
	}
	e.list.InsertAfter(drop, holder)
	e.emitUpdate(UpdateRecord{e.list.RenderOffset(drop), 0, 1, UpdateReplace})
	db := e.newBinding()
	drop.AttachClock(db)

	e.move = &moveSession{holder: holder, drop: drop, closing: x}
	e.startBinding(cb)
	e.startBinding(db)
	e.log.Info("move started", "from", fromItemIndex, "to", toItemIndex)
	e.afterMutation()
	return nil
}

// resolveMoveDrop settles a finished drop gap into the moved item and
// disposes the holder that was pinning its data position.
func (e *Engine) resolveMoveDrop(x *interval.Interval) {
	l := e.list
	off := l.RenderOffset(x)
	x.DetachClock()
	x.State = interval.Normal
	x.ItemCount = 1
	x.FromSize, x.ToSize, x.HasTarget = 0, 0, false
	l.Invalidate(x)
	e.emitUpdate(UpdateRecord{off, 1, 1, UpdateRebuild})
	if e.move != nil && e.move.drop == x {
		if h := e.move.holder; h != nil && !h.Disposed() {
			l.Remove(h)
		}
		if e.move.closing == nil || e.move.closing.Disposed() {
			e.move = nil
		} else {
			e.move.drop = nil
		}
	}
}

// finishMoves jumps any in-flight move to its end state before a
// structural notification distributes, keeping move bookkeeping out of
// the split paths.
func (e *Engine) finishMoves() {
	s := e.move
	if s == nil {
		return
	}
	e.move = nil
	l := e.list
	if c := s.closing; c != nil && !c.Disposed() {
		off := l.RenderOffset(c)
		l.Remove(c)
		e.emitUpdate(UpdateRecord{off, 1, 0, UpdateUnbind})
	}
	if d := s.drop; d != nil && !d.Disposed() {
		off := l.RenderOffset(d)
		d.DetachClock()
		d.State = interval.Normal
		d.ItemCount = 1
		d.FromSize, d.ToSize, d.HasTarget = 0, 0, false
		l.Invalidate(d)
		e.emitUpdate(UpdateRecord{off, 1, 1, UpdateRebuild})
	}
	if h := s.holder; h != nil && !h.Disposed() {
		l.Remove(h)
	}
}
