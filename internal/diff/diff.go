// Package diff derives engine notifications from two versions of a
// sequence. Compute produces the edit ops; Dispatcher applies them to
// an engine, optionally computing off the host loop for large
// sequences.
package diff

import "fmt"

// Comparer answers identity and content questions about one old/new
// index pair. Identity says "this is the same item" (it survived the
// edit); Equal says its content is unchanged. Equal is only consulted
// for pairs that passed Identity.
type Comparer interface {
	Identity(oldIndex, newIndex int) bool
	Equal(oldIndex, newIndex int) bool
}

// ComparerFuncs adapts two functions to the Comparer interface.
type ComparerFuncs struct {
	IdentityFn func(oldIndex, newIndex int) bool
	EqualFn    func(oldIndex, newIndex int) bool
}

func (c ComparerFuncs) Identity(oldIndex, newIndex int) bool {
	return c.IdentityFn(oldIndex, newIndex)
}

func (c ComparerFuncs) Equal(oldIndex, newIndex int) bool {
	if c.EqualFn == nil {
		return true
	}
	return c.EqualFn(oldIndex, newIndex)
}

// OpKind labels one edit operation.
type OpKind int

const (
	// OpRange is a structural edit: Remove items vanish at From and
	// Insert items appear in their place. From is in old-sequence
	// coordinates, matching the engine's range notification contract.
	OpRange OpKind = iota + 1
	// OpChange is an in-place content change of Count items at From.
	// From is in new-sequence coordinates.
	OpChange
)

func (k OpKind) String() string {
	switch k {
	case OpRange:
		return "range"
	case OpChange:
		return "change"
	}
	return "unknown"
}

// Op is one edit operation produced by Compute.
type Op struct {
	Kind   OpKind
	From   int
	Remove int
	Insert int
	Count  int
}

func (o Op) String() string {
	if o.Kind == OpRange {
		return fmt.Sprintf("range(from=%d,remove=%d,insert=%d)", o.From, o.Remove, o.Insert)
	}
	return fmt.Sprintf("change(from=%d,count=%d)", o.From, o.Count)
}

// Result carries the ops for one computed diff.
type Result struct {
	OldLen int
	NewLen int
	Ops    []Op
}

// Compute diffs two sequence versions by trimming the common prefix and
// suffix and treating the middle as one replace. Surviving positions
// whose content changed become change ops.
//
// This is deliberately not a minimal-edit-script diff: animated lists
// want one coherent replace region rather than many scattered
// single-item edits, and the linear scan is deterministic and cheap.
// Items that moved within the sequence register as remove+insert.
func Compute(oldLen, newLen int, c Comparer) Result {
	res := Result{OldLen: oldLen, NewLen: newLen}

	prefix := 0
	for prefix < oldLen && prefix < newLen && c.Identity(prefix, prefix) {
		prefix++
	}
	suffix := 0
	for suffix < oldLen-prefix && suffix < newLen-prefix &&
		c.Identity(oldLen-1-suffix, newLen-1-suffix) {
		suffix++
	}

	oldMid := oldLen - prefix - suffix
	newMid := newLen - prefix - suffix
	if oldMid > 0 || newMid > 0 {
		res.Ops = append(res.Ops, Op{Kind: OpRange, From: prefix, Remove: oldMid, Insert: newMid})
	}

	// Change runs across the surviving prefix and suffix, coalesced.
	appendChanges := func(oldStart, newStart, n int) {
		runStart, runLen := 0, 0
		for i := 0; i < n; i++ {
			if !c.Equal(oldStart+i, newStart+i) {
				if runLen == 0 {
					runStart = newStart + i
				}
				runLen++
				continue
			}
			if runLen > 0 {
				res.Ops = append(res.Ops, Op{Kind: OpChange, From: runStart, Count: runLen})
				runLen = 0
			}
		}
		if runLen > 0 {
			res.Ops = append(res.Ops, Op{Kind: OpChange, From: runStart, Count: runLen})
		}
	}
	appendChanges(0, 0, prefix)
	appendChanges(oldLen-suffix, newLen-suffix, suffix)

	return res
}
