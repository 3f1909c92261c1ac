package engine

// UpdateMode tells the renderer how to reconcile previously displayed
// slots after a render-space shape change.
type UpdateMode int

const (
	// UpdateReplace swaps a run of slots for a different number of slots.
	UpdateReplace UpdateMode = iota + 1
	// UpdateRebuild keeps the slot count but the content of the run must
	// be rebuilt.
	UpdateRebuild
	// UpdateUnbind removes a run of slots with no replacement.
	UpdateUnbind
)

func (m UpdateMode) String() string {
	switch m {
	case UpdateReplace:
		return "replace"
	case UpdateRebuild:
		return "rebuild"
	case UpdateUnbind:
		return "unbind"
	}
	return "unknown"
}

// UpdateRecord describes one render-space shape change. Records are
// produced whenever the render-space shape changes and consumed by the
// renderer to reconcile previously built slots.
type UpdateRecord struct {
	// RenderIndex is the first affected render-space slot.
	RenderIndex int
	// OldRenderCount and NewRenderCount give the run length before and
	// after the change.
	OldRenderCount int
	NewRenderCount int
	Mode           UpdateMode
}

// UpdateListener receives update records as they are produced. Called
// synchronously from the engine's mutation path; listeners must not
// mutate the engine re-entrantly.
type UpdateListener func(UpdateRecord)
