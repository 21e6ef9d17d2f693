package core

// Action represents a semantic level action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionConfirm        // Enter, Space - dismiss a checkpoint screen
	ActionBack           // B, Escape - leave the level
	ActionRestart        // R key - restart the level from scratch
	ActionQuit           // Q, Ctrl+C - exit
	ActionPause          // P - pause/unpause
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PointerKind distinguishes press, drag and release.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// String returns a human-readable name for the pointer kind.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// InputEvent is a pointer event. Pos is in screen cells unless the frame is
// marked World. Source identifies the pointer (mouse = 0, touch ids otherwise).
type InputEvent struct {
	Pos    Vec2
	Kind   PointerKind
	Source int
}

// InputFrame collects everything the player did since the previous frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Pointer holds pointer events in arrival order.
	Pointer []InputEvent

	// DT is the elapsed wall time for this frame in seconds.
	DT float64

	// World marks pointer positions as world units instead of screen cells.
	World bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// AddPointer appends a pointer event.
func (f *InputFrame) AddPointer(ev InputEvent) {
	f.Pointer = append(f.Pointer, ev)
}

// Clear resets all actions and pointer events for the next frame.
// The pointer slice keeps its capacity.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = f.Pointer[:0]
	f.DT = 0
	f.World = false
}
