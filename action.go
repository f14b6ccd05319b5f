package reflux

// Reserved action kinds dispatched by the store itself.
const (
	// KindInit is dispatched once by New to build the initial state.
	KindInit = "__init__"

	// KindReplace is dispatched by ReplaceReducer after the swap.
	KindReplace = "__replace__"
)

// Action describes a requested state transition.
//
// Applications usually define one type per kind so each kind carries its own
// payload shape:
//
//	type BuyCake struct{ Count int }
//
//	func (BuyCake) Kind() string { return "BUY_CAKE" }
//
// Kind must be non-empty; the store rejects empty kinds with ErrInvalidAction.
type Action interface {
	Kind() string
}

// Basic is a loosely typed Action for callers that do not want a dedicated
// type per kind. Feed envelopes are dispatched as Basic values.
type Basic struct {
	Type    string `json:"type" yaml:"type" validate:"required"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Kind returns the action type.
func (b Basic) Kind() string {
	return b.Type
}

// Ensure Basic implements Action.
var _ Action = Basic{}
