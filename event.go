package grove

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// EventKind identifies an input event.
type EventKind uint8

const (
	EventMouseDown EventKind = iota
	EventMouseMove
	EventMouseUp
	EventWheel
	EventKeyDown
	EventKeyUp
	EventTextInput
	EventBlur
	EventVisibilityChange
	EventResize
)

var eventKindNames = [...]string{
	EventMouseDown:        "mouse_down",
	EventMouseMove:        "mouse_move",
	EventMouseUp:          "mouse_up",
	EventWheel:            "wheel",
	EventKeyDown:          "key_down",
	EventKeyUp:            "key_up",
	EventTextInput:        "text_input",
	EventBlur:             "blur",
	EventVisibilityChange: "visibility_change",
	EventResize:           "resize",
}

// String returns the kind name.
func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// isPointer reports whether events of this kind carry a pointer position.
func (k EventKind) isPointer() bool {
	return k <= EventWheel
}

// RawEvent is one input event as delivered by an input source. A raw event
// is visible to every AttachEvent call of the iteration it arrives in.
//
// Uses a flat struct with a Kind discriminator. Fields not used by a kind
// are zero.
type RawEvent struct {
	Kind EventKind

	// Pointer position in global (screen) coordinates.
	X, Y float64
	// Button is the button that changed for mouse down and up.
	Button MouseButton
	// Buttons is the set of buttons held after the event.
	Buttons MouseButtons
	// DeltaX and DeltaY are the wheel offsets.
	DeltaX, DeltaY float64

	// Key is the key that changed for key down and up.
	Key ebiten.Key
	// Keys is the set of keys held after the event.
	Keys []ebiten.Key

	Modifiers KeyModifiers

	// Width and Height are the new screen size of a resize.
	Width, Height int
	// Text is the typed text of a text input event.
	Text string
	// Visible is the new visibility of a visibility change.
	Visible bool
}

// Propagation tells the dispatcher whether later handlers may still see an
// event.
type Propagation uint8

const (
	// Continue lets later handlers see the event.
	Continue Propagation = iota
	// Stop hides the event from every handler attached after this one.
	Stop
)

// Event is the typed view of a raw event passed to AttachEvent handlers.
// Coordinates are localized to the composition context the handler was
// attached to.
type Event struct {
	Kind EventKind
	raw  *RawEvent
	ctx  *ComposeCtx
}

// Raw returns the underlying raw event.
func (e Event) Raw() RawEvent { return *e.raw }

// IsPointer reports whether the event carries a pointer position.
func (e Event) IsPointer() bool { return e.Kind.isPointer() }

// GlobalXY returns the pointer position in screen coordinates.
func (e Event) GlobalXY() Vec2 { return Vec2{e.raw.X, e.raw.Y} }

// LocalXY returns the pointer position in the handler's local space: the
// inverse of the accumulated transform applied to the global position.
func (e Event) LocalXY() Vec2 {
	x, y := transformPoint(invertAffine(e.ctx.transform), e.raw.X, e.raw.Y)
	return Vec2{x, y}
}

// IsLocalXYIn reports whether the pointer hits anything composed so far in
// the handler's context, honoring every enclosing clip. It materializes the
// context's children.
func (e Event) IsLocalXYIn() bool {
	if !e.Kind.isPointer() {
		return false
	}
	return e.ctx.containsGlobal(e.raw.X, e.raw.Y)
}

// Button returns the button that changed.
func (e Event) Button() MouseButton { return e.raw.Button }

// Buttons returns the buttons held after the event.
func (e Event) Buttons() MouseButtons { return e.raw.Buttons }

// WheelDelta returns the wheel offsets.
func (e Event) WheelDelta() Vec2 { return Vec2{e.raw.DeltaX, e.raw.DeltaY} }

// Key returns the key that changed.
func (e Event) Key() ebiten.Key { return e.raw.Key }

// Keys returns the keys held after the event.
func (e Event) Keys() []ebiten.Key { return e.raw.Keys }

// Modifiers returns the modifier keys held during the event.
func (e Event) Modifiers() KeyModifiers { return e.raw.Modifiers }

// Size returns the new screen size of a resize event.
func (e Event) Size() (int, int) { return e.raw.Width, e.raw.Height }

// Text returns the typed text of a text input event.
func (e Event) Text() string { return e.raw.Text }

// Visible returns the new visibility of a visibility change event.
func (e Event) Visible() bool { return e.raw.Visible }
