package grove

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputFrame is a snapshot of ebiten's input state for one tick.
type inputFrame struct {
	x, y           int
	buttons        MouseButtons
	wheelX, wheelY float64
	held           []ebiten.Key
	justPressed    []ebiten.Key
	justReleased   []ebiten.Key
	chars          []rune
	mods           KeyModifiers
	focused        bool
	width, height  int
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// readInputFrame snapshots ebiten's input state. buf's slices are reused.
func readInputFrame(buf inputFrame, width, height int) inputFrame {
	f := inputFrame{
		held:         inpututil.AppendPressedKeys(buf.held[:0]),
		justPressed:  inpututil.AppendJustPressedKeys(buf.justPressed[:0]),
		justReleased: inpututil.AppendJustReleasedKeys(buf.justReleased[:0]),
		chars:        ebiten.AppendInputChars(buf.chars[:0]),
		mods:         readModifiers(),
		focused:      ebiten.IsFocused(),
		width:        width,
		height:       height,
	}
	f.x, f.y = ebiten.CursorPosition()
	f.wheelX, f.wheelY = ebiten.Wheel()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		f.buttons = f.buttons.With(MouseButtonLeft)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		f.buttons = f.buttons.With(MouseButtonRight)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		f.buttons = f.buttons.With(MouseButtonMiddle)
	}
	return f
}

// diffInput appends the raw events that turn prev into cur. A pointer move
// comes before button changes so presses happen at the new position.
func diffInput(prev, cur inputFrame, events []RawEvent) []RawEvent {
	x, y := float64(cur.x), float64(cur.y)
	pointer := func(kind EventKind) RawEvent {
		return RawEvent{Kind: kind, X: x, Y: y, Buttons: cur.buttons, Modifiers: cur.mods}
	}

	if cur.x != prev.x || cur.y != prev.y {
		events = append(events, pointer(EventMouseMove))
	}
	for _, b := range [...]MouseButton{MouseButtonLeft, MouseButtonRight, MouseButtonMiddle} {
		was, is := prev.buttons.Has(b), cur.buttons.Has(b)
		switch {
		case is && !was:
			ev := pointer(EventMouseDown)
			ev.Button = b
			events = append(events, ev)
		case was && !is:
			ev := pointer(EventMouseUp)
			ev.Button = b
			events = append(events, ev)
		}
	}
	if cur.wheelX != 0 || cur.wheelY != 0 {
		ev := pointer(EventWheel)
		ev.DeltaX, ev.DeltaY = cur.wheelX, cur.wheelY
		events = append(events, ev)
	}

	for _, k := range cur.justPressed {
		events = append(events, RawEvent{Kind: EventKeyDown, Key: k, Keys: slices.Clone(cur.held), Modifiers: cur.mods})
	}
	for _, k := range cur.justReleased {
		events = append(events, RawEvent{Kind: EventKeyUp, Key: k, Keys: slices.Clone(cur.held), Modifiers: cur.mods})
	}
	if len(cur.chars) > 0 {
		events = append(events, RawEvent{Kind: EventTextInput, Text: string(cur.chars), Modifiers: cur.mods})
	}

	switch {
	case prev.focused && !cur.focused:
		events = append(events, RawEvent{Kind: EventBlur})
	case !prev.focused && cur.focused:
		events = append(events, RawEvent{Kind: EventVisibilityChange, Visible: true})
	}
	if cur.width != prev.width || cur.height != prev.height {
		events = append(events, RawEvent{Kind: EventResize, Width: cur.width, Height: cur.height})
	}
	return events
}

// EbitenInput turns ebiten's polled input state into raw events, one tick
// at a time.
type EbitenInput struct {
	prev          inputFrame
	spare         inputFrame
	width, height int
	events        []RawEvent
}

// NewEbitenInput creates an input reader that assumes a focused window.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{prev: inputFrame{focused: true}}
}

// SetSize records the layout size reported to ebiten.Game.Layout.
func (in *EbitenInput) SetSize(width, height int) {
	in.width, in.height = width, height
}

// Poll reads the current tick's input and returns the raw events since the
// previous call. The returned slice is reused by the next call.
func (in *EbitenInput) Poll() []RawEvent {
	cur := readInputFrame(in.spare, in.width, in.height)
	in.events = diffInput(in.prev, cur, in.events[:0])
	in.prev, in.spare = cur, in.prev
	return in.events
}
