package grove

import "github.com/hajimehoshi/ebiten/v2"

// Inject queues a raw event. Injected events are consumed one per
// iteration, ahead of real input, and are visible to AttachEvent handlers
// exactly like real input.
func (t *TreeContext) Inject(ev RawEvent) {
	t.injectQueue = append(t.injectQueue, ev)
}

// InjectPress queues a left-button press at the given screen coordinates.
func (t *TreeContext) InjectPress(x, y float64) {
	t.Inject(RawEvent{
		Kind: EventMouseDown, X: x, Y: y,
		Button:  MouseButtonLeft,
		Buttons: MouseButtons(0).With(MouseButtonLeft),
	})
}

// InjectMove queues a pointer move at the given screen coordinates with the
// left button held down. Use this between InjectPress and InjectRelease
// to simulate a drag.
func (t *TreeContext) InjectMove(x, y float64) {
	t.Inject(RawEvent{
		Kind: EventMouseMove, X: x, Y: y,
		Buttons: MouseButtons(0).With(MouseButtonLeft),
	})
}

// InjectRelease queues a left-button release at the given screen coordinates.
func (t *TreeContext) InjectRelease(x, y float64) {
	t.Inject(RawEvent{Kind: EventMouseUp, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two iterations.
func (t *TreeContext) InjectClick(x, y float64) {
	t.InjectPress(x, y)
	t.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate iterations, and
// release at (toX, toY). The total sequence consumes `frames` iterations.
// Minimum frames is 2 (press + release).
func (t *TreeContext) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	t.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps+1)
		t.InjectMove(fromX+(toX-fromX)*f, fromY+(toY-fromY)*f)
	}
	t.InjectRelease(toX, toY)
}

// InjectKey queues a key press followed by its release.
func (t *TreeContext) InjectKey(key ebiten.Key) {
	t.Inject(RawEvent{Kind: EventKeyDown, Key: key, Keys: []ebiten.Key{key}})
	t.Inject(RawEvent{Kind: EventKeyUp, Key: key})
}

// InjectWheel queues a wheel event at the given screen coordinates.
func (t *TreeContext) InjectWheel(x, y, dx, dy float64) {
	t.Inject(RawEvent{Kind: EventWheel, X: x, Y: y, DeltaX: dx, DeltaY: dy})
}

// InjectResize queues a resize to w by h.
func (t *TreeContext) InjectResize(w, h int) {
	t.Inject(RawEvent{Kind: EventResize, Width: w, Height: h})
}

// nextInjected pops the oldest injected event, or returns nil.
func (t *TreeContext) nextInjected() *RawEvent {
	if len(t.injectQueue) == 0 {
		return nil
	}
	ev := t.injectQueue[0]
	copy(t.injectQueue, t.injectQueue[1:])
	t.injectQueue = t.injectQueue[:len(t.injectQueue)-1]
	return &ev
}

// StepInjected runs one iteration with the next injected event, if any,
// after advancing the attached test runner. It is the headless counterpart
// of one Game.Update.
func (t *TreeContext) StepInjected() *RenderingTree {
	if t.testRunner != nil {
		t.testRunner.step(t)
	}
	return t.Step(t.nextInjected())
}
