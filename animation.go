package grove

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenState is the per-instance state behind UseTween. It is mutated in
// place during render; it never leaves the instance.
type tweenState struct {
	tween   *gween.Tween
	target  float64
	value   float64
	last    time.Time
	running bool
}

// UseTween returns a value that eases toward target over duration using fn
// (for example ease.OutQuad). The first render starts at target. Whenever
// target changes, a new tween starts from the current value. While a tween
// runs, UseTween requests another frame each render.
func UseTween(ctx *RenderCtx, target float64, duration time.Duration, fn ease.TweenFunc) float64 {
	sig, _ := UseState(ctx, func() *tweenState {
		return &tweenState{target: target, value: target}
	})
	st := sig.Peek()
	now := ctx.Now()

	if target != st.target {
		st.target = target
		if duration <= 0 {
			st.value = target
			st.running = false
			return st.value
		}
		st.tween = gween.New(float32(st.value), float32(target), float32(duration.Seconds()), fn)
		st.last = now
		st.running = true
	}
	if !st.running {
		return st.value
	}

	dt := float32(now.Sub(st.last).Seconds())
	st.last = now
	v, finished := st.tween.Update(dt)
	if finished {
		st.value = st.target
		st.running = false
		return st.value
	}
	st.value = float64(v)
	ctx.RequestFrame()
	return st.value
}
