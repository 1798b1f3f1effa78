// Package grove is an incremental reactive composition runtime for
// [Ebitengine].
//
// A tree of components is rendered every frame. Components keep state in
// hook slots stored per position in the tree, change it only through a
// mutation channel drained between frames, and compose their output into a
// lazily materialized rendering tree that carries accumulated 2D affine
// transforms. Input is dispatched while composing, front-most first.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	type Counter struct{}
//
//	func (Counter) Render(ctx *grove.RenderCtx) {
//		count, setCount := grove.UseState(ctx, func() int { return 0 })
//		ctx.Compose(func(c *grove.ComposeCtx) {
//			c = c.Translate(20, 20)
//			c.AddLeaf(grove.Label{Text: fmt.Sprint(count.Get())})
//			c.AttachEvent(func(e grove.Event) grove.Propagation {
//				if e.Kind == grove.EventMouseDown && e.IsLocalXYIn() {
//					setCount.Mutate(func(n *int) { *n++ })
//					return grove.Stop
//				}
//				return grove.Continue
//			})
//		})
//	}
//
//	grove.Run(Counter{}, grove.Config{Title: "Counter", Width: 320, Height: 240})
//
// For full control, use [NewGame] and pass it to [ebiten.RunGame], or drive a
// [TreeContext] yourself with [TreeContext.Step] or [TreeContext.Run] and a
// [Backend] of your own.
//
// # Hooks
//
// Hooks are package functions taking the [RenderCtx]: [UseState], [UseMemo],
// [UseTrackEq], [UseAtomInit], [UseAtom] and [UseTween], plus the methods
// [RenderCtx.Effect] and [RenderCtx.Spawn]. A component must call the same
// hooks in the same order on every render; the runtime panics with the
// instance path when it does not.
//
// Values are read through [Sig]. Reading with [Sig.Get] inside an effect or
// memo body records a dependency; the body runs again only on frames where
// one of its dependencies changed. Setters never apply synchronously: a
// value set during frame N is visible from frame N+1.
//
// # Composition
//
// [ComposeCtx.Translate], [ComposeCtx.Absolute], [ComposeCtx.Rotate] and
// [ComposeCtx.Scale] return child contexts with an updated transform.
// [ComposeCtx.Clip], [ComposeCtx.OnTop] and [ComposeCtx.MouseCursor] wrap
// children without moving them. Children added earlier are in front of
// children added later, so handlers attached earlier see events first.
//
// # Testing
//
// [TreeContext.Step] runs one frame headlessly. Input can be injected with
// [TreeContext.InjectClick] and friends, or scripted with [LoadTestScript].
//
// [Ebitengine]: https://ebitengine.org
package grove
