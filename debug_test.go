package grove

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

type chain struct{ n int }

func (c chain) Render(ctx *RenderCtx) {
	if c.n > 0 {
		ctx.Add(chain{n: c.n - 1})
	}
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(chain{n: debugMaxTreeDepth + 5}, Config{Debug: true, DebugOutput: &buf})
	tree.Step(nil)

	if !strings.Contains(buf.String(), "warning: instance depth") {
		t.Errorf("expected instance depth warning, got: %q", buf.String())
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	leafComp := ComponentFunc(func(*RenderCtx) {})
	tree := NewTreeContext(ComponentFunc(func(ctx *RenderCtx) {
		for range debugMaxChildCount + 1 {
			ctx.Add(leafComp)
		}
	}), Config{Debug: true, DebugOutput: &buf})
	tree.Step(nil)

	out := buf.String()
	if !strings.Contains(out, "warning: instance /root has 1001 children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestReleaseMode_NoWarnings(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(chain{n: debugMaxTreeDepth + 5}, Config{DebugOutput: &buf})
	tree.Step(nil)
	if buf.Len() != 0 {
		t.Errorf("release mode wrote %q", buf.String())
	}
}

func TestDebugFrameStats(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(ComponentFunc(func(ctx *RenderCtx) {
		_, set := UseState(ctx, func() int { return 0 })
		if ctx.FirstRender() {
			set.Set(1)
		}
	}), Config{Debug: true, DebugOutput: &buf})
	tree.Step(nil)
	buf.Reset()
	tree.Step(nil)

	out := buf.String()
	for _, want := range []string{
		"[grove] frame 2 drain:",
		"frame 2 mutations: 1 | updated: 1 | instances: 1 | pruned: 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDebugEffectLog(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(ComponentFunc(func(ctx *RenderCtx) {
		ctx.Effect("hello", func() {})
	}), Config{Debug: true, DebugOutput: &buf})
	tree.Step(nil)
	if !strings.Contains(buf.String(), `effect "hello" ran at /root`) {
		t.Errorf("missing effect log in:\n%s", buf.String())
	}
}

func TestDebugDrawTimeLogged(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(ComponentFunc(func(ctx *RenderCtx) {
		ctx.AddLeaf(Label{Text: "x"})
	}), Config{Debug: true, DebugOutput: &buf})
	in := make(ChanInput)
	close(in)
	if err := tree.Run(context.Background(), in, &recordingBackend{}); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if !strings.Contains(buf.String(), "[grove] frame 1 draw:") {
		t.Errorf("missing draw time in:\n%s", buf.String())
	}
}

func TestDebugDrawTimeSkippedWithoutBackend(t *testing.T) {
	var buf bytes.Buffer
	tree := NewTreeContext(ComponentFunc(func(*RenderCtx) {}), Config{Debug: true, DebugOutput: &buf})
	in := make(ChanInput)
	close(in)
	if err := tree.Run(context.Background(), in, nil); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if strings.Contains(buf.String(), "draw:") {
		t.Errorf("draw time logged with no backend:\n%s", buf.String())
	}
}
