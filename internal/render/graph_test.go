package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/gpu"
)

func TestGraphExecutesPassesInInsertionOrder(t *testing.T) {
	var order []string
	g := NewBuilder().
		AddPass("first").Write("a").Exec(func(inputs PassInputs, outputs PassOutputs) {
			order = append(order, "first")
			outputs["a"] = gpu.TextureHandle(1)
		}).End().
		AddPass("second").Read("a").Write("final").Exec(func(inputs PassInputs, outputs PassOutputs) {
			order = append(order, "second")
			if inputs["a"].Handle != gpu.TextureHandle(1) {
				t.Errorf("second pass should observe first pass's write, got %+v", inputs["a"])
			}
			outputs["final"] = inputs["a"].Handle
		}).End().
		Build()

	final := g.Execute()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("want passes run in insertion order, got %v", order)
	}
	if final != gpu.TextureHandle(1) {
		t.Fatalf("want final handle 1, got %v", final)
	}
}

func TestGraphUnwrittenReadResolvesToZeroHandle(t *testing.T) {
	var observed Resource
	g := NewBuilder().
		AddPass("reads_nothing_written").Read("never_written").Exec(func(inputs PassInputs, outputs PassOutputs) {
			observed = inputs["never_written"]
		}).End().
		Build()

	g.Execute()

	if observed.Handle != gpu.NoTexture {
		t.Fatalf("want all-zero handle for an unwritten resource, got %v", observed.Handle)
	}
}

func TestGraphExecuteWithNoFinalReturnsNoTexture(t *testing.T) {
	g := NewBuilder().
		AddPass("p").Write("color").Exec(func(inputs PassInputs, outputs PassOutputs) {
			outputs["color"] = gpu.TextureHandle(7)
		}).End().
		Build()

	if got := g.Execute(); got != gpu.NoTexture {
		t.Fatalf("want NoTexture when no pass writes \"final\", got %v", got)
	}
}

func TestGraphResizeAllUpdatesDeclaredResources(t *testing.T) {
	g := NewBuilder().AddResource("color", 640, 480).Build()
	g.ResizeAll(1920, 1080)

	r, ok := g.Resource("color")
	if !ok {
		t.Fatalf("expected resource \"color\" to exist")
	}
	if r.Width != 1920 || r.Height != 1080 {
		t.Fatalf("want resized dims, got %dx%d", r.Width, r.Height)
	}
}
