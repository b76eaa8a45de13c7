package render

import (
	"github.com/lampy-engine/lampy/internal/gpu"
)

// Resource is one named logical slot in the graph's resource table: a
// texture handle plus the dimensions every pass resizes its own
// framebuffers to match.
type Resource struct {
	Name          string
	Handle        gpu.TextureHandle
	Width, Height int
}

// PassInputs is the read-only view of a pass's declared "reads",
// resolved to the resource table's current handles.
type PassInputs map[string]Resource

// PassOutputs is the write-only view of a pass's declared "writes": exec
// deposits the handle it produced into outputs[name] and the graph
// publishes it back into the table under that name.
type PassOutputs map[string]gpu.TextureHandle

// ExecFunc is a pass body: read inputs, produce one handle per declared
// write, deposit each into outputs.
type ExecFunc func(inputs PassInputs, outputs PassOutputs)

// Pass is one node in the graph: a name, its declared reads/writes, and
// an exec body. The graph performs no dependency sorting — insertion
// order via Builder.AddPass is the only execution-order contract.
type Pass struct {
	Name  string
	Reads []string
	Writes []string
	Exec  ExecFunc
}

// Graph is the resource table plus the ordered pass list. Build it once
// via Builder, then call Execute once per frame.
type Graph struct {
	resources map[string]*Resource
	passes    []Pass
}

// Builder incrementally assembles a Graph. AddResource returns the
// builder and AddPass returns a PassBuilder whose End returns it, so
// calls chain the way the declarative API in the spec reads:
// builder.AddResource(...).AddPass(...).Write(...).Exec(...).End().Build().
type Builder struct {
	g *Graph
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: &Graph{resources: make(map[string]*Resource)}}
}

// AddResource declares a named logical resource at the given dimensions.
func (b *Builder) AddResource(name string, width, height int) *Builder {
	b.g.resources[name] = &Resource{Name: name, Width: width, Height: height}
	return b
}

// PassBuilder assembles one pass's reads/writes/exec before End() appends
// it to the parent Builder's pass list.
type PassBuilder struct {
	parent *Builder
	pass   Pass
}

// AddPass starts building a new pass named name.
func (b *Builder) AddPass(name string) *PassBuilder {
	return &PassBuilder{parent: b, pass: Pass{Name: name}}
}

// Read declares one input resource name.
func (p *PassBuilder) Read(name string) *PassBuilder {
	p.pass.Reads = append(p.pass.Reads, name)
	return p
}

// Write declares one output resource name.
func (p *PassBuilder) Write(name string) *PassBuilder {
	p.pass.Writes = append(p.pass.Writes, name)
	return p
}

// Exec sets the pass body.
func (p *PassBuilder) Exec(fn ExecFunc) *PassBuilder {
	p.pass.Exec = fn
	return p
}

// End appends the assembled pass to the parent builder and returns it,
// so chaining can continue with another AddPass/Build call.
func (p *PassBuilder) End() *Builder {
	p.parent.g.passes = append(p.parent.g.passes, p.pass)
	return p.parent
}

// Build finalizes the graph.
func (b *Builder) Build() *Graph { return b.g }

// zeroResource is what Execute hands a pass that reads a resource no
// prior pass in this graph has ever written: an all-zero handle, per the
// decided behavior for an unwritten read (there is deliberately no
// dependency-order validation at build time).
func zeroResource(name string) Resource { return Resource{Name: name} }

// Execute runs every pass once, in insertion order, threading the
// resource table between them. It returns the handle currently bound to
// "final".
func (g *Graph) Execute() gpu.TextureHandle {
	for _, pass := range g.passes {
		inputs := make(PassInputs, len(pass.Reads))
		for _, name := range pass.Reads {
			if r, ok := g.resources[name]; ok {
				inputs[name] = *r
			} else {
				inputs[name] = zeroResource(name)
			}
		}

		outputs := make(PassOutputs, len(pass.Writes))
		if pass.Exec != nil {
			pass.Exec(inputs, outputs)
		}

		for _, name := range pass.Writes {
			r, ok := g.resources[name]
			if !ok {
				r = &Resource{Name: name}
				g.resources[name] = r
			}
			if h, ok := outputs[name]; ok {
				r.Handle = h
			}
		}
	}

	if final, ok := g.resources["final"]; ok {
		return final.Handle
	}
	return gpu.NoTexture
}

// ResizeAll rewrites every resource's width/height; passes observe the
// change the next time they execute and recreate framebuffers to match.
func (g *Graph) ResizeAll(width, height int) {
	for _, r := range g.resources {
		r.Width, r.Height = width, height
	}
}

// Resource returns the current table entry for name, if declared.
func (g *Graph) Resource(name string) (Resource, bool) {
	r, ok := g.resources[name]
	if !ok {
		return Resource{}, false
	}
	return *r, true
}
