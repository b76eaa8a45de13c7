// Package render implements the engine's render core: ECS-driven entity
// tracking, a stable render-list compaction scheme, a declarative
// resource-table render graph, the built-in pass set, and the per-frame
// orchestrator that ties them together.
package render

import (
	"github.com/lampy-engine/lampy/internal/ecs"
)

// MeshIdentity is the four-asset key that determines whether a drawable's
// mesh-facing identity changed: mesh geometry, vertex/fragment shaders,
// and base texture.
type MeshIdentity struct {
	MeshID     [16]byte
	VertShader [16]byte
	FragShader [16]byte
	TextureID  [16]byte
}

// RenderObject is the GPU-ready per-drawable record the render list holds.
type RenderObject struct {
	ModelMatrix Mat4
	Scale       ecs.Vec3
	Mesh        MeshIdentity
	Material    *ecs.MaterialComponent
}

// EntityRenderState is the tracker's per-entity record: everything needed
// to reconstruct a RenderObject, plus the validity flag that governs
// Added/Removed transitions.
type EntityRenderState struct {
	EntityID ecs.EntityID
	IsValid  bool

	Position ecs.Vec3
	Rotation ecs.Quat
	EulerDeg ecs.Vec3
	Scale    ecs.Vec3

	Mesh     MeshIdentity
	Material ecs.MaterialComponent
}

// DiffType is the closed set of render-diff entry kinds.
type DiffType int

const (
	DiffAdded DiffType = iota
	DiffUpdated
	DiffRemoved
)

func (t DiffType) String() string {
	switch t {
	case DiffAdded:
		return "Added"
	case DiffUpdated:
		return "Updated"
	case DiffRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// DiffEntry is one record in a consumed RenderDiff.
type DiffEntry struct {
	Type     DiffType
	EntityID ecs.EntityID
	NewState *EntityRenderState // non-nil iff Type == DiffAdded or DiffUpdated
}

// RenderDiff is the ordered, per-frame change set the tracker hands to
// the render list manager. It is a plain slice: ConsumeDiff on the
// tracker is the construct that gives "exactly once per frame" meaning.
type RenderDiff []DiffEntry
