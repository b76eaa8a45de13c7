// Package gpu defines the capability interfaces the render core drives a
// graphics backend through. The core never imports a concrete backend
// package directly: passes are constructed against these interfaces, and
// a Backend implementation (OpenGL, Vulkan, or the no-op reference
// backend in this package) is injected once at startup.
package gpu

import "github.com/lampy-engine/lampy/internal/ecs"

// TextureHandle is an opaque backend-owned texture reference.
type TextureHandle uint64

// NoTexture is the zero handle: "no texture bound".
const NoTexture TextureHandle = 0

// Mat4 is a column-major 4x4 matrix, stored the way every backend's
// uniform upload expects it.
type Mat4 [16]float32

// Mat3 is a column-major 3x3 matrix (the normal matrix).
type Mat3 [9]float32

// CameraData mirrors the CameraData uniform block byte-for-byte.
type CameraData struct {
	View       Mat4
	Projection Mat4
	Position   ecs.Vec4
}

// DirectionalLightData mirrors the DirectionalLightData uniform block.
type DirectionalLightData struct {
	Direction ecs.Vec4
	Color     ecs.Vec4
	Intensity float32
	_pad      [3]float32
}

// MaterialData mirrors the MaterialData uniform block.
type MaterialData struct {
	AlbedoColor    ecs.Vec4
	Roughness      float32
	Metallic       float32
	NormalStrength float32
	_pad           float32
}

// PointLight is one element of the point-light uniform arrays, capped at
// MaxPointLights entries per draw.
type PointLight struct {
	Position    ecs.Vec3
	Color       ecs.Vec3
	Intensity   float32
	InnerRadius float32
	OuterRadius float32
}

// MaxPointLights is the uniform array capacity every PBR-capable shader
// reserves for point lights.
const MaxPointLights = 100

// IMesh is a GPU-resident vertex/index buffer pair, bindable and
// drawable either once or instanced.
type IMesh interface {
	Bind()
	Draw()
	DrawIndexed(instanceCount int)
	Unbind()
}

// ITexture is a GPU-resident 2D texture.
type ITexture interface {
	Bind(unit int)
	Unbind()
	TextureID() uint32
}

// FramebufferSpec describes a framebuffer at creation time.
type FramebufferSpec struct {
	Width, Height int
	UseDepth      bool
	Name          string
}

// IFramebuffer is an off-screen render target with a color and,
// optionally, a depth attachment.
type IFramebuffer interface {
	Bind()
	Unbind()
	Resize(width, height int)
	ColorTexture() TextureHandle
	DepthTexture() TextureHandle
	// BlitDepthFrom copies another pass's depth attachment across so a
	// later pass (e.g. debug overlay drawing) can depth-test against
	// already-rendered scene geometry instead of its own empty buffer.
	BlitDepthFrom(depth TextureHandle)
}

// IShader is a linked vertex+fragment program plus the uniform-upload
// surface the built-in passes drive it through (§6.6's contract).
type IShader interface {
	Use()
	Unbind()
	SetCamera(CameraData)
	SetModel(model Mat4, normal Mat3)
	SetDirectionalLight(DirectionalLightData)
	SetLightSpaceMatrix(Mat4)
	SetPointLights(lights []PointLight)
	SetMaterial(MaterialData)
	SetUniform(blockName string, data []byte)
	HasUniformBlock(blockName string) bool
	BindTextures(byName map[string]TextureHandle)
}

// Backend is the factory surface a render.Renderer needs to construct
// GPU resources, independent of which concrete API implements them.
type Backend interface {
	CreateMesh(positions, normals, texcoords []float32, indices []uint32) (IMesh, error)
	CreateTexture(width, height int, rgba []byte) (ITexture, error)
	CreateShader(vertSource, fragSource string) (IShader, error)
	CreateFramebuffer(spec FramebufferSpec) (IFramebuffer, error)
}
