package gpu

import "sync/atomic"

// NoopBackend is a reference Backend that tracks bind/draw call counts
// but touches no actual GPU. It backs the engine's "offscreen" output
// mode and every render package test that needs a Backend without a
// window or driver present.
type NoopBackend struct {
	nextHandle atomic.Uint64
}

// NewNoopBackend returns a fresh backend.
func NewNoopBackend() *NoopBackend { return &NoopBackend{} }

func (b *NoopBackend) handle() TextureHandle {
	return TextureHandle(b.nextHandle.Add(1))
}

func (b *NoopBackend) CreateMesh(positions, normals, texcoords []float32, indices []uint32) (IMesh, error) {
	return &noopMesh{vertexCount: len(positions) / 3, indexCount: len(indices)}, nil
}

func (b *NoopBackend) CreateTexture(width, height int, rgba []byte) (ITexture, error) {
	return &noopTexture{id: uint32(b.handle()), width: width, height: height}, nil
}

func (b *NoopBackend) CreateShader(vertSource, fragSource string) (IShader, error) {
	return &noopShader{}, nil
}

func (b *NoopBackend) CreateFramebuffer(spec FramebufferSpec) (IFramebuffer, error) {
	return &noopFramebuffer{
		width:  spec.Width,
		height: spec.Height,
		color:  b.handle(),
		depth:  b.handle(),
		hasDepth: spec.UseDepth,
	}, nil
}

type noopMesh struct {
	vertexCount, indexCount int
	bound, drawCalls        int
}

func (m *noopMesh) Bind()                      { m.bound++ }
func (m *noopMesh) Draw()                      { m.drawCalls++ }
func (m *noopMesh) DrawIndexed(instanceCount int) { m.drawCalls += max(1, instanceCount) }
func (m *noopMesh) Unbind()                    {}

type noopTexture struct {
	id            uint32
	width, height int
}

func (t *noopTexture) Bind(unit int) {}
func (t *noopTexture) Unbind()       {}
func (t *noopTexture) TextureID() uint32 { return t.id }

type noopFramebuffer struct {
	width, height  int
	color, depth   TextureHandle
	hasDepth       bool
}

func (f *noopFramebuffer) Bind()   {}
func (f *noopFramebuffer) Unbind() {}
func (f *noopFramebuffer) Resize(w, h int) {
	f.width, f.height = w, h
}
func (f *noopFramebuffer) ColorTexture() TextureHandle { return f.color }
func (f *noopFramebuffer) DepthTexture() TextureHandle {
	if !f.hasDepth {
		return NoTexture
	}
	return f.depth
}

// BlitDepthFrom replaces this framebuffer's depth attachment with depth.
// A real backend would issue a glBlitFramebuffer/vkCmdCopyImage here; the
// reference backend only needs to observe which handle was blitted in.
func (f *noopFramebuffer) BlitDepthFrom(depth TextureHandle) {
	f.depth = depth
	f.hasDepth = true
}

type noopShader struct {
	lastCamera    CameraData
	lastMaterial  MaterialData
	lastLightSpace Mat4
	pointLights   []PointLight
	boundTextures map[string]TextureHandle
}

func (s *noopShader) Use()    {}
func (s *noopShader) Unbind() {}
func (s *noopShader) SetCamera(d CameraData)            { s.lastCamera = d }
func (s *noopShader) SetModel(model Mat4, normal Mat3)  {}
func (s *noopShader) SetDirectionalLight(DirectionalLightData) {}
func (s *noopShader) SetLightSpaceMatrix(m Mat4)        { s.lastLightSpace = m }
func (s *noopShader) SetPointLights(lights []PointLight) { s.pointLights = lights }
func (s *noopShader) SetMaterial(d MaterialData)        { s.lastMaterial = d }
func (s *noopShader) SetUniform(blockName string, data []byte) {}
func (s *noopShader) HasUniformBlock(blockName string) bool { return true }
func (s *noopShader) BindTextures(byName map[string]TextureHandle) {
	s.boundTextures = byName
}
