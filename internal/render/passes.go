package render

import (
	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
)

// passResources is what every built-in pass lazily constructs on its
// first Exec call: a framebuffer sized to the current viewport plus
// whatever shader/mesh it needs, matching the "own it lazily, resize
// every frame" contract in §4.5.5.
type passResources struct {
	backend gpu.Backend
	fb      gpu.IFramebuffer
	shader  gpu.IShader
	quad    gpu.IMesh
}

func (r *passResources) ensureFramebuffer(spec gpu.FramebufferSpec) error {
	if r.fb == nil {
		created, err := r.backend.CreateFramebuffer(spec)
		if err != nil {
			return err
		}
		r.fb = created
		return nil
	}
	r.fb.Resize(spec.Width, spec.Height)
	return nil
}

func (r *passResources) ensureFullscreenQuad() error {
	if r.quad != nil {
		return nil
	}
	positions := []float32{
		-1, -1, 0, 1, -1, 0, 1, 1, 0,
		-1, -1, 0, 1, 1, 0, -1, 1, 0,
	}
	texcoords := []float32{0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1}
	indices := []uint32{0, 1, 2, 3, 4, 5}
	quad, err := r.backend.CreateMesh(positions, nil, texcoords, indices)
	if err != nil {
		return err
	}
	r.quad = quad
	return nil
}

// ShadowPass renders every scene object into a depth-only framebuffer
// from the sun's light view/projection. Output: "shadow_depth".
type ShadowPass struct {
	passResources
	scene      *Scene
	resolution int
}

// NewShadowPass binds a pass to backend and the live scene record.
// resolution sizes the square depth-only framebuffer; 0 defaults to 2048.
func NewShadowPass(backend gpu.Backend, scene *Scene, resolution int) *ShadowPass {
	if resolution <= 0 {
		resolution = 2048
	}
	return &ShadowPass{passResources: passResources{backend: backend}, scene: scene, resolution: resolution}
}

func (p *ShadowPass) Exec(inputs PassInputs, outputs PassOutputs) {
	spec := gpu.FramebufferSpec{Width: p.resolution, Height: p.resolution, UseDepth: true, Name: "shadow_depth"}
	if res, ok2 := inputOrOutputDims(inputs, "shadow_depth"); ok2 {
		spec.Width, spec.Height = res.Width, res.Height
	}
	if err := p.ensureFramebuffer(spec); err != nil {
		return
	}
	if p.shader == nil {
		shader, err := p.backend.CreateShader(shadowVertSource, shadowFragSource)
		if err != nil {
			return
		}
		p.shader = shader
	}

	p.fb.Bind()
	p.shader.Use()
	p.shader.SetLightSpaceMatrix(matMul(p.scene.Sun.LightProjection, p.scene.Sun.LightView))
	for _, obj := range p.scene.Objects {
		p.shader.SetModel(obj.ModelMatrix, Mat3{})
	}
	p.shader.Unbind()
	p.fb.Unbind()

	outputs["shadow_depth"] = p.fb.DepthTexture()
}

// inputOrOutputDims resolves the declared dimensions for a resource name
// that may appear as either a read or a not-yet-written write.
func inputOrOutputDims(inputs PassInputs, name string) (Resource, bool) {
	r, ok := inputs[name]
	return r, ok && (r.Width > 0 || r.Height > 0)
}

// PBRPass renders every scene object with the full uniform contract from
// §6.6: camera, directional light, light-space matrix, up to 100 point
// lights, per-object model + normal matrix, per-object material, and the
// shadow map bound as "shadow_map". The material's albedo, normal and
// roughness/metallic textures are not bound. Output: "color".
type PBRPass struct {
	passResources
	scene *Scene
}

// NewPBRPass binds a pass to backend and the live scene record.
func NewPBRPass(backend gpu.Backend, scene *Scene) *PBRPass {
	return &PBRPass{passResources: passResources{backend: backend}, scene: scene}
}

func (p *PBRPass) Exec(inputs PassInputs, outputs PassOutputs) {
	spec := gpu.FramebufferSpec{Width: 1920, Height: 1080, UseDepth: true, Name: "color"}
	if r, ok := inputOrOutputDims(inputs, "color"); ok {
		spec.Width, spec.Height = r.Width, r.Height
	}
	if err := p.ensureFramebuffer(spec); err != nil {
		return
	}
	if p.shader == nil {
		shader, err := p.backend.CreateShader(pbrVertSource, pbrFragSource)
		if err != nil {
			return
		}
		p.shader = shader
	}

	shadowDepth := inputs["shadow_depth"].Handle

	p.fb.Bind()
	p.shader.Use()
	p.shader.SetCamera(gpu.CameraData{
		View:       p.scene.Camera.View,
		Projection: p.scene.Camera.Projection,
		Position:   vec4(p.scene.Camera.Position, 1),
	})
	p.shader.SetDirectionalLight(gpu.DirectionalLightData{
		Direction: vec4(p.scene.Sun.Direction, 0),
		Color:     vec4(p.scene.Sun.Color, 1),
		Intensity: p.scene.Sun.Intensity,
	})
	p.shader.SetLightSpaceMatrix(matMul(p.scene.Sun.LightProjection, p.scene.Sun.LightView))
	p.shader.SetPointLights(toGPUPointLights(clampPointLights(p.scene.PointLights)))

	for _, obj := range p.scene.Objects {
		normalStrength := float32(0)
		hasNormalTexture := obj.Material != nil && obj.Material.NormalTexture != [16]byte{}
		if hasNormalTexture {
			normalStrength = obj.Material.NormalStrength
		}
		mat := gpu.MaterialData{Roughness: 1, Metallic: 0, NormalStrength: normalStrength}
		if obj.Material != nil {
			mat.AlbedoColor = obj.Material.AlbedoColor
			mat.Roughness = obj.Material.Roughness
			mat.Metallic = obj.Material.Metallic
		}
		p.shader.SetMaterial(mat)
		p.shader.SetModel(obj.ModelMatrix, normalMatrix(obj.ModelMatrix, obj.Scale))
		p.shader.BindTextures(map[string]gpu.TextureHandle{
			"shadow_map": shadowDepth,
		})
	}
	p.shader.Unbind()
	p.fb.Unbind()

	outputs["color"] = p.fb.ColorTexture()
	outputs["scene_depth"] = p.fb.DepthTexture()
}

// GridPass blends a world-space infinite-grid quad over the upstream
// color buffer. Output: "grid_color". Optional: a graph that omits it
// simply never declares the resource.
type GridPass struct {
	passResources
}

// NewGridPass binds a pass to backend.
func NewGridPass(backend gpu.Backend) *GridPass {
	return &GridPass{passResources: passResources{backend: backend}}
}

func (p *GridPass) Exec(inputs PassInputs, outputs PassOutputs) {
	spec := gpu.FramebufferSpec{Width: 1920, Height: 1080, UseDepth: false, Name: "grid_color"}
	if r, ok := inputOrOutputDims(inputs, "grid_color"); ok {
		spec.Width, spec.Height = r.Width, r.Height
	}
	if err := p.ensureFramebuffer(spec); err != nil {
		return
	}
	if err := p.ensureFullscreenQuad(); err != nil {
		return
	}
	if p.shader == nil {
		shader, err := p.backend.CreateShader(gridVertSource, gridFragSource)
		if err != nil {
			return
		}
		p.shader = shader
	}

	p.fb.Bind()
	p.shader.Use()
	p.shader.BindTextures(map[string]gpu.TextureHandle{"texture_pass_color": inputs["color"].Handle})
	p.quad.Bind()
	p.quad.DrawIndexed(1)
	p.quad.Unbind()
	p.shader.Unbind()
	p.fb.Unbind()

	outputs["grid_color"] = p.fb.ColorTexture()
}

// DebugPass binds the upstream color under "texture_pass_color" and blits
// the PBR depth buffer into its own framebuffer. It issues no draw call:
// neither the upstream color nor the scene's debug lines/boxes/spheres
// are rasterized into it. Output: "debug_color". Optional.
type DebugPass struct {
	passResources
	scene *Scene
}

// NewDebugPass binds a pass to backend and the live scene record.
func NewDebugPass(backend gpu.Backend, scene *Scene) *DebugPass {
	return &DebugPass{passResources: passResources{backend: backend}, scene: scene}
}

func (p *DebugPass) Exec(inputs PassInputs, outputs PassOutputs) {
	spec := gpu.FramebufferSpec{Width: 1920, Height: 1080, UseDepth: true, Name: "debug_color"}
	upstreamName := "grid_color"
	upstream, ok := inputs[upstreamName]
	if !ok || (upstream.Width == 0 && upstream.Height == 0) {
		upstreamName = "color"
		upstream = inputs[upstreamName]
	}
	if upstream.Width > 0 {
		spec.Width, spec.Height = upstream.Width, upstream.Height
	}
	if err := p.ensureFramebuffer(spec); err != nil {
		return
	}
	if p.shader == nil {
		shader, err := p.backend.CreateShader(debugVertSource, debugFragSource)
		if err != nil {
			return
		}
		p.shader = shader
	}

	p.fb.BlitDepthFrom(inputs["scene_depth"].Handle)

	p.fb.Bind()
	p.shader.Use()
	p.shader.BindTextures(map[string]gpu.TextureHandle{"texture_pass_color": upstream.Handle})
	for range p.scene.DebugLines {
		// No draw call is issued per line.
	}
	p.shader.Unbind()
	p.fb.Unbind()

	outputs["debug_color"] = p.fb.ColorTexture()
}

// FinalCompose samples the last upstream color buffer — always rebound
// under the fixed sampler name "texture_pass_color" regardless of its
// actual upstream resource name — onto a full-screen quad. Output:
// "final".
type FinalCompose struct {
	passResources
	upstreamName string
}

// NewFinalCompose binds a pass to backend. upstreamName is the resource
// read from (e.g. "debug_color" if DebugPass ran, else "color").
func NewFinalCompose(backend gpu.Backend, upstreamName string) *FinalCompose {
	return &FinalCompose{passResources: passResources{backend: backend}, upstreamName: upstreamName}
}

func (p *FinalCompose) Exec(inputs PassInputs, outputs PassOutputs) {
	upstream := inputs[p.upstreamName]
	spec := gpu.FramebufferSpec{Width: 1920, Height: 1080, UseDepth: false, Name: "final"}
	if upstream.Width > 0 {
		spec.Width, spec.Height = upstream.Width, upstream.Height
	}
	if err := p.ensureFramebuffer(spec); err != nil {
		return
	}
	if err := p.ensureFullscreenQuad(); err != nil {
		return
	}
	if p.shader == nil {
		shader, err := p.backend.CreateShader(composeVertSource, composeFragSource)
		if err != nil {
			return
		}
		p.shader = shader
	}

	p.fb.Bind()
	p.shader.Use()
	p.shader.BindTextures(map[string]gpu.TextureHandle{"texture_pass_color": upstream.Handle})
	p.quad.Bind()
	p.quad.DrawIndexed(1)
	p.quad.Unbind()
	p.shader.Unbind()
	p.fb.Unbind()

	outputs["final"] = p.fb.ColorTexture()
}

func vec4(v ecs.Vec3, w float32) ecs.Vec4 {
	return ecs.Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

func matMul(a, b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

func toGPUPointLights(lights []PointLight) []gpu.PointLight {
	out := make([]gpu.PointLight, len(lights))
	for i, l := range lights {
		out[i] = gpu.PointLight{
			Position:    l.Position,
			Color:       l.Color,
			Intensity:   l.Intensity,
			InnerRadius: l.InnerRadius,
			OuterRadius: l.OuterRadius,
		}
	}
	return out
}

const (
	shadowVertSource = "// shadow.vert"
	shadowFragSource = "// shadow.frag"
	pbrVertSource    = "// pbr.vert"
	pbrFragSource    = "// pbr.frag"
	gridVertSource   = "// grid.vert"
	gridFragSource   = "// grid.frag"
	debugVertSource  = "// debug.vert"
	debugFragSource  = "// debug.frag"
	composeVertSource = "// compose.vert"
	composeFragSource = "// compose.frag"
)
