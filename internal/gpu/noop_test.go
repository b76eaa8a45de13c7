package gpu

import "testing"

func TestNoopBackendCreatesDistinctHandles(t *testing.T) {
	b := NewNoopBackend()
	fb1, err := b.CreateFramebuffer(FramebufferSpec{Width: 256, Height: 256, UseDepth: true, Name: "a"})
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	fb2, err := b.CreateFramebuffer(FramebufferSpec{Width: 256, Height: 256, UseDepth: false, Name: "b"})
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	if fb1.ColorTexture() == fb2.ColorTexture() {
		t.Error("distinct framebuffers must receive distinct color handles")
	}
	if fb2.DepthTexture() != NoTexture {
		t.Error("a framebuffer created without depth must report NoTexture")
	}

	fb1.Resize(512, 512)

	fb2.BlitDepthFrom(fb1.DepthTexture())
	if fb2.DepthTexture() != fb1.DepthTexture() {
		t.Error("BlitDepthFrom must adopt the source framebuffer's depth handle")
	}
}

func TestNoopMeshTracksDrawCalls(t *testing.T) {
	b := NewNoopBackend()
	mesh, err := b.CreateMesh([]float32{0, 0, 0}, nil, nil, []uint32{0})
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	mesh.Bind()
	mesh.DrawIndexed(4)
	mesh.Unbind()

	nm := mesh.(*noopMesh)
	if nm.bound != 1 {
		t.Errorf("bound = %d, want 1", nm.bound)
	}
	if nm.drawCalls != 4 {
		t.Errorf("drawCalls = %d, want 4 (one per instance)", nm.drawCalls)
	}
}
