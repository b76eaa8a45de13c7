package render

import (
	"math"

	"github.com/lampy-engine/lampy/internal/ecs"
)

// TransformUpdater applies a per-frame RenderFrameData snapshot's entity
// transforms onto an already-tracked ListManager, rebuilding each
// touched entity's model matrix. Entities present in the frame data but
// not (yet) in the list manager are skipped without error — an add/remove
// race the diff channel will resolve on its own next frame.
type TransformUpdater struct {
	list *ListManager
}

// NewTransformUpdater binds an updater to list.
func NewTransformUpdater(list *ListManager) *TransformUpdater { return &TransformUpdater{list: list} }

// Apply updates every entity named in frame.Entities.
func (u *TransformUpdater) Apply(frame ecs.RenderFrameData) {
	for _, fe := range frame.Entities {
		i, ok := u.list.GetObjectIndex(fe.Entity)
		if !ok {
			continue
		}
		obj := u.list.objects[i]
		obj.ModelMatrix = translationScaleRotation(fe.Position, fe.Rotation, fe.Scale)
		u.list.objects[i] = obj
	}
}

// CameraUpdater recomputes view/projection into a RenderScene's camera
// record from the ECS's per-frame camera snapshot.
type CameraUpdater struct {
	aspectWidth, aspectHeight float32
}

// NewCameraUpdater binds an updater to a fixed viewport aspect ratio,
// updated via Resize when the viewport changes.
func NewCameraUpdater(width, height float32) *CameraUpdater {
	return &CameraUpdater{aspectWidth: width, aspectHeight: height}
}

// Resize updates the viewport dimensions used for the projection matrix.
func (u *CameraUpdater) Resize(width, height float32) {
	u.aspectWidth, u.aspectHeight = width, height
}

// Apply recomputes scene.Camera from frame.Camera.
func (u *CameraUpdater) Apply(scene *Scene, frame ecs.RenderFrameData) {
	cam := frame.Camera
	forward := rotateVec3(cam.Rotation, ecs.Vec3{X: 0, Y: 0, Z: -1})
	up := rotateVec3(cam.Rotation, ecs.Vec3{X: 0, Y: 1, Z: 0})

	scene.Camera.Position = cam.Position
	scene.Camera.View = lookAt(cam.Position, vecAdd(cam.Position, forward), up)

	aspect := u.aspectWidth / u.aspectHeight
	if aspect <= 0 {
		aspect = 1
	}
	fovY := float32(math.Pi) / 180 * cam.FovYDegrees
	near, far := cam.Near, cam.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 1000
	}
	scene.Camera.Projection = perspective(fovY, aspect, near, far)
}
