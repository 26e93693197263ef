// Package scene bundles a camera, a framebuffer, and a light vector into one
// explicit value that an interactive viewer can pass around and reuse across
// frames, instead of reaching for process-global state.
package scene

import (
	"github.com/taigrr/rasterkit/pkg/math3d"
	"github.com/taigrr/rasterkit/pkg/render"
)

// RenderContext owns one frame's worth of rendering state: the camera, the
// presentation backend's framebuffer, the rasterizer targeting it, and a
// projector tying the camera to the rasterizer. Light lives here too since
// the core only ever sees one light vector at a time.
type RenderContext struct {
	Camera *render.Camera
	Light  math3d.Vec3
	Raster *render.Rasterizer
	Proj   *render.Projector
}

// New builds a RenderContext around fb, pointed at the given camera with the
// given initial light direction.
func New(cam *render.Camera, fb *render.Framebuffer, light math3d.Vec3) *RenderContext {
	ras := render.NewRasterizer(fb, light)
	return &RenderContext{
		Camera: cam,
		Light:  light,
		Raster: ras,
		Proj:   render.NewProjector(cam, ras),
	}
}

// SetLight updates the light direction used by subsequent draws.
func (rc *RenderContext) SetLight(dir math3d.Vec3) {
	rc.Light = dir
	rc.Raster.Light = dir
}

// Retarget rebuilds the rasterizer and projector around a new framebuffer,
// for use after a resize replaces the backing surface.
func (rc *RenderContext) Retarget(fb *render.Framebuffer) {
	rc.Raster = render.NewRasterizer(fb, rc.Light)
	rc.Proj = render.NewProjector(rc.Camera, rc.Raster)
}
