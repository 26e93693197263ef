// Package render provides the software rasterization core: framebuffer,
// Z-buffer, camera, near-plane clipping, and scan conversion.
package render

import (
	"image"
	"image/png"
	"os"
)

// unsetDepth is the Z-buffer sentinel meaning "no write has landed here
// yet". Depths are forward distances along the camera's j axis and are
// always >= 0 for visible geometry, so a negative sentinel can never be
// mistaken for a real depth.
const unsetDepth = -1

// Framebuffer is a W x H color surface with a parallel Z-buffer, row-major
// indexed as h*W + w. It is the render target shared by the rasterizer for
// the duration of one frame; reads and writes are unsynchronized and
// assume a single writer per (w,h) cell per frame.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	depth         []float64
}

// NewFramebuffer creates a framebuffer of the given dimensions, cleared to
// black with an unset Z-buffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{Width: width, Height: height}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the framebuffer and Z-buffer for a new resolution and
// clears both to black / unset.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]Color, width*height)
	fb.depth = make([]float64, width*height)
	fb.Clear(ColorBlack)
}

// Clear fills the color buffer with background and resets every Z-buffer
// cell to the unset sentinel.
func (fb *Framebuffer) Clear(background Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = background
	}
	for i := range fb.depth {
		fb.depth[i] = unsetDepth
	}
}

func (fb *Framebuffer) index(w, h int) (int, bool) {
	if w < 0 || w >= fb.Width || h < 0 || h >= fb.Height {
		return 0, false
	}
	return h*fb.Width + w, true
}

// Depth returns the Z-buffer value at (w,h), or unsetDepth if out of
// bounds.
func (fb *Framebuffer) Depth(w, h int) float64 {
	i, ok := fb.index(w, h)
	if !ok {
		return unsetDepth
	}
	return fb.depth[i]
}

// GetPixel returns the color at (w,h). Returns the zero Color if out of
// bounds.
func (fb *Framebuffer) GetPixel(w, h int) Color {
	i, ok := fb.index(w, h)
	if !ok {
		return Color{}
	}
	return fb.Pixels[i]
}

// WritePixel writes color at (w,h) with depth, gated by the Z-test: the
// write lands only if (w,h) is in bounds and the cell is unset or depth is
// strictly nearer than the stored value. Out-of-bounds and failed-test
// writes are silent no-ops.
func (fb *Framebuffer) WritePixel(w, h int, depth float64, c Color) {
	i, ok := fb.index(w, h)
	if !ok {
		return
	}
	if fb.depth[i] < 0 || fb.depth[i] > depth {
		fb.Pixels[i] = c
		fb.depth[i] = depth
	}
}

// SetPixel writes color and depth at (w,h) unconditionally (bounds checked
// but no Z-test), for callers that have already performed their own depth
// comparison, such as the triangle rasterizer's incremental scan.
func (fb *Framebuffer) SetPixel(w, h int, depth float64, c Color) {
	i, ok := fb.index(w, h)
	if !ok {
		return
	}
	fb.Pixels[i] = c
	fb.depth[i] = depth
}

// ToImage converts the framebuffer to a standard Go image.RGBA, the
// pixel-accurate presentation path (see backend.go's ImageBackend).
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.GetPixel(x, y))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
