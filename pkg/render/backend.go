package render

// PresentationBackend is an external collaborator that turns a
// Framebuffer into pixels on an actual display device. The core never
// implements one directly; it only writes into a Framebuffer and leaves
// presentation to whichever backend the caller constructed.
type PresentationBackend interface {
	Init(width, height int, background Color) error
	Clear()
	WritePixel(w, h int, c Color)
	Present() error
	Teardown() error
}

// ImageBackend is the pixel-accurate presentation backend: every
// Framebuffer pixel maps to exactly one image pixel, written out as a PNG
// on Present.
type ImageBackend struct {
	fb   *Framebuffer
	path string
}

// NewImageBackend creates a pixel-accurate backend that saves frames to
// path on each Present call.
func NewImageBackend(path string) *ImageBackend {
	return &ImageBackend{path: path}
}

func (b *ImageBackend) Init(width, height int, background Color) error {
	b.fb = NewFramebuffer(width, height)
	b.fb.Clear(background)
	return nil
}

func (b *ImageBackend) Clear() {
	b.fb.Clear(ColorBlack)
}

func (b *ImageBackend) WritePixel(w, h int, c Color) {
	b.fb.SetPixel(w, h, 0, c)
}

func (b *ImageBackend) Present() error {
	return b.fb.SavePNG(b.path)
}

func (b *ImageBackend) Teardown() error {
	return nil
}

// Framebuffer exposes the backend's backing surface so a Rasterizer can
// target it directly instead of going through WritePixel one call at a
// time.
func (b *ImageBackend) Framebuffer() *Framebuffer {
	return b.fb
}
