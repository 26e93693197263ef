package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// CharCellBackend is the character-cell presentation backend: colors
// quantize to an 8-entry palette (bit 0 = blue>=128, bit 1 = green>=128,
// bit 2 = red>=128) and every pixel renders as two character cells wide,
// matching how a terminal's fixed-width cells approximate a square pixel.
type CharCellBackend struct {
	scr uv.Screen
	fb  *Framebuffer
	bg  Color
}

// NewCharCellBackend creates a character-cell backend drawing into scr.
func NewCharCellBackend(scr uv.Screen) *CharCellBackend {
	return &CharCellBackend{scr: scr}
}

func (b *CharCellBackend) Init(width, height int, background Color) error {
	b.fb = NewFramebuffer(width, height)
	b.bg = background
	b.fb.Clear(background)
	return nil
}

func (b *CharCellBackend) Clear() {
	b.fb.Clear(b.bg)
}

func (b *CharCellBackend) WritePixel(w, h int, c Color) {
	b.fb.SetPixel(w, h, 0, c)
}

// Present quantizes every pixel to the 8-color palette and blits it as two
// adjacent cells of background color.
func (b *CharCellBackend) Present() error {
	for h := range b.fb.Height {
		for w := range b.fb.Width {
			c := quantize8(b.fb.GetPixel(w, h))
			cell := &uv.Cell{
				Content: " ",
				Width:   1,
				Style:   uv.Style{Bg: c},
			}
			b.scr.SetCell(2*w, h, cell)
			b.scr.SetCell(2*w+1, h, cell)
		}
	}
	return nil
}

func (b *CharCellBackend) Teardown() error {
	return nil
}

// Framebuffer exposes the backend's backing surface so a Rasterizer can
// target it directly instead of going through WritePixel one call at a
// time.
func (b *CharCellBackend) Framebuffer() *Framebuffer {
	return b.fb
}
