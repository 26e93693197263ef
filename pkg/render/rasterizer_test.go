package render

import (
	"testing"

	"github.com/taigrr/rasterkit/pkg/math3d"
)

// testCamera builds the camera used by the spec's concrete scenarios:
// W=H=100, NEARPLAN=1, WFOV=HFOV=90deg, origin at world origin, identity
// basis (I=right, J=up as "forward", K=+Z as "up").
func testCamera() *Camera {
	c := NewCamera(100, 100, 90, 90, 1)
	c.O = math3d.Zero3()
	c.I = math3d.V3(1, 0, 0)
	c.J = math3d.V3(0, 1, 0)
	c.K = math3d.V3(0, 0, 1)
	return c
}

func TestDrawPixelCenteredVertex(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))
	proj := NewProjector(cam, ras)

	vertex := math3d.V3(0, 5, 0)
	coord := cam.ProjectCoord(vertex.Sub(cam.O), cam.Depth(vertex))
	proj.Raster.DrawPixel(coord, cam.Depth(vertex), ColorRed)

	if coord.W != 50 || coord.H != 50 {
		t.Fatalf("expected (50,50), got (%d,%d)", coord.W, coord.H)
	}
	if got := fb.GetPixel(50, 50); got != ColorRed {
		t.Fatalf("expected red pixel, got %v", got)
	}
	if got := fb.Depth(50, 50); got != 5 {
		t.Fatalf("expected depth 5, got %v", got)
	}
}

func TestDrawSegmentAxisAligned(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))
	proj := NewProjector(cam, ras)

	proj.ProjectSegment(math3d.V3(-1, 5, 0), math3d.V3(1, 5, 0), ColorWhite)

	count := 0
	for x := range fb.Width {
		if fb.GetPixel(x, 50) == ColorWhite {
			count++
			if fb.Depth(x, 50) != 5 {
				t.Fatalf("pixel (%d,50) has depth %v, want 5", x, fb.Depth(x, 50))
			}
		}
	}
	if count < 15 || count > 25 {
		t.Fatalf("expected ~20 lit pixels on row 50, got %d", count)
	}
}

func TestBackfaceCullSymmetry(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))

	a := math3d.C(10, 10)
	b := math3d.C(20, 10)
	c := math3d.C(15, 20)
	n := math3d.V3(0, 0, 1)
	uv := math3d.Zero2()

	ras.DrawTriangle(a, b, c, 5, 5, 5, nil, uv, uv, uv, n, n, n)
	if !anyPixelSet(fb) {
		t.Fatal("expected CCW triangle to rasterize some pixels")
	}

	fb2 := NewFramebuffer(cam.Width, cam.Height)
	ras2 := NewRasterizer(fb2, math3d.V3(0, -1, 0))
	ras2.DrawTriangle(a, c, b, 5, 5, 5, nil, uv, uv, uv, n, n, n)
	if anyPixelSet(fb2) {
		t.Fatal("expected reversed winding to cull entirely")
	}
}

func anyPixelSet(fb *Framebuffer) bool {
	for i := range fb.Pixels {
		if fb.depth[i] >= 0 {
			return true
		}
	}
	return false
}

func TestZBufferNearestWins(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))

	a, b, c := math3d.C(10, 10), math3d.C(90, 10), math3d.C(50, 90)
	n := math3d.V3(0, 0, 1)
	uv := math3d.Zero2()

	ras.DrawTriangle(a, b, c, 5, 5, 5, nil, uv, uv, uv, n, n, n)
	if fb.Depth(50, 50) != 5 {
		t.Fatalf("expected depth 5 after first write, got %v", fb.Depth(50, 50))
	}

	ras.DrawTriangle(a, b, c, 3, 3, 3, nil, uv, uv, uv, n, n, n)
	if fb.Depth(50, 50) != 3 {
		t.Fatalf("expected depth 3 after nearer write, got %v", fb.Depth(50, 50))
	}

	// A subsequent farther write must not overwrite the nearer depth.
	ras.DrawTriangle(a, b, c, 8, 8, 8, nil, uv, uv, uv, n, n, n)
	if fb.Depth(50, 50) != 3 {
		t.Fatal("farther write after nearer one must be rejected by the depth test")
	}
}

func TestTextureWrap(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorGreen)
	tex.SetPixel(0, 1, ColorBlue)
	tex.SetPixel(1, 1, ColorYellow)

	wrapped := shadeTexel(tex, 1.25, -0.75, 1)
	direct := shadeTexel(tex, 0.25, 0.25, 1)
	if wrapped != direct {
		t.Fatalf("wrapped sample %v != direct sample %v", wrapped, direct)
	}
}

func TestNearPlaneConservation(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))
	proj := NewProjector(cam, ras)

	a := math3d.V3(-1, 5, -1)
	b := math3d.V3(1, 5, -1)
	c := math3d.V3(0, 5, 1)
	vA := ProjVertex{Pos: a, Normal: math3d.V3(0, -1, 0), UV: math3d.Zero2()}
	vB := ProjVertex{Pos: b, Normal: math3d.V3(0, -1, 0), UV: math3d.Zero2()}
	vC := ProjVertex{Pos: c, Normal: math3d.V3(0, -1, 0), UV: math3d.Zero2()}

	// a, c, b projects to (40,60), (50,40), (60,60): positive screen cross,
	// so the triangle is front-facing and not culled.
	proj.ProjectTriangle(vA, vC, vB, nil)
	if !anyPixelSet(fb) {
		t.Fatal("triangle entirely beyond NEARPLAN should still rasterize")
	}
}

func TestSegmentDiscardedBehindNearPlane(t *testing.T) {
	cam := testCamera()
	fb := NewFramebuffer(cam.Width, cam.Height)
	ras := NewRasterizer(fb, math3d.V3(0, -1, 0))
	proj := NewProjector(cam, ras)

	proj.ProjectSegment(math3d.V3(0, 0.2, 0), math3d.V3(1, 0.3, 0), ColorWhite)
	if anyPixelSet(fb) {
		t.Fatal("segment entirely inside NEARPLAN should be discarded")
	}
}
