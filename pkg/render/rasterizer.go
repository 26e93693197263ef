package render

import (
	"math"

	"github.com/taigrr/rasterkit/pkg/math3d"
)

// FaceVertex is one corner of a face: indices into a mesh's separate
// point, normal, and UV tables.
type FaceVertex struct {
	PointIdx, NormalIdx, UVIdx int
}

// MeshRenderer decouples the rasterizer and projector from any concrete
// mesh representation. A mesh package implements this over its own
// storage; the render package never imports it back.
type MeshRenderer interface {
	FaceCount() int
	Face(i int) [3]FaceVertex
	Point(idx int) math3d.Vec3
	Normal(idx int) math3d.Vec3
	UV(idx int) math3d.Vec2
	MeshTexture() *Texture
}

// Rasterizer scan-converts segments and triangles into a Framebuffer. It
// holds no per-frame state beyond the target and the single global light
// direction; a fresh instance is not needed between frames.
type Rasterizer struct {
	fb    *Framebuffer
	Light math3d.Vec3
}

// NewRasterizer creates a rasterizer writing into fb, lit by light
// (need not be pre-normalized; the shading formula tolerates non-unit
// input per the spec's documented, non-clamped output range).
func NewRasterizer(fb *Framebuffer, light math3d.Vec3) *Rasterizer {
	return &Rasterizer{fb: fb, Light: light}
}

// DrawPixel writes a single pixel with a depth test; bounds-checked,
// silently dropped if out of range or occluded.
func (r *Rasterizer) DrawPixel(p math3d.Coord, depth float64, c Color) {
	r.fb.WritePixel(p.W, p.H, depth, c)
}

// DrawSegment draws a Bresenham line from A to B with perspective-correct
// depth interpolation. A==B plots exactly one pixel.
func (r *Rasterizer) DrawSegment(A, B math3d.Coord, depthA, depthB float64, c Color) {
	dw := B.W - A.W
	dh := B.H - A.H
	steps := max(abs(dw), abs(dh))
	if steps == 0 {
		r.DrawPixel(A, depthA, c)
		return
	}

	majorIsW := abs(dw) >= abs(dh)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		w := A.W + int(math.Round(float64(dw)*t))
		h := A.H + int(math.Round(float64(dh)*t))

		var alpha float64
		if majorIsW {
			alpha = float64(w-A.W) / float64(dw)
		} else {
			alpha = float64(h-A.H) / float64(dh)
		}
		depth := depthA * depthB / ((1-alpha)*depthB + alpha*depthA)
		r.DrawPixel(math3d.C(w, h), depth, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// edgeCoeffs returns A, B, C such that edge(x,y) = A*x + B*y + C is the
// signed area of the parallelogram formed by (x0,y0)->(x1,y1) and
// (x0,y0)->(x,y); it steps by a constant A per unit x and B per unit y,
// which is what lets drawTriangle advance the three edge tests
// incrementally across a scanline instead of recomputing cross products.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// DrawTriangle rasterizes a single screen-space triangle with
// perspective-correct depth, shading, and texture interpolation. nA, nB,
// nC are the vertex normals and uvA, uvB, uvC the vertex UVs; tex may be
// nil, in which case the triangle is filled with flat white modulated by
// its shading scalar.
//
// The shading scalar s = 1 - ||n+L||/2 is inverted from the usual Lambert
// convention (darkest when the normal faces the light); this is
// intentional, not a bug.
func (r *Rasterizer) DrawTriangle(
	A, B, C math3d.Coord,
	depthA, depthB, depthC float64,
	tex *Texture,
	uvA, uvB, uvC math3d.Vec2,
	nA, nB, nC math3d.Vec3,
) {
	ax, ay := float64(A.W), float64(A.H)
	bx, by := float64(B.W), float64(B.H)
	cx, cy := float64(C.W), float64(C.H)

	// Backface cull: non-positive cross of AB, BC means clockwise or
	// degenerate in screen space.
	abx, aby := bx-ax, by-ay
	bcx, bcy := cx-bx, cy-by
	cull := abx*bcy - aby*bcx
	if cull <= 0 {
		return
	}

	minX := max(0, int(math.Floor(min3(ax, bx, cx))))
	maxX := min(r.fb.Width-1, int(math.Ceil(max3(ax, bx, cx))))
	minY := max(0, int(math.Floor(min3(ay, by, cy))))
	maxY := min(r.fb.Height-1, int(math.Ceil(max3(ay, by, cy))))
	if minX > maxX || minY > maxY {
		return
	}

	sA := shadingScalar(nA, r.Light)
	sB := shadingScalar(nB, r.Light)
	sC := shadingScalar(nC, r.Light)

	uA := uvA.Div(depthA)
	uB := uvB.Div(depthB)
	uC := uvC.Div(depthC)

	// Δ = cross(AB, AC), the doubled signed area used as the barycentric
	// denominator; distinct from the backface-cull cross above.
	acx, acy := cx-ax, cy-ay
	delta := abx*acy - aby*acx
	if delta == 0 {
		return
	}
	invDelta := 1 / delta

	// Edge functions ordered so that edge i is opposite vertex i: edge0
	// spans B->C (barycentric weight of A, named gamma below to match the
	// product-form interpolation formulas), edge1 spans C->A (weight of
	// B, named beta), edge2 spans A->B (weight of C, named alpha).
	A0, B0, C0 := edgeCoeffs(bx, by, cx, cy)
	A1, B1, C1 := edgeCoeffs(cx, cy, ax, ay)
	A2, B2, C2 := edgeCoeffs(ax, ay, bx, by)

	px, py := float64(minX)+0.5, float64(minY)+0.5
	row0 := edgeFunc(A0, B0, C0, px, py)
	row1 := edgeFunc(A1, B1, C1, px, py)
	row2 := edgeFunc(A2, B2, C2, px, py)

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := row0, row1, row2
		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				gamma := w0 * invDelta
				beta := w1 * invDelta
				alpha := w2 * invDelta

				depthM := depthA * depthB * depthC /
					(gamma*depthB*depthC + beta*depthC*depthA + alpha*depthA*depthB)

				if fb := r.fb; fb.Depth(x, y) < 0 || fb.Depth(x, y) > depthM {
					sM := sA * sB * sC /
						(gamma*sB*sC + beta*sC*sA + alpha*sA*sB)

					invDepthSum := gamma/depthA + beta/depthB + alpha/depthC
					u := (gamma*uA.X + beta*uB.X + alpha*uC.X) / invDepthSum
					v := (gamma*uA.Y + beta*uB.Y + alpha*uC.Y) / invDepthSum

					color := shadeTexel(tex, u, v, sM)
					r.fb.SetPixel(x, y, depthM, color)
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		row0 += B0
		row1 += B1
		row2 += B2
	}
}

// shadingScalar computes 1 - ||n+L||/2 for a vertex normal and the global
// light direction. Not clamped to [0,1]: non-unit normals may push it
// outside that range, by design.
func shadingScalar(n, light math3d.Vec3) float64 {
	return 1 - n.Add(light).Len()/2
}

// shadeTexel samples tex at wrap-addressed (u,v) and scales the result by
// s. A nil texture falls back to flat white, so untextured triangles
// still receive shading.
func shadeTexel(tex *Texture, u, v, s float64) Color {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return ScaleColor(ColorWhite, s)
	}
	wrapped := math3d.V2(u, v).Wrap()
	tx := int(wrapped.X * float64(tex.Width))
	ty := int(wrapped.Y * float64(tex.Height))
	if tx >= tex.Width {
		tx = tex.Width - 1
	}
	if ty >= tex.Height {
		ty = tex.Height - 1
	}
	return ScaleColor(tex.GetPixel(tx, ty), s)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
