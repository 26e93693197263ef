package render

import (
	"math"

	"github.com/taigrr/rasterkit/pkg/math3d"
)

// Camera is an oriented frame {O, I, J, K} plus pinhole intrinsics. I is
// right, J is forward (the axis depth is measured along), K is up; the
// three stay unit-length and mutually orthogonal across every pose
// mutation.
type Camera struct {
	O math3d.Vec3
	I math3d.Vec3
	J math3d.Vec3
	K math3d.Vec3

	Width, Height int

	// WFOV, HFOV are the full horizontal/vertical fields of view, in
	// radians.
	WFOV, HFOV float64

	// NEARPLAN is the near clip distance along J; must stay > 0.
	NEARPLAN float64
}

// NewCamera creates a camera at the origin facing -Z (J = world forward),
// with the given resolution and fields of view in degrees.
func NewCamera(width, height int, wfovDeg, hfovDeg, nearplan float64) *Camera {
	c := &Camera{
		Width:    width,
		Height:   height,
		WFOV:     wfovDeg * math.Pi / 180,
		HFOV:     hfovDeg * math.Pi / 180,
		NEARPLAN: nearplan,
	}
	c.Reset(math3d.Zero3())
	return c
}

// Reset reinitializes the frame to the identity basis at the given origin:
// I = world right, J = world forward, K = world up.
func (c *Camera) Reset(origin math3d.Vec3) {
	c.O = origin
	c.I = math3d.Right()
	c.J = math3d.Forward().Negate() // +Z forward in camera-local convention
	c.K = math3d.Up()
}

// wCoef is the horizontal screen-space scale derived from WFOV and Width.
func (c *Camera) wCoef() float64 {
	return float64(c.Width) / (2 * math.Tan(c.WFOV/2))
}

// hCoef is the vertical screen-space scale derived from HFOV and Height;
// negated so that increasing K (up) decreases h (screen rows grow down).
func (c *Camera) hCoef() float64 {
	return -float64(c.Height) / (2 * math.Tan(c.HFOV/2))
}

// TranslateLocal moves the origin by dI, dJ, dK along the camera's own
// basis vectors.
func (c *Camera) TranslateLocal(dI, dJ, dK float64) {
	c.O = c.O.Add(c.I.Scale(dI)).Add(c.J.Scale(dJ)).Add(c.K.Scale(dK))
}

// RotateLocal rotates the basis about its own I/J/K axes (pitch/roll/yaw,
// in radians) through the origin, then re-orthonormalizes.
func (c *Camera) RotateLocal(aroundI, aroundJ, aroundK float64) {
	rotate := func(axis math3d.Vec3, angle float64) {
		if angle == 0 {
			return
		}
		rot := math3d.Rotate(axis, angle)
		c.I = rot.MulVec3Dir(c.I)
		c.J = rot.MulVec3Dir(c.J)
		c.K = rot.MulVec3Dir(c.K)
	}
	rotate(c.I, aroundI)
	rotate(c.J, aroundJ)
	rotate(c.K, aroundK)
	c.Orthonormalize()
}

// Orthonormalize re-derives an orthonormal right-handed basis from the
// current I and J (I normalized, J Gram-Schmidt-corrected against I, then K
// from their cross product),
// correcting the drift that accumulates from repeated float rotations.
func (c *Camera) Orthonormalize() {
	c.I = c.I.NormalizeSafe()
	c.J = c.J.Sub(c.I.Scale(c.I.Dot(c.J))).NormalizeSafe()
	c.K = c.I.Cross(c.J).Scale(-1).NormalizeSafe()
}

// ProjectPoint returns the point where segment AB crosses the near plane,
// expressed relative to the camera origin: A + k*(B-A) - O, where
// k = (NEARPLAN - j.(A-O)) / (j.(B-A)). Undefined (divide by zero) when AB
// is parallel to the near plane; callers only invoke this when A and B lie
// on opposite sides of the plane.
func (c *Camera) ProjectPoint(A, B math3d.Vec3) math3d.Vec3 {
	depthA := c.J.Dot(A.Sub(c.O))
	k := (c.NEARPLAN - depthA) / c.J.Dot(B.Sub(A))
	return A.Add(B.Sub(A).Scale(k)).Sub(c.O)
}

// ProjectCoord maps a point OA (already relative to the camera origin) at
// the given depth to an integer screen coordinate, per the w/hCoef
// formulas. Rounds to the nearest pixel.
func (c *Camera) ProjectCoord(OA math3d.Vec3, depth float64) math3d.Coord {
	w := c.wCoef()*(c.I.Dot(OA))/depth + float64(c.Width)/2
	h := c.hCoef()*(c.K.Dot(OA))/depth + float64(c.Height)/2
	return math3d.C(int(math.Round(w)), int(math.Round(h)))
}

// Depth returns the forward distance of a world point along J, i.e. the
// value the Z-buffer stores for anything projected from it.
func (c *Camera) Depth(p math3d.Vec3) float64 {
	return c.J.Dot(p.Sub(c.O))
}
