package render

import "github.com/taigrr/rasterkit/pkg/math3d"

// ProjVertex is one world-space corner of a primitive being projected: its
// position plus the normal and UV carried for shading and texturing.
type ProjVertex struct {
	Pos    math3d.Vec3
	Normal math3d.Vec3
	UV     math3d.Vec2
}

// Projector transforms world-space primitives into screen space, clipping
// against the camera's near plane, and hands the result to a Rasterizer.
type Projector struct {
	Camera *Camera
	Raster *Rasterizer
}

// NewProjector creates a projector for cam, feeding raster.
func NewProjector(cam *Camera, raster *Rasterizer) *Projector {
	return &Projector{Camera: cam, Raster: raster}
}

func (p *Projector) project(OA math3d.Vec3, depth float64) math3d.Coord {
	return p.Camera.ProjectCoord(OA, depth)
}

// ProjectSegment clips AB against the near plane and rasterizes whatever
// of it remains visible.
func (p *Projector) ProjectSegment(A, B math3d.Vec3, color Color) {
	cam := p.Camera
	depthA := cam.Depth(A)
	depthB := cam.Depth(B)
	visA := depthA >= cam.NEARPLAN
	visB := depthB >= cam.NEARPLAN

	switch {
	case visA && visB:
		p.Raster.DrawSegment(
			p.project(A.Sub(cam.O), depthA),
			p.project(B.Sub(cam.O), depthB),
			depthA, depthB, color)
	case visA && !visB:
		ix := cam.ProjectPoint(A, B)
		p.Raster.DrawSegment(
			p.project(A.Sub(cam.O), depthA),
			p.project(ix, cam.NEARPLAN),
			depthA, cam.NEARPLAN, color)
	case visB && !visA:
		ix := cam.ProjectPoint(B, A)
		p.Raster.DrawSegment(
			p.project(ix, cam.NEARPLAN),
			p.project(B.Sub(cam.O), depthB),
			cam.NEARPLAN, depthB, color)
	default:
		// Both behind the near plane: discard.
	}
}

// ProjectTriangle clips a triangle against the near plane, classifying by
// how many vertices lie strictly beyond NEARPLAN, and rasterizes the
// resulting one or two sub-triangles.
func (p *Projector) ProjectTriangle(vA, vB, vC ProjVertex, tex *Texture) {
	v := [3]ProjVertex{vA, vB, vC}
	cam := p.Camera
	var depth [3]float64
	test := 0
	for i := range v {
		depth[i] = cam.Depth(v[i].Pos)
		if depth[i] > cam.NEARPLAN {
			test++
		}
	}

	switch test {
	case 3:
		p.emitTriangle(
			p.project(v[0].Pos.Sub(cam.O), depth[0]), v[0],
			p.project(v[1].Pos.Sub(cam.O), depth[1]), v[1],
			p.project(v[2].Pos.Sub(cam.O), depth[2]), v[2],
			depth[0], depth[1], depth[2], tex)
	case 0:
		// Entirely behind the near plane: discard.
	case 1:
		idx := visibleIndex(depth, cam.NEARPLAN, true)
		pVert, qVert, rVert := v[idx], v[(idx+1)%3], v[(idx+2)%3]
		depthP := depth[idx]

		kQ := (cam.NEARPLAN - depthP) / cam.J.Dot(qVert.Pos.Sub(pVert.Pos))
		kR := (cam.NEARPLAN - depthP) / cam.J.Dot(rVert.Pos.Sub(pVert.Pos))
		qPrime := clipVertex(pVert, qVert, kQ)
		rPrime := clipVertex(pVert, rVert, kR)
		depthQPrime := depthP + kQ*(depth[(idx+1)%3]-depthP)
		depthRPrime := depthP + kR*(depth[(idx+2)%3]-depthP)

		p.emitTriangle(
			p.project(pVert.Pos.Sub(cam.O), depthP), pVert,
			p.project(cam.ProjectPoint(pVert.Pos, qVert.Pos), depthQPrime), qPrime,
			p.project(cam.ProjectPoint(pVert.Pos, rVert.Pos), depthRPrime), rPrime,
			depthP, depthQPrime, depthRPrime, tex)
	case 2:
		idx := visibleIndex(depth, cam.NEARPLAN, false)
		xVert, yVert, zVert := v[idx], v[(idx+1)%3], v[(idx+2)%3]
		depthX := depth[idx]

		kXY := (cam.NEARPLAN - depthX) / cam.J.Dot(yVert.Pos.Sub(xVert.Pos))
		kXZ := (cam.NEARPLAN - depthX) / cam.J.Dot(zVert.Pos.Sub(xVert.Pos))
		xy := clipVertex(xVert, yVert, kXY)
		xz := clipVertex(xVert, zVert, kXZ)
		depthXY := depthX + kXY*(depth[(idx+1)%3]-depthX)
		depthXZ := depthX + kXZ*(depth[(idx+2)%3]-depthX)

		coordY := p.project(yVert.Pos.Sub(cam.O), depth[(idx+1)%3])
		coordZ := p.project(zVert.Pos.Sub(cam.O), depth[(idx+2)%3])
		coordXY := p.project(cam.ProjectPoint(xVert.Pos, yVert.Pos), depthXY)
		coordXZ := p.project(cam.ProjectPoint(xVert.Pos, zVert.Pos), depthXZ)

		p.emitTriangle(
			coordY, yVert,
			coordZ, zVert,
			coordXY, xy,
			depth[(idx+1)%3], depth[(idx+2)%3], depthXY, tex)
		p.emitTriangle(
			coordXY, xy,
			coordZ, zVert,
			coordXZ, xz,
			depthXY, depth[(idx+2)%3], depthXZ, tex)
	}
}

// visibleIndex returns the index of the lone vertex on the requested side
// of the near plane: the visible one when wantVisible is true (test==1),
// the occluded one when false (test==2).
func visibleIndex(depth [3]float64, nearplan float64, wantVisible bool) int {
	for i, d := range depth {
		if (d > nearplan) == wantVisible {
			return i
		}
	}
	return 0
}

// clipVertex interpolates a vertex's normal and UV linearly at parameter k
// along the edge from anchor to other.
func clipVertex(anchor, other ProjVertex, k float64) ProjVertex {
	return ProjVertex{
		Normal: anchor.Normal.Lerp(other.Normal, k),
		UV:     anchor.UV.Lerp(other.UV, k),
	}
}

func (p *Projector) emitTriangle(
	cA math3d.Coord, vA ProjVertex,
	cB math3d.Coord, vB ProjVertex,
	cC math3d.Coord, vC ProjVertex,
	depthA, depthB, depthC float64,
	tex *Texture,
) {
	p.Raster.DrawTriangle(cA, cB, cC, depthA, depthB, depthC, tex,
		vA.UV, vB.UV, vC.UV, vA.Normal, vB.Normal, vC.Normal)
}
