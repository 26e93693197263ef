package models

import (
	"math"

	"github.com/taigrr/rasterkit/pkg/math3d"
)

// Equation maps a (s,t) parameter pair to a 3D point. Sphere, Torus, Plane,
// and Cylinder below are the named surfaces available; a generator built
// on arbitrary runtime-supplied equations would need an expression parser,
// which this project does not carry, so the equation slot is a fixed Go
// closure instead.
type Equation func(s, t float64) math3d.Vec3

// Sphere is a unit sphere parameterized by s,t in [0,2pi]x[-pi/2,pi/2].
func Sphere(s, t float64) math3d.Vec3 {
	return math3d.V3(math.Sin(s)*math.Cos(t), math.Cos(s)*math.Cos(t), math.Sin(t))
}

// Torus has major radius 2 and minor radius 1, parameterized by s,t in
// [0,2pi]x[0,2pi].
func Torus(s, t float64) math3d.Vec3 {
	return math3d.V3(
		math.Sin(s)*(2+math.Cos(t)),
		math.Cos(s)*(2+math.Cos(t)),
		-math.Sin(t),
	)
}

// Plane is a flat square of side 2 in the XY plane, parameterized by s,t
// in [-1,1]x[-1,1].
func Plane(s, t float64) math3d.Vec3 {
	return math3d.V3(s, t, 0)
}

// Cylinder has unit radius and height 2, parameterized by s in [0,2pi]
// (around) and t in [-1,1] (along the axis).
func Cylinder(s, t float64) math3d.Vec3 {
	return math3d.V3(math.Cos(s), math.Sin(s), t)
}

// quadCorners are the four UV corners assigned to every grid cell's two
// triangles, matching the original generator's fixed 4-entry coordinate
// table.
var quadCorners = [4]math3d.Vec2{
	math3d.V2(0, 0),
	math3d.V2(0, 1),
	math3d.V2(1, 0),
	math3d.V2(1, 1),
}

// normalEpsilon below this magnitude, the finite-difference cross product
// is considered degenerate and a wider-stencil fallback is used instead.
const normalEpsilon = 0.001

// GenerateSurface tessellates eq over a precisionS x precisionT grid of
// (s,t) in [minS,maxS]x[minT,maxT], deriving per-vertex normals from
// finite-difference tangents and stitching each grid cell into two
// triangles.
func GenerateSurface(name string, eq Equation, minS, maxS float64, precisionS int, minT, maxT float64, precisionT int) *Mesh {
	mesh := NewMesh(name)
	mesh.UVs = quadCorners[:]

	ds := (maxS - minS) / float64(precisionS-1)
	dt := (maxT - minT) / float64(precisionT-1)

	mesh.Points = make([]math3d.Vec3, precisionS*precisionT)
	mesh.Normals = make([]math3d.Vec3, precisionS*precisionT)

	p := 0
	for it := range precisionT {
		t := minT + float64(it)*dt
		for is := range precisionS {
			s := minS + float64(is)*ds
			mesh.Points[p] = eq(s, t)
			mesh.Normals[p] = surfaceNormal(eq, s, t, ds, dt)
			p++
		}
	}

	for row := range precisionT - 1 {
		for col := range precisionS - 1 {
			p := row*precisionS + col
			mesh.Faces = append(mesh.Faces,
				Face{V: [3]Vertex{
					{PointIdx: p, NormalIdx: p, UVIdx: 1},
					{PointIdx: p + 1, NormalIdx: p + 1, UVIdx: 3},
					{PointIdx: p + precisionS, NormalIdx: p + precisionS, UVIdx: 0},
				}},
				Face{V: [3]Vertex{
					{PointIdx: p + precisionS, NormalIdx: p + precisionS, UVIdx: 0},
					{PointIdx: p + 1, NormalIdx: p + 1, UVIdx: 3},
					{PointIdx: p + 1 + precisionS, NormalIdx: p + 1 + precisionS, UVIdx: 2},
				}},
			)
		}
	}

	mesh.RecomputeCentroid()
	return mesh
}

func surfaceNormal(eq Equation, s, t, ds, dt float64) math3d.Vec3 {
	tangentS := eq(s+ds, t).Sub(eq(s-ds, t))
	tangentT := eq(s, t+dt).Sub(eq(s, t-dt))
	normal := tangentS.Cross(tangentT)
	if normal.Len() < normalEpsilon {
		tangentS = eq(s+ds, t+dt).Sub(eq(s-ds, t-dt))
		tangentT = eq(s+ds, t-dt).Sub(eq(s-ds, t+dt))
		normal = tangentS.Cross(tangentT)
	}
	return normal.NormalizeSafe()
}
