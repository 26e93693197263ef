// Package models provides mesh storage and asset loading for the
// rasterizer: indexed point/normal/UV tables, an owned texture image, and
// loaders that populate them from OBJ, GLTF, or procedural generators.
package models

import (
	"github.com/taigrr/rasterkit/pkg/math3d"
	"github.com/taigrr/rasterkit/pkg/render"
)

// Vertex is one corner of a Face: indices into the owning Mesh's Points,
// Normals, and UVs tables.
type Vertex struct {
	PointIdx, NormalIdx, UVIdx int
}

// Face is an ordered triple of Vertices forming one triangle; the order
// encodes facing via the rasterizer's screen-space cross-product cull.
type Face struct {
	V [3]Vertex
}

// Mesh owns indexed point, normal, and UV tables, a face list, and one
// texture image. Centroid is the mean of Points, used as the pivot for
// rotation and scaling.
type Mesh struct {
	Name     string
	Points   []math3d.Vec3
	Normals  []math3d.Vec3
	UVs      []math3d.Vec2
	Faces    []Face
	Texture  *render.Texture
	Centroid math3d.Vec3
}

// NewMesh creates an empty, named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// RecomputeCentroid recomputes Centroid as the mean of Points.
func (m *Mesh) RecomputeCentroid() {
	if len(m.Points) == 0 {
		m.Centroid = math3d.Zero3()
		return
	}
	sum := math3d.Zero3()
	for _, p := range m.Points {
		sum = sum.Add(p)
	}
	m.Centroid = sum.Scale(1 / float64(len(m.Points)))
}

// Translate shifts every point and the centroid by d. Normals are
// direction vectors and are unaffected by translation.
func (m *Mesh) Translate(d math3d.Vec3) {
	for i := range m.Points {
		m.Points[i] = m.Points[i].Add(d)
	}
	m.Centroid = m.Centroid.Add(d)
}

// Scale scales every point about the centroid by s. Normals are
// unaffected by a uniform scale's direction, only its sign; non-uniform
// scaling is not supported here since it would require renormalizing
// every normal against the inverse-transpose, which the source format
// never exercises.
func (m *Mesh) Scale(s float64) {
	for i := range m.Points {
		m.Points[i] = m.Centroid.Add(m.Points[i].Sub(m.Centroid).Scale(s))
	}
}

// RotateAboutAxis rotates every point and normal about the centroid by
// angle radians around axis. Points rotate as positions (translated to
// the pivot and back); normals rotate as directions (pivot-invariant).
func (m *Mesh) RotateAboutAxis(axis math3d.Vec3, angle float64) {
	rot := math3d.Rotate(axis, angle)
	for i := range m.Points {
		m.Points[i] = m.Centroid.Add(rot.MulVec3Dir(m.Points[i].Sub(m.Centroid)))
	}
	for i := range m.Normals {
		m.Normals[i] = rot.MulVec3Dir(m.Normals[i]).Normalize()
	}
}

// CalculateFlatNormals derives one normal per face from its vertex
// positions and points every corner's NormalIdx at it, for sources (like
// GLTF primitives without a NORMAL attribute) that carry positions only.
func (m *Mesh) CalculateFlatNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		f := &m.Faces[i]
		p0 := m.Points[f.V[0].PointIdx]
		p1 := m.Points[f.V[1].PointIdx]
		p2 := m.Points[f.V[2].PointIdx]
		m.Normals[i] = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		f.V[0].NormalIdx, f.V[1].NormalIdx, f.V[2].NormalIdx = i, i, i
	}
}

// CalculateSmoothNormals derives a per-point normal by averaging the
// unnormalized face normals of every face touching it, and points every
// corner's NormalIdx at its own PointIdx.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Points))
	for i := range m.Faces {
		f := &m.Faces[i]
		p0 := m.Points[f.V[0].PointIdx]
		p1 := m.Points[f.V[1].PointIdx]
		p2 := m.Points[f.V[2].PointIdx]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		m.Normals[f.V[0].PointIdx] = m.Normals[f.V[0].PointIdx].Add(n)
		m.Normals[f.V[1].PointIdx] = m.Normals[f.V[1].PointIdx].Add(n)
		m.Normals[f.V[2].PointIdx] = m.Normals[f.V[2].PointIdx].Add(n)
		f.V[0].NormalIdx, f.V[1].NormalIdx, f.V[2].NormalIdx = f.V[0].PointIdx, f.V[1].PointIdx, f.V[2].PointIdx
	}
	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// FaceCount implements render.MeshRenderer.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// Face implements render.MeshRenderer.
func (m *Mesh) Face(i int) [3]render.FaceVertex {
	f := m.Faces[i]
	return [3]render.FaceVertex{
		{PointIdx: f.V[0].PointIdx, NormalIdx: f.V[0].NormalIdx, UVIdx: f.V[0].UVIdx},
		{PointIdx: f.V[1].PointIdx, NormalIdx: f.V[1].NormalIdx, UVIdx: f.V[1].UVIdx},
		{PointIdx: f.V[2].PointIdx, NormalIdx: f.V[2].NormalIdx, UVIdx: f.V[2].UVIdx},
	}
}

// Point implements render.MeshRenderer.
func (m *Mesh) Point(idx int) math3d.Vec3 { return m.Points[idx] }

// Normal implements render.MeshRenderer.
func (m *Mesh) Normal(idx int) math3d.Vec3 { return m.Normals[idx] }

// UV implements render.MeshRenderer.
func (m *Mesh) UV(idx int) math3d.Vec2 { return m.UVs[idx] }

// MeshTexture implements render.MeshRenderer.
func (m *Mesh) MeshTexture() *render.Texture { return m.Texture }

var _ render.MeshRenderer = (*Mesh)(nil)
